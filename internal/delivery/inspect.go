package delivery

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Summary describes a saved artifact for the session log.
type Summary struct {
	Bytes int
	Pages int
}

// Inspect reads what it can from the artifact. Only PDFs yield a page
// count; anything unreadable just reports its size.
func Inspect(filename string, data []byte) Summary {
	s := Summary{Bytes: len(data)}
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		s.Pages = pdfPages(data)
	}
	return s
}

func (s Summary) String() string {
	size := fmt.Sprintf("%.1f KB", float64(s.Bytes)/1024)
	switch s.Pages {
	case 0:
		return size
	case 1:
		return size + ", 1 page"
	default:
		return fmt.Sprintf("%s, %d pages", size, s.Pages)
	}
}

func pdfPages(data []byte) (pages int) {
	// The pdf reader panics on some malformed trailers.
	defer func() {
		if recover() != nil {
			pages = 0
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0
	}
	return r.NumPage()
}

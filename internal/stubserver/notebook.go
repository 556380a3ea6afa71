package stubserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Notebook is the subset of the nbformat v4 document the stub renders.
type Notebook struct {
	Cells []Cell `json:"cells"`
}

// Cell is one notebook cell.
type Cell struct {
	Type    string   `json:"cell_type"`
	Source  text     `json:"source"`
	Outputs []Output `json:"outputs,omitempty"`
}

// Output is one code cell output. Only text is kept.
type Output struct {
	Type string          `json:"output_type"`
	Text text            `json:"text,omitempty"`
	Data map[string]text `json:"data,omitempty"`
}

// PlainText returns what a terminal would show for the output.
func (o Output) PlainText() string {
	switch o.Type {
	case "stream":
		return string(o.Text)
	case "execute_result", "display_data":
		return string(o.Data["text/plain"])
	case "error":
		return "error"
	default:
		return ""
	}
}

// text accepts nbformat's multiline strings: either a string or a list of
// lines that are concatenated as-is.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = text(s)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(b, &lines); err != nil {
		return fmt.Errorf("expected string or list of strings, got %s", strings.TrimSpace(string(b)))
	}
	*t = text(strings.Join(lines, ""))
	return nil
}

var errNoCells = errors.New("notebook has no cells")

// ParseNotebook decodes a UTF-8 JSON notebook.
func ParseNotebook(data []byte) (Notebook, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Notebook{}, err
	}
	if _, ok := raw["cells"]; !ok {
		return Notebook{}, errNoCells
	}
	var nb Notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return Notebook{}, err
	}
	return nb, nil
}

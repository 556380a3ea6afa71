package stubserver

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// renderer turns a parsed notebook into an artifact body.
type renderer struct {
	contentType string
	render      func(title string, nb Notebook) ([]byte, error)
}

var renderers = map[string]renderer{
	"html": {contentType: "text/html; charset=utf-8", render: renderHTML},
	"pdf":  {contentType: "application/pdf", render: renderPDF},
}

const htmlHead = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: Arial, sans-serif; margin: 40px; line-height: 1.6; }
.cell { margin-bottom: 20px; padding: 10px; }
.code-cell { background-color: #f5f5f5; border: 1px solid #ddd; border-radius: 4px; }
.output { background-color: #fafafa; border-left: 3px solid #ccc; padding: 10px; margin-top: 10px; }
pre { margin: 0; white-space: pre-wrap; word-wrap: break-word; }
</style>
</head>
<body>
`

var headingRe = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)

func renderHTML(title string, nb Notebook) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, htmlHead, html.EscapeString(title))
	for _, cell := range nb.Cells {
		switch cell.Type {
		case "markdown":
			body := headingRe.ReplaceAllStringFunc(html.EscapeString(string(cell.Source)), func(line string) string {
				m := headingRe.FindStringSubmatch(line)
				return fmt.Sprintf("<h%d>%s</h%d>", len(m[1]), m[2], len(m[1]))
			})
			body = strings.ReplaceAll(body, "\n\n", "</p><p>")
			fmt.Fprintf(&b, "<div class=\"cell markdown-cell\"><p>%s</p></div>\n", body)
		case "code":
			fmt.Fprintf(&b, "<div class=\"cell code-cell\"><pre>%s</pre>", html.EscapeString(string(cell.Source)))
			for _, out := range cell.Outputs {
				if t := out.PlainText(); t != "" {
					fmt.Fprintf(&b, "<div class=\"output\"><pre>%s</pre></div>", html.EscapeString(t))
				}
			}
			b.WriteString("</div>\n")
		default:
			fmt.Fprintf(&b, "<div class=\"cell\"><pre>%s</pre></div>\n", html.EscapeString(string(cell.Source)))
		}
	}
	b.WriteString("</body></html>\n")
	return []byte(b.String()), nil
}

func renderPDF(title string, nb Notebook) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetTitle(title, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 8, tr(title), "", "", false)
	pdf.Ln(4)

	for _, cell := range nb.Cells {
		src := strings.TrimRight(string(cell.Source), "\n")
		switch cell.Type {
		case "code":
			pdf.SetFont("Courier", "", 9)
			pdf.SetFillColor(245, 245, 245)
			pdf.MultiCell(0, 4.5, tr(src), "1", "", true)
			for _, out := range cell.Outputs {
				if t := strings.TrimRight(out.PlainText(), "\n"); t != "" {
					pdf.SetTextColor(90, 90, 90)
					pdf.MultiCell(0, 4.5, tr(t), "L", "", false)
					pdf.SetTextColor(0, 0, 0)
				}
			}
		case "markdown":
			for _, para := range strings.Split(src, "\n\n") {
				if m := headingRe.FindStringSubmatch(para); m != nil && !strings.Contains(para, "\n") {
					pdf.SetFont("Helvetica", "B", float64(17-len(m[1])))
					para = m[2]
				} else {
					pdf.SetFont("Helvetica", "", 11)
				}
				pdf.MultiCell(0, 5.5, tr(para), "", "", false)
				pdf.Ln(1)
			}
		default:
			pdf.SetFont("Helvetica", "I", 10)
			pdf.MultiCell(0, 5, tr(src), "", "", false)
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF generation failed: %w", err)
	}
	return buf.Bytes(), nil
}

package tui

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

// pageLayout splits the window between the fixed panels and the two
// elastic regions: the session log and the file browser.
type pageLayout struct {
	windowWidth   int
	windowHeight  int
	viewportWidth int
	logHeight     int
	browserHeight int
	compactHero   bool
}

const (
	logoHeight        = 8 // art, shadow row and tagline
	compactHeroHeight = 2
	panelsHeight      = 20
	minLogHeight      = 3
	minBrowserRow     = 5
)

func newPageLayout() pageLayout {
	return pageLayout{
		viewportWidth: 80,
		logHeight:     6,
		browserHeight: 10,
	}
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	innerWidth := width - viewportHorizontalPadding
	if innerWidth < minViewportWidth {
		innerWidth = minViewportWidth
	}
	l.viewportWidth = innerWidth

	l.compactHero = height < 32 || width < logoWidth()+viewportHorizontalPadding
	hero := logoHeight
	if l.compactHero {
		hero = compactHeroHeight
	}
	usable := height - hero - panelsHeight
	l.logHeight = usable
	if l.logHeight < minLogHeight {
		l.logHeight = minLogHeight
	}
	l.browserHeight = usable + minLogHeight
	if l.browserHeight < minBrowserRow {
		l.browserHeight = minBrowserRow
	}
}

func logoWidth() int {
	width := 0
	for _, line := range logoArtLines {
		if n := len([]rune(line)); n > width {
			width = n
		}
	}
	return width + 3
}

func (m *model) renderLog() string {
	var cb strings.Builder
	if len(m.logEntries) == 0 {
		cb.WriteString(helperStyle.Render("Service checks, file picks and conversions will appear here."))
		return cb.String()
	}
	wrap := m.wrapWidth(4)
	for idx, entry := range m.logEntries {
		label := entry.At.Format("15:04:05") + " " + logLabel(entry.Kind)
		cb.WriteString(helperStyle.Render(label))
		cb.WriteRune('\n')
		body := wordwrap.String(previewText(entry.Text, logPreviewLimit), wrap)
		if entry.Kind == logError {
			body = errorStyle.Render(body)
		}
		cb.WriteString(indentMultiline(body, "  "))
		if idx < len(m.logEntries)-1 {
			cb.WriteRune('\n')
		}
	}
	return cb.String()
}

func indentMultiline(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func (m *model) wrapWidth(padding int) int {
	width := m.layout.viewportWidth
	if width <= 0 {
		width = 80
	}
	if padding < 0 {
		padding = 0
	}
	available := width - padding
	if available < 20 {
		available = 20
	}
	return available
}

func previewText(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}

func logLabel(kind logKind) string {
	switch kind {
	case logService:
		return "Service"
	case logIntake:
		return "Intake"
	case logConvert:
		return "Convert"
	case logSaved:
		return "Saved"
	case logError:
		return "Error"
	default:
		return string(kind)
	}
}

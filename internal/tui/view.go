package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/notebookconv/internal/session"
)

func (m *model) View() string {
	st := m.session.State()
	p := session.Present(st)

	parts := []string{
		m.heroView(),
		m.backendLine(st, p),
		m.filePanel(st, p),
		m.formatSelector(st.Format),
	}
	if banner := m.bannerView(p.Banner); banner != "" {
		parts = append(parts, banner)
	}
	parts = append(parts, m.convertButton(st, p))
	if m.stage == stageBrowse {
		parts = append(parts, m.browserPanel())
	} else {
		parts = append(parts, m.composerPanel())
	}
	parts = append(parts, m.footerView(m.helpKeys(p)))
	return joinNonEmpty(parts)
}

// helpKeys hides bindings whose action is currently gated off. It works on
// a copy so the live bindings keep matching.
func (m *model) helpKeys(p session.Presentation) keyMap {
	keys := m.keys
	keys.Wake.SetEnabled(p.WakeEnabled)
	keys.Browse.SetEnabled(m.stage == stageCompose)
	return keys
}

func (m *model) heroView() string {
	if m.layout.compactHero {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			logoFaceStyle.Padding(0, 1).Render("notebookconv"),
			taglineStyle.Render(heroTagline),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, renderLogo(), taglineStyle.Render(heroTagline))
}

func (m *model) backendLine(st session.State, p session.Presentation) string {
	style, ok := backendStyles[st.Backend]
	if !ok {
		style = helperStyle
	}
	label := style.Render(p.BackendLabel)
	if st.Backend == session.BackendWarming {
		label = m.spinner.View() + " " + label
	}
	line := []string{label}
	if m.config.ServiceURL != "" {
		line = append(line, helperStyle.Render(m.config.ServiceURL))
	}
	if p.WakeEnabled {
		line = append(line, helperStyle.Render("ctrl+w to wake"))
	}
	return strings.Join(line, helperStyle.Render("  •  "))
}

func (m *model) filePanel(st session.State, p session.Presentation) string {
	body := helperStyle.Render(p.FileLabel)
	if st.File != nil {
		body = fileNameStyle.Render(p.FileLabel)
	}
	var dest string
	if m.config.OutputDir != "" {
		dest = helperStyle.Render("Saving to " + m.config.OutputDir)
	}
	return joinLines(sectionHeaderStyle.Render("Notebook"), body, dest)
}

func (m *model) formatSelector(current session.Format) string {
	cells := []string{helperStyle.Render("Output ")}
	for _, f := range session.Formats {
		style := formatInactiveStyle
		if f == current {
			style = formatActiveStyle
		}
		cells = append(cells, style.Render(f.Label()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (m *model) bannerView(b session.Banner) string {
	if b.Kind == session.BannerNone {
		return ""
	}
	text := wordwrap.String(b.Text, m.wrapWidth(6))
	switch b.Kind {
	case session.BannerError:
		return bannerBoxStyle.BorderForeground(lipgloss.Color("9")).Render(errorStyle.Render(text))
	default:
		if m.lastSaved != "" {
			text = joinLines(text, helperStyle.Render(displayPath(m.lastSaved)))
		}
		return bannerBoxStyle.BorderForeground(lipgloss.Color("#a3be8c")).Render(successStyle.Render(text))
	}
}

func (m *model) convertButton(st session.State, p session.Presentation) string {
	label := p.ConvertLabel
	if st.Status == session.StatusUploading {
		label = m.spinner.View() + " " + label
	}
	if !p.ConvertEnabled {
		return lipgloss.JoinHorizontal(lipgloss.Center, buttonDisabledStyle.Render(label), " ", helperStyle.Render(convertHint(st)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, buttonStyle.Render(label), " ", helperStyle.Render("enter"))
}

// convertHint names the first thing standing between the user and a
// conversion.
func convertHint(st session.State) string {
	switch {
	case st.Status == session.StatusUploading:
		return ""
	case st.File == nil:
		return "select a notebook first"
	case st.Backend == session.BackendWarming:
		return "waiting for the service"
	case st.Backend != session.BackendReady:
		return "service not ready"
	default:
		return ""
	}
}

func (m *model) composerPanel() string {
	return joinLines(
		sectionHeaderStyle.Render("Drop a notebook"),
		m.composer.View(),
	)
}

func (m *model) browserPanel() string {
	return joinLines(
		sectionHeaderStyle.Render("Browse "+m.picker.CurrentDirectory),
		m.picker.View(),
		helperStyle.Render("enter: pick • esc: back"),
	)
}

func (m *model) footerView(keys keyMap) string {
	footer := []string{joinLines(sectionHeaderStyle.Render("Session Log"), m.logView.View())}
	if badges := m.running.badges(m.config.Now()); len(badges) > 0 {
		footer = append(footer, statusBarStyle.Render(strings.Join(badges, "  •  ")))
	}
	footer = append(footer, m.help.ShortHelpView(keys.ShortHelp()))
	return joinLines(footer...)
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

func joinLines(parts ...string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n")
}

func renderLogo() string {
	if len(logoArtLines) == 0 {
		return ""
	}
	width := 0
	lineRunes := make([][]rune, len(logoArtLines))
	for i, line := range logoArtLines {
		runes := []rune(line)
		lineRunes[i] = runes
		if len(runes) > width {
			width = len(runes)
		}
	}
	width++
	height := len(logoArtLines) + 1

	type cell struct {
		r     rune
		style lipgloss.Style
	}
	grid := make([][]cell, height)
	for i := range grid {
		grid[i] = make([]cell, width)
	}
	// Shadow first, offset by one cell, then the face on top.
	for y, runes := range lineRunes {
		for x, r := range runes {
			if r != ' ' && y+1 < height && x+1 < width {
				grid[y+1][x+1] = cell{r: r, style: logoShadowStyle}
			}
		}
	}
	for y, runes := range lineRunes {
		for x, r := range runes {
			if r != ' ' {
				grid[y][x] = cell{r: r, style: logoFaceStyle}
			}
		}
	}

	lines := make([]string, height)
	for y, row := range grid {
		var b strings.Builder
		for _, c := range row {
			if c.r == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteString(c.style.Render(string(c.r)))
		}
		lines[y] = b.String()
	}
	return logoContainerStyle.Render(strings.Join(lines, "\n"))
}

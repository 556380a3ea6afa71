package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/notebookconv/internal/session"
)

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	successStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#a3be8c")).Bold(true)
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	fileNameStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#fff4d0"))

	heroAccentColor        = lipgloss.Color("#ff8c00")
	heroEmberColor         = lipgloss.Color("#2b1400")
	heroTextColor          = lipgloss.Color("#fff4d0")
	heroSecondaryTextColor = lipgloss.Color("#ffb347")

	taglineStyle   = lipgloss.NewStyle().Foreground(heroSecondaryTextColor).Italic(true)
	statusBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	bannerBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)

	backendStyles = map[session.BackendStatus]lipgloss.Style{
		session.BackendWarming: lipgloss.NewStyle().Foreground(lipgloss.Color("#ffd166")),
		session.BackendReady:   lipgloss.NewStyle().Foreground(lipgloss.Color("#a3be8c")),
		session.BackendError:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		session.BackendUnknown: helperStyle,
	}

	formatActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	formatInactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4")).Padding(0, 1)

	buttonStyle         = lipgloss.NewStyle().Bold(true).Foreground(heroTextColor).Background(heroAccentColor).Padding(0, 3)
	buttonDisabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e6a86")).Background(lipgloss.Color("#26233a")).Padding(0, 3)

	logoFaceStyle      = lipgloss.NewStyle().Bold(true).Foreground(heroTextColor).Background(heroEmberColor)
	logoShadowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#110600"))
	logoContainerStyle = lipgloss.NewStyle().Padding(0, 1)
	logoArtLines       = []string{
		"███╗   ██╗ ██████╗   ██████╗  ██████╗  ███╗   ██╗ ██╗   ██╗",
		"████╗  ██║ ██╔══██╗ ██╔════╝ ██╔═══██╗ ████╗  ██║ ██║   ██║",
		"██╔██╗ ██║ ██████╔╝ ██║      ██║   ██║ ██╔██╗ ██║ ██║   ██║",
		"██║╚██╗██║ ██╔══██╗ ██║      ██║   ██║ ██║╚██╗██║ ╚██╗ ██╔╝",
		"██║ ╚████║ ██████╔╝ ╚██████╗ ╚██████╔╝ ██║ ╚████║  ╚████╔╝ ",
		"╚═╝  ╚═══╝ ╚═════╝   ╚═════╝  ╚═════╝  ╚═╝  ╚═══╝   ╚═══╝  ",
	}
)

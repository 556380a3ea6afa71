package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/notebookconv/internal/delivery"
	"github.com/csheth/notebookconv/internal/intake"
	"github.com/csheth/notebookconv/internal/session"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Checker   session.HealthChecker
	Converter session.Converter
	Host      delivery.Host

	// ServiceURL and OutputDir are only displayed.
	ServiceURL string
	OutputDir  string

	Format session.Format
	// InitialPaths are treated as a drop before the first frame.
	InitialPaths []string
	// Now defaults to time.Now.
	Now func() time.Time
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	if config.Now == nil {
		config.Now = time.Now
	}

	composer := textinput.New()
	composer.Placeholder = composerPlaceholder
	composer.CharLimit = composerCharLimit
	composer.Width = 70
	composer.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	picker := filepicker.New()
	picker.AllowedTypes = []string{session.NotebookExt}
	picker.CurrentDirectory = startDirectory()
	picker.Height = 10

	layout := newPageLayout()
	logView := viewport.New(layout.viewportWidth, layout.logHeight)
	logView.MouseWheelEnabled = true

	m := &model{
		config:   config,
		session:  session.New(),
		stage:    stageCompose,
		composer: composer,
		picker:   picker,
		spinner:  spin,
		logView:  logView,
		help:     help.New(),
		keys:     newKeyMap(),
		layout:   layout,
		jobs:     newJobBus(config.Now),
		running:  jobBoard{},
	}
	if config.Format != "" {
		m.session.SetFormat(config.Format)
	}
	if len(config.InitialPaths) > 0 {
		m.dropFiles(intake.Candidates(config.InitialPaths))
	}
	m.refreshLog()
	return m
}

func startDirectory() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

type model struct {
	config  Config
	session *session.Session
	stage   stage

	composer textinput.Model
	picker   filepicker.Model
	spinner  spinner.Model
	logView  viewport.Model
	help     help.Model
	keys     keyMap
	layout   pageLayout

	jobs       *jobBus
	running    jobBoard
	logEntries []logEntry
	lastSaved  string
}

// Init focuses the composer and probes the service once, as soon as the
// program starts.
func (m *model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.startProbe())
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case jobSignalMsg:
		m.running.track(msg.Snapshot)
		return m, nil
	case jobResultEnvelope:
		m.running.track(msg.Snapshot)
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case probeResultMsg:
		m.session.FinishProbe(msg.result)
		if msg.result.Err != nil {
			m.appendLog(logError, fmt.Sprintf("Service unavailable: %v", msg.result.Err))
		} else {
			m.appendLog(logService, session.Present(m.session.State()).BackendLabel)
		}
		return m, nil
	case convertResultMsg:
		return m.finishConvert(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		if m.stage == stageBrowse {
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)
			m.picker.Height = m.layout.browserHeight
			return m, cmd
		}
		return m, nil
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.stage == stageBrowse {
			return m.handleBrowseKey(msg)
		}
		return m.handleComposeKey(msg)
	}

	if m.stage == stageBrowse {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) handleComposeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Accept):
		value := strings.TrimSpace(m.composer.Value())
		if value == "" {
			return m, m.startConvert()
		}
		m.composer.SetValue("")
		m.dropFiles(intake.Parse(value))
		return m, nil
	case key.Matches(msg, m.keys.Format):
		m.session.ToggleFormat()
		return m, nil
	case key.Matches(msg, m.keys.Wake):
		if !m.session.CanWake() {
			return m, nil
		}
		return m, m.startProbe()
	case key.Matches(msg, m.keys.Reset):
		m.session.ResetSelection()
		m.lastSaved = ""
		m.appendLog(logIntake, "Selection cleared.")
		return m, nil
	case key.Matches(msg, m.keys.Browse):
		m.stage = stageBrowse
		m.composer.Blur()
		m.picker.Height = m.layout.browserHeight
		return m, m.picker.Init()
	case key.Matches(msg, m.keys.Cancel):
		if m.composer.Value() != "" {
			m.composer.SetValue("")
			return m, nil
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.LogUp):
		m.logView.HalfViewUp()
		return m, nil
	case key.Matches(msg, m.keys.LogDown):
		m.logView.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return m, cmd
}

func (m *model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Cancel) {
		m.closeBrowser()
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.closeBrowser()
		m.dropFiles(intake.Candidates([]string{path}))
		return m, cmd
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.closeBrowser()
		m.dropFiles(intake.Candidates([]string{path}))
		return m, cmd
	}
	return m, cmd
}

func (m *model) closeBrowser() {
	m.stage = stageCompose
	m.composer.Focus()
}

// dropFiles runs one intake attempt. Paths that could not be read are an
// input error; otherwise the session applies its single-file policy.
func (m *model) dropFiles(files []session.File, err error) {
	if err != nil {
		m.session.RejectInput(err.Error())
		m.appendLog(logError, err.Error())
		return
	}
	if m.session.AcceptDrop(files) {
		f := m.session.State().File
		m.lastSaved = ""
		m.appendLog(logIntake, fmt.Sprintf("Selected %s (%s)", f.Name, f.SizeLabel()))
		return
	}
	st := m.session.State()
	name := "nothing"
	if len(files) > 0 {
		name = files[0].Name
	}
	m.appendLog(logError, fmt.Sprintf("Rejected %s: %s", name, st.ErrorMessage))
}

func (m *model) startProbe() tea.Cmd {
	m.session.BeginProbe()
	started := m.config.Now()
	m.appendLog(logService, "Waking up the conversion service…")
	return tea.Batch(
		m.spinner.Tick,
		m.jobs.Start(jobKindProbe, probeJob(m.config.Checker, started, m.config.Now)),
	)
}

func (m *model) startConvert() tea.Cmd {
	req, ok := m.session.BeginConvert()
	if !ok {
		return nil
	}
	m.lastSaved = ""
	m.appendLog(logConvert, fmt.Sprintf("Uploading %s for %s conversion…", req.File.Name, req.Format.Label()))
	return tea.Batch(
		m.spinner.Tick,
		m.jobs.Start(jobKindConvert, convertJob(m.config.Converter, m.config.Host, req)),
	)
}

func (m *model) finishConvert(msg convertResultMsg) (tea.Model, tea.Cmd) {
	m.session.FinishConvert(msg.result)
	res := msg.result
	if res.Err != nil {
		m.appendLog(logError, fmt.Sprintf("%s → %s failed: %s", msg.request.File.Name, msg.request.Format.Label(), m.session.State().ErrorMessage))
		return m, nil
	}
	m.lastSaved = res.Path
	m.appendLog(logSaved, fmt.Sprintf("%s (%s)", displayPath(res.Path), res.Summary))
	return m, nil
}

func (m *model) busy() bool {
	st := m.session.State()
	return st.Backend == session.BackendWarming || st.Status == session.StatusUploading
}

func (m *model) appendLog(kind logKind, text string) {
	m.logEntries = append(m.logEntries, logEntry{Kind: kind, Text: text, At: m.config.Now()})
	m.refreshLog()
}

func (m *model) refreshLog() {
	m.logView.SetContent(m.renderLog())
	m.logView.GotoBottom()
}

func (m *model) resize(width, height int) {
	m.layout.Update(width, height)
	m.logView.Width = m.layout.viewportWidth
	m.logView.Height = m.layout.logHeight
	m.composer.Width = m.layout.viewportWidth - 4
	m.help.Width = m.layout.viewportWidth
	m.refreshLog()
}

func displayPath(path string) string {
	if wd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(wd, path); err == nil && !strings.HasPrefix(rel, "..") {
			return rel
		}
	}
	return path
}

package tui

import "time"

type stage int

const (
	stageCompose stage = iota
	stageBrowse
)

const heroTagline = "Convert Jupyter notebooks to HTML or PDF."

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
	logPreviewLimit           = 240
)

const (
	composerPlaceholder = "Drop or paste a .ipynb path, then press Enter…"
	composerCharLimit   = 4096
)

type logKind string

const (
	logService logKind = "service"
	logIntake  logKind = "intake"
	logConvert logKind = "convert"
	logSaved   logKind = "saved"
	logError   logKind = "error"
)

type logEntry struct {
	Kind logKind
	Text string
	At   time.Time
}

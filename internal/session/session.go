// Package session holds the client state machine: file intake, backend
// readiness and the conversion lifecycle. Session itself performs no I/O;
// Probe and Convert do the blocking work and report back through the
// Finish* methods.
package session

import (
	"math"
	"time"
)

// Session owns every piece of client state for one interactive run.
type Session struct {
	file        *File
	format      Format
	status      ConversionStatus
	backend     BackendStatus
	errMessage  string
	warmup      float64
	warmupKnown bool
}

// State is an immutable snapshot used by the presentation layer.
type State struct {
	File          *File
	Format        Format
	Status        ConversionStatus
	Backend       BackendStatus
	ErrorMessage  string
	WarmupElapsed float64
	WarmupKnown   bool
}

// Request captures what a single convert call will send.
type Request struct {
	File   File
	Format Format
}

// New returns a session with no file, html output and an unknown backend.
func New() *Session {
	return &Session{
		format:  FormatHTML,
		status:  StatusIdle,
		backend: BackendUnknown,
	}
}

// State returns a copy of the current state.
func (s *Session) State() State {
	st := State{
		Format:        s.format,
		Status:        s.status,
		Backend:       s.backend,
		ErrorMessage:  s.errMessage,
		WarmupElapsed: s.warmup,
		WarmupKnown:   s.warmupKnown,
	}
	if s.file != nil {
		f := *s.file
		st.File = &f
	}
	return st
}

// AcceptDrop considers the first candidate only. A notebook replaces the
// current selection and resets the attempt; anything else leaves the
// selection alone and records the invalid-type message.
func (s *Session) AcceptDrop(candidates []File) bool {
	if len(candidates) == 0 || !candidates[0].IsNotebook() {
		s.errMessage = msgInvalidFile
		return false
	}
	f := candidates[0]
	s.file = &f
	s.errMessage = ""
	s.status = StatusIdle
	return true
}

// RejectInput records an intake problem that happened before a candidate
// could be built (for example an unreadable path).
func (s *Session) RejectInput(message string) {
	s.errMessage = message
}

// ResetSelection clears the file and any outcome of the previous attempt.
func (s *Session) ResetSelection() {
	s.file = nil
	s.status = StatusIdle
	s.errMessage = ""
}

// SetFormat changes the output format.
func (s *Session) SetFormat(f Format) {
	s.format = f
}

// ToggleFormat cycles through Formats and returns the new value.
func (s *Session) ToggleFormat() Format {
	for i, f := range Formats {
		if f == s.format {
			s.format = Formats[(i+1)%len(Formats)]
			return s.format
		}
	}
	s.format = FormatHTML
	return s.format
}

// CanWake reports whether a manual probe should be offered.
func (s *Session) CanWake() bool {
	return s.State().CanWake()
}

// CanWake is true while the backend is unknown or failed.
func (st State) CanWake() bool {
	return st.Backend == BackendUnknown || st.Backend == BackendError
}

// BeginProbe marks the backend as warming. Callers take the start timestamp
// at the same time. Overlapping probes are allowed.
func (s *Session) BeginProbe() {
	s.backend = BackendWarming
	s.warmup = 0
	s.warmupKnown = false
}

// FinishProbe applies a probe outcome. Whichever probe resolves last wins.
func (s *Session) FinishProbe(res ProbeResult) {
	if res.Err != nil {
		s.backend = BackendError
		return
	}
	s.warmup = roundTenth(res.Elapsed)
	s.warmupKnown = true
	s.backend = BackendReady
}

// CanConvert is the enablement gate for the convert action.
func (s *Session) CanConvert() bool {
	return s.State().CanConvert()
}

// CanConvert requires a file, no upload in flight and a ready backend.
func (st State) CanConvert() bool {
	return st.File != nil && st.Status != StatusUploading && st.Backend == BackendReady
}

// BeginConvert moves to uploading and returns the request to run. When the
// gate is closed it changes nothing and returns false.
func (s *Session) BeginConvert() (Request, bool) {
	if !s.CanConvert() {
		return Request{}, false
	}
	s.status = StatusUploading
	s.errMessage = ""
	return Request{File: *s.file, Format: s.format}, true
}

// FinishConvert applies the outcome of a conversion.
func (s *Session) FinishConvert(res ConvertResult) {
	if res.Err != nil {
		s.status = StatusError
		s.errMessage = res.Err.Error()
		if s.errMessage == "" {
			s.errMessage = msgGenericFailure
		}
		return
	}
	s.status = StatusSuccess
}

func roundTenth(d time.Duration) float64 {
	return math.Round(d.Seconds()*10) / 10
}

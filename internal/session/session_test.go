package session

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/csheth/notebookconv/internal/delivery"
)

func readySession(t *testing.T) *Session {
	t.Helper()
	s := New()
	s.BeginProbe()
	s.FinishProbe(ProbeResult{Elapsed: 1200 * time.Millisecond})
	return s
}

func TestNewSessionDefaults(t *testing.T) {
	t.Parallel()

	st := New().State()
	if st.File != nil || st.Format != FormatHTML || st.Status != StatusIdle || st.Backend != BackendUnknown {
		t.Fatalf("unexpected initial state %+v", st)
	}
	if st.ErrorMessage != "" || st.WarmupKnown {
		t.Fatalf("expected no message and no warmup, got %+v", st)
	}
}

func TestAcceptDrop(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		candidates []File
		accepted   bool
		wantFile   string
		wantMsg    string
	}{
		{"notebook", []File{{Name: "a.ipynb", Size: 2048}}, true, "a.ipynb", ""},
		{"wrong suffix", []File{{Name: "a.py"}}, false, "keep.ipynb", msgInvalidFile},
		{"upper case suffix", []File{{Name: "A.IPYNB"}}, false, "keep.ipynb", msgInvalidFile},
		{"first candidate only", []File{{Name: "notes.txt"}, {Name: "b.ipynb"}}, false, "keep.ipynb", msgInvalidFile},
		{"first valid wins", []File{{Name: "c.ipynb"}, {Name: "d.ipynb"}}, true, "c.ipynb", ""},
		{"empty drop", nil, false, "keep.ipynb", msgInvalidFile},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := New()
			if !s.AcceptDrop([]File{{Name: "keep.ipynb"}}) {
				t.Fatal("seed file rejected")
			}
			s.status = StatusError
			s.errMessage = "stale"

			if got := s.AcceptDrop(tt.candidates); got != tt.accepted {
				t.Fatalf("AcceptDrop = %v, want %v", got, tt.accepted)
			}
			st := s.State()
			if st.File == nil || st.File.Name != tt.wantFile {
				t.Fatalf("file = %+v, want %q", st.File, tt.wantFile)
			}
			if st.ErrorMessage != tt.wantMsg {
				t.Fatalf("message = %q, want %q", st.ErrorMessage, tt.wantMsg)
			}
			if tt.accepted && st.Status != StatusIdle {
				t.Fatalf("accepted drop should reset status, got %s", st.Status)
			}
			if !tt.accepted && st.Status != StatusError {
				t.Fatalf("rejected drop should not touch status, got %s", st.Status)
			}
		})
	}
}

func TestResetSelection(t *testing.T) {
	t.Parallel()

	s := readySession(t)
	s.AcceptDrop([]File{{Name: "a.ipynb"}})
	s.FinishConvert(ConvertResult{Err: errors.New("boom")})

	s.ResetSelection()
	st := s.State()
	if st.File != nil || st.Status != StatusIdle || st.ErrorMessage != "" {
		t.Fatalf("reset left state behind: %+v", st)
	}
	if st.Backend != BackendReady {
		t.Fatalf("reset must not touch backend status, got %s", st.Backend)
	}
}

func TestToggleFormat(t *testing.T) {
	t.Parallel()

	s := New()
	if got := s.ToggleFormat(); got != FormatPDF {
		t.Fatalf("first toggle = %s", got)
	}
	if got := s.ToggleFormat(); got != FormatHTML {
		t.Fatalf("second toggle = %s", got)
	}
	s.SetFormat(FormatPDF)
	if s.State().Format != FormatPDF {
		t.Fatal("SetFormat ignored")
	}
}

func TestCanConvertGate(t *testing.T) {
	t.Parallel()

	file := &File{Name: "a.ipynb"}
	statuses := []ConversionStatus{StatusIdle, StatusUploading, StatusSuccess, StatusError}
	backends := []BackendStatus{BackendUnknown, BackendWarming, BackendReady, BackendError}

	for _, f := range []*File{nil, file} {
		for _, status := range statuses {
			for _, backend := range backends {
				st := State{File: f, Status: status, Backend: backend}
				want := f != nil && status != StatusUploading && backend == BackendReady
				if got := st.CanConvert(); got != want {
					t.Fatalf("CanConvert(file=%v, %s, %s) = %v, want %v", f != nil, status, backend, got, want)
				}
				wantWake := backend == BackendUnknown || backend == BackendError
				if got := st.CanWake(); got != wantWake {
					t.Fatalf("CanWake(%s) = %v, want %v", backend, got, wantWake)
				}
			}
		}
	}
}

func TestProbeLifecycle(t *testing.T) {
	t.Parallel()

	s := New()
	s.BeginProbe()
	if st := s.State(); st.Backend != BackendWarming || st.WarmupKnown {
		t.Fatalf("after BeginProbe: %+v", st)
	}
	if s.CanWake() {
		t.Fatal("wake must be disabled while warming")
	}

	s.FinishProbe(ProbeResult{Err: errors.New("connection refused")})
	if st := s.State(); st.Backend != BackendError || st.ErrorMessage != "" {
		t.Fatalf("failed probe should only flip backend: %+v", st)
	}

	s.BeginProbe()
	s.FinishProbe(ProbeResult{Elapsed: 2340 * time.Millisecond})
	st := s.State()
	if st.Backend != BackendReady || !st.WarmupKnown || st.WarmupElapsed != 2.3 {
		t.Fatalf("ready probe: %+v", st)
	}
}

type stubChecker struct {
	err error
}

func (s stubChecker) Health(context.Context) error { return s.err }

func TestProbeMeasuresFromStart(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return start.Add(4260 * time.Millisecond) }

	res := Probe(context.Background(), stubChecker{}, start, now)
	if res.Err != nil || res.Elapsed != 4260*time.Millisecond {
		t.Fatalf("unexpected probe result %+v", res)
	}
	s := New()
	s.BeginProbe()
	s.FinishProbe(res)
	if got := s.State().WarmupElapsed; got != 4.3 {
		t.Fatalf("warmup = %v, want 4.3", got)
	}

	failed := Probe(context.Background(), stubChecker{err: errors.New("503")}, start, now)
	if failed.Err == nil || failed.Elapsed != 0 {
		t.Fatalf("failed probe should carry only the error, got %+v", failed)
	}
}

func TestOverlappingProbesLastWins(t *testing.T) {
	t.Parallel()

	s := New()
	s.BeginProbe()
	s.BeginProbe()
	s.FinishProbe(ProbeResult{Elapsed: time.Second})
	s.FinishProbe(ProbeResult{Err: errors.New("late failure")})
	if s.State().Backend != BackendError {
		t.Fatalf("last resolution should win, got %s", s.State().Backend)
	}
}

func TestBeginConvertGateAndReentry(t *testing.T) {
	t.Parallel()

	s := New()
	s.AcceptDrop([]File{{Name: "a.ipynb"}})
	if _, ok := s.BeginConvert(); ok {
		t.Fatal("convert must be gated on a ready backend")
	}

	s.BeginProbe()
	s.FinishProbe(ProbeResult{Elapsed: time.Second})
	s.SetFormat(FormatPDF)
	s.RejectInput("stale")

	req, ok := s.BeginConvert()
	if !ok {
		t.Fatal("expected convert to start")
	}
	if req.File.Name != "a.ipynb" || req.Format != FormatPDF {
		t.Fatalf("unexpected request %+v", req)
	}
	st := s.State()
	if st.Status != StatusUploading || st.ErrorMessage != "" {
		t.Fatalf("BeginConvert state: %+v", st)
	}

	if _, ok := s.BeginConvert(); ok {
		t.Fatal("second BeginConvert while uploading must be a no-op")
	}
}

func TestFinishConvert(t *testing.T) {
	t.Parallel()

	s := readySession(t)
	s.AcceptDrop([]File{{Name: "a.ipynb"}})

	s.BeginConvert()
	s.FinishConvert(ConvertResult{Err: errors.New("bad notebook")})
	if st := s.State(); st.Status != StatusError || st.ErrorMessage != "bad notebook" {
		t.Fatalf("error outcome: %+v", st)
	}

	s.BeginConvert()
	s.FinishConvert(ConvertResult{Err: errors.New("")})
	if got := s.State().ErrorMessage; got != msgGenericFailure {
		t.Fatalf("empty error should fall back, got %q", got)
	}

	s.BeginConvert()
	s.FinishConvert(ConvertResult{Filename: "a.html", Path: "a.html"})
	if st := s.State(); st.Status != StatusSuccess || st.ErrorMessage != "" {
		t.Fatalf("success outcome: %+v", st)
	}
}

func TestOutputName(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in     string
		format Format
		want   string
	}{
		"html":             {"report.ipynb", FormatHTML, "report.html"},
		"pdf":              {"analysis.ipynb", FormatPDF, "analysis.pdf"},
		"inner occurrence": {"a.ipynb.ipynb", FormatPDF, "a.ipynb.pdf"},
		"dots in stem":     {"v1.2.final.ipynb", FormatHTML, "v1.2.final.html"},
		"only the suffix":  {".ipynb", FormatHTML, ".html"},
	}
	for name, tt := range tests {
		if got := OutputName(tt.in, tt.format); got != tt.want {
			t.Fatalf("%s: OutputName(%q) = %q, want %q", name, tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	if f, err := ParseFormat(" PDF "); err != nil || f != FormatPDF {
		t.Fatalf("ParseFormat(PDF) = %v, %v", f, err)
	}
	if _, err := ParseFormat("docx"); err == nil {
		t.Fatal("expected docx to be rejected")
	}
}

type fakeConverter struct {
	gotFormat string
	gotName   string
	gotBody   string
	out       []byte
	err       error
}

func (f *fakeConverter) Convert(_ context.Context, format, filename string, body io.Reader) ([]byte, error) {
	data, _ := io.ReadAll(body)
	f.gotFormat, f.gotName, f.gotBody = format, filename, string(data)
	return f.out, f.err
}

type memHost struct {
	events []string
	saved  map[string][]byte
	staged map[delivery.Handle][]byte
}

func newMemHost() *memHost {
	return &memHost{saved: map[string][]byte{}, staged: map[delivery.Handle][]byte{}}
}

func (m *memHost) Stage(data []byte) (delivery.Handle, error) {
	h := delivery.Handle("blob:1")
	m.staged[h] = data
	m.events = append(m.events, "stage")
	return h, nil
}

func (m *memHost) Save(h delivery.Handle, filename string) (string, error) {
	m.saved[filename] = m.staged[h]
	m.events = append(m.events, "save "+filename)
	return filename, nil
}

func (m *memHost) Release(h delivery.Handle) error {
	delete(m.staged, h)
	m.events = append(m.events, "release")
	return nil
}

func writeNotebook(t *testing.T, name, body string) File {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write notebook: %v", err)
	}
	return File{Name: name, Size: int64(len(body)), Path: path}
}

func TestConvertDeliversUnderOutputName(t *testing.T) {
	t.Parallel()

	file := writeNotebook(t, "analysis.ipynb", `{"cells":[]}`)
	conv := &fakeConverter{out: []byte("%PDF-1.4")}
	host := newMemHost()

	res := Convert(context.Background(), conv, host, Request{File: file, Format: FormatPDF})
	if res.Err != nil {
		t.Fatalf("convert failed: %v", res.Err)
	}
	if conv.gotFormat != "pdf" || conv.gotName != "analysis.ipynb" || conv.gotBody != `{"cells":[]}` {
		t.Fatalf("converter saw %+v", conv)
	}
	if res.Filename != "analysis.pdf" || string(host.saved["analysis.pdf"]) != "%PDF-1.4" {
		t.Fatalf("unexpected delivery %+v / %v", res, host.saved)
	}
	want := []string{"stage", "save analysis.pdf", "release"}
	if len(host.events) != len(want) {
		t.Fatalf("events = %v, want %v", host.events, want)
	}
	for i := range want {
		if host.events[i] != want[i] {
			t.Fatalf("events = %v, want %v", host.events, want)
		}
	}
	if len(host.staged) != 0 {
		t.Fatal("staged handle leaked")
	}
	if res.Summary.Bytes != len("%PDF-1.4") {
		t.Fatalf("summary = %+v, want %d bytes", res.Summary, len("%PDF-1.4"))
	}
}

func TestConvertFailureSkipsDelivery(t *testing.T) {
	t.Parallel()

	file := writeNotebook(t, "a.ipynb", "{}")
	conv := &fakeConverter{err: errors.New("Server error: 502 Bad Gateway")}
	host := newMemHost()

	res := Convert(context.Background(), conv, host, Request{File: file, Format: FormatHTML})
	if res.Err == nil || res.Err.Error() != "Server error: 502 Bad Gateway" {
		t.Fatalf("expected service error, got %v", res.Err)
	}
	if len(host.events) != 0 {
		t.Fatalf("host should not be touched, got %v", host.events)
	}

	s := readySession(t)
	s.AcceptDrop([]File{file})
	s.BeginConvert()
	s.FinishConvert(res)
	if got := s.State().ErrorMessage; got != "Server error: 502 Bad Gateway" {
		t.Fatalf("message = %q", got)
	}
}

func TestConvertMissingFile(t *testing.T) {
	t.Parallel()

	conv := &fakeConverter{}
	res := Convert(context.Background(), conv, newMemHost(), Request{
		File:   File{Name: "gone.ipynb", Path: filepath.Join(t.TempDir(), "gone.ipynb")},
		Format: FormatHTML,
	})
	if res.Err == nil {
		t.Fatal("expected open error")
	}
	if conv.gotName != "" {
		t.Fatal("converter must not be called")
	}
}

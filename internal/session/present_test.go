package session

import "testing"

func TestPresentLabels(t *testing.T) {
	t.Parallel()

	file := &File{Name: "a.ipynb", Size: 2048}
	tests := []struct {
		name    string
		state   State
		convert string
		backend string
		file    string
		banner  Banner
		enabled bool
	}{
		{
			name:    "initial",
			state:   State{Format: FormatHTML, Status: StatusIdle, Backend: BackendUnknown},
			convert: "Convert to HTML",
			backend: "Service status unknown",
			file:    "No notebook selected",
		},
		{
			name:    "warming with file",
			state:   State{File: file, Format: FormatPDF, Status: StatusIdle, Backend: BackendWarming},
			convert: "Convert to PDF",
			backend: "Waking up the conversion service…",
			file:    "a.ipynb (2.0 KB)",
		},
		{
			name:    "ready with warmup",
			state:   State{File: file, Format: FormatHTML, Backend: BackendReady, WarmupElapsed: 4.3, WarmupKnown: true},
			convert: "Convert to HTML",
			backend: "Service ready (warmed up in 4.3s)",
			file:    "a.ipynb (2.0 KB)",
			enabled: true,
		},
		{
			name:    "uploading",
			state:   State{File: file, Format: FormatPDF, Status: StatusUploading, Backend: BackendReady},
			convert: "Converting...",
			backend: "Service ready",
			file:    "a.ipynb (2.0 KB)",
		},
		{
			name:    "success",
			state:   State{File: file, Format: FormatPDF, Status: StatusSuccess, Backend: BackendReady},
			convert: "Convert to PDF",
			backend: "Service ready",
			file:    "a.ipynb (2.0 KB)",
			banner:  Banner{Kind: BannerSuccess, Text: successMessage},
			enabled: true,
		},
		{
			name:    "error wins over success",
			state:   State{Format: FormatHTML, Status: StatusSuccess, Backend: BackendError, ErrorMessage: msgInvalidFile},
			convert: "Convert to HTML",
			backend: "Service unavailable",
			file:    "No notebook selected",
			banner:  Banner{Kind: BannerError, Text: msgInvalidFile},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := Present(tt.state)
			if p.ConvertLabel != tt.convert {
				t.Fatalf("convert label = %q, want %q", p.ConvertLabel, tt.convert)
			}
			if p.BackendLabel != tt.backend {
				t.Fatalf("backend label = %q, want %q", p.BackendLabel, tt.backend)
			}
			if p.FileLabel != tt.file {
				t.Fatalf("file label = %q, want %q", p.FileLabel, tt.file)
			}
			if p.Banner != tt.banner {
				t.Fatalf("banner = %+v, want %+v", p.Banner, tt.banner)
			}
			if p.ConvertEnabled != tt.enabled {
				t.Fatalf("convert enabled = %v, want %v", p.ConvertEnabled, tt.enabled)
			}
		})
	}
}

func TestPresentWakeEnabled(t *testing.T) {
	t.Parallel()

	for backend, want := range map[BackendStatus]bool{
		BackendUnknown: true,
		BackendWarming: false,
		BackendReady:   false,
		BackendError:   true,
	} {
		if got := Present(State{Backend: backend}).WakeEnabled; got != want {
			t.Fatalf("WakeEnabled(%s) = %v, want %v", backend, got, want)
		}
	}
}

package session

import "fmt"

// BannerKind selects how the message banner is styled.
type BannerKind int

const (
	BannerNone BannerKind = iota
	BannerError
	BannerSuccess
)

const successMessage = "Conversion successful! Your file has been saved."

// Banner is the single message shown under the format selector.
type Banner struct {
	Kind BannerKind
	Text string
}

// Presentation is everything the view needs, derived from State alone.
type Presentation struct {
	ConvertEnabled bool
	WakeEnabled    bool
	ConvertLabel   string
	BackendLabel   string
	FileLabel      string
	Banner         Banner
}

// Present derives the view model. It holds no state of its own.
func Present(st State) Presentation {
	p := Presentation{
		ConvertEnabled: st.CanConvert(),
		WakeEnabled:    st.CanWake(),
		BackendLabel:   backendLabel(st),
		FileLabel:      "No notebook selected",
	}

	if st.Status == StatusUploading {
		p.ConvertLabel = "Converting..."
	} else {
		p.ConvertLabel = "Convert to " + st.Format.Label()
	}

	if st.File != nil {
		p.FileLabel = fmt.Sprintf("%s (%s)", st.File.Name, st.File.SizeLabel())
	}

	switch {
	case st.ErrorMessage != "":
		p.Banner = Banner{Kind: BannerError, Text: st.ErrorMessage}
	case st.Status == StatusSuccess:
		p.Banner = Banner{Kind: BannerSuccess, Text: successMessage}
	}
	return p
}

func backendLabel(st State) string {
	switch st.Backend {
	case BackendWarming:
		return "Waking up the conversion service…"
	case BackendReady:
		if st.WarmupKnown {
			return fmt.Sprintf("Service ready (warmed up in %.1fs)", st.WarmupElapsed)
		}
		return "Service ready"
	case BackendError:
		return "Service unavailable"
	default:
		return "Service status unknown"
	}
}

package tuitest

import (
	"regexp"
	"strings"
)

// Frame is one screen's worth of output between two clear-screen
// sequences, with and without escape codes.
type Frame struct {
	Index int
	ANSI  string
	Plain string
}

var (
	clearScreen = regexp.MustCompile(`\x1b\[[0-9;]*J`)
	// CSI sequences, OSC strings and the SI/SO charset shifts.
	escapeCodes = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]|\x1b\][^\x07]*(?:\x07|\x1b\\)|[\x0e\x0f]`)
)

func parseFrames(raw []byte) []Frame {
	stream := strings.ReplaceAll(string(raw), "\r", "")
	var frames []Frame
	for _, chunk := range clearScreen.Split(stream, -1) {
		chunk = strings.TrimPrefix(strings.Trim(chunk, "\x00"), "\x1b[H")
		plain := normalizeLines(stripANSI(chunk))
		if plain == "" {
			continue
		}
		frames = append(frames, Frame{Index: len(frames), ANSI: chunk, Plain: plain})
	}
	if frames == nil && stream != "" {
		frames = []Frame{{ANSI: stream, Plain: normalizeLines(stripANSI(stream))}}
	}
	return frames
}

// FinalFrame returns the last captured frame, or false when nothing was
// drawn.
func (r *Recording) FinalFrame() (Frame, bool) {
	if r == nil || len(r.Frames) == 0 {
		return Frame{}, false
	}
	return r.Frames[len(r.Frames)-1], true
}

// FrameContaining returns the first frame whose plain text includes text.
func (r *Recording) FrameContaining(text string) (Frame, bool) {
	if r == nil {
		return Frame{}, false
	}
	for _, f := range r.Frames {
		if strings.Contains(f.Plain, text) {
			return f, true
		}
	}
	return Frame{}, false
}

// Contains reports whether text was drawn at any point. Incremental
// renders rarely clear the screen, so the raw stream is searched too.
func (r *Recording) Contains(text string) bool {
	if _, ok := r.FrameContaining(text); ok {
		return true
	}
	return r != nil && strings.Contains(stripANSI(string(r.Raw)), text)
}

func stripANSI(s string) string {
	return escapeCodes.ReplaceAllString(s, "")
}

// normalizeLines drops trailing spaces on each line and trailing blank
// lines. An all-blank input yields "".
func normalizeLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

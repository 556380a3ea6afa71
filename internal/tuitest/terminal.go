package tuitest

import (
	"bytes"
	"io"
)

// terminalQueries maps the probes lipgloss and bubbletea send at startup to
// the answers a real terminal would give. Without them the program waits
// for a reply that never comes.
var terminalQueries = []struct {
	query, reply string
}{
	{"\x1b[6n", "\x1b[1;1R"},
	{"\x1b]10;?\x07", "\x1b]10;rgb:cccc/cccc/cccc\x07"},
	{"\x1b]10;?\x1b\\", "\x1b]10;rgb:cccc/cccc/cccc\x1b\\"},
	{"\x1b]11;?\x07", "\x1b]11;rgb:0000/0000/0000\x07"},
	{"\x1b]11;?\x1b\\", "\x1b]11;rgb:0000/0000/0000\x1b\\"},
}

const (
	responderMaxBuffer = 256
	responderTail      = 64
)

type terminalResponder struct {
	w   io.Writer
	buf []byte
}

func newTerminalResponder(w io.Writer) *terminalResponder {
	return &terminalResponder{w: w, buf: make([]byte, 0, responderMaxBuffer)}
}

// Process scans a chunk of program output and answers any queries in it.
// A short tail is kept so a query split across reads is still seen.
func (tr *terminalResponder) Process(chunk []byte) {
	tr.buf = append(tr.buf, chunk...)
	for tr.answerNext() {
	}
	if len(tr.buf) > responderMaxBuffer {
		tr.buf = tr.buf[len(tr.buf)-responderTail:]
	}
}

// answerNext replies to the earliest pending query and drops the buffer
// up to its end.
func (tr *terminalResponder) answerNext() bool {
	first, firstIdx := -1, -1
	for i, q := range terminalQueries {
		idx := bytes.Index(tr.buf, []byte(q.query))
		if idx >= 0 && (firstIdx < 0 || idx < firstIdx) {
			first, firstIdx = i, idx
		}
	}
	if first < 0 {
		return false
	}
	q := terminalQueries[first]
	tr.buf = tr.buf[firstIdx+len(q.query):]
	_, _ = io.WriteString(tr.w, q.reply)
	return true
}

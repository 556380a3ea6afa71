// Package intake turns pasted terminal text into drop candidates. Terminals
// deliver drag-and-drop as a line of paths, quoted or backslash-escaped
// depending on the emulator.
package intake

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/csheth/notebookconv/internal/session"
)

// ErrUnterminatedQuote is returned when a quoted path never closes.
var ErrUnterminatedQuote = errors.New("unterminated quote in path list")

// SplitPaths splits a pasted line into paths. Whitespace separates entries;
// single quotes are literal, double quotes and bare words honour backslash
// escapes. A file:// prefix is stripped.
func SplitPaths(line string) ([]string, error) {
	var (
		out     []string
		cur     strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)
	flush := func() {
		if inWord {
			out = append(out, strings.TrimPrefix(cur.String(), "file://"))
			cur.Reset()
			inWord = false
		}
	}

	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case quote == '\'':
			if r == '\'' {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\\':
			escaped = true
			inWord = true
		case quote == '"':
			if r == '"' {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inWord = true
		case unicode.IsSpace(r):
			flush()
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if quote != 0 {
		return nil, ErrUnterminatedQuote
	}
	if escaped {
		cur.WriteRune('\\')
	}
	flush()
	return out, nil
}

// Candidates builds the drop from the first path; the session only ever
// considers the first candidate, so the rest are not looked at. A name
// without the notebook suffix is passed through unchecked and rejected by
// the session as the wrong type. A notebook path that is missing or a
// directory is an input error.
func Candidates(paths []string) ([]session.File, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	p := expandHome(paths[0])
	abs, err := filepath.Abs(p)
	if err != nil {
		abs = p
	}
	f := session.File{Name: filepath.Base(p), Path: abs}
	if !f.IsNotebook() {
		return []session.File{f}, nil
	}

	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no such file: %s", p)
		}
		return nil, fmt.Errorf("cannot read %s: %w", p, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", p)
	}
	f.Size = info.Size()
	return []session.File{f}, nil
}

// Parse runs SplitPaths and Candidates on one line.
func Parse(line string) ([]session.File, error) {
	paths, err := SplitPaths(line)
	if err != nil {
		return nil, err
	}
	return Candidates(paths)
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

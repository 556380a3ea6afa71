// Package tuitest drives a compiled binary inside a pseudo terminal and
// records what it draws.
package tuitest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
)

const (
	defaultWidth   = 100
	defaultHeight  = 40
	defaultTimeout = 10 * time.Second
	pollInterval   = 25 * time.Millisecond
)

// Step is one scripted interaction. The harness first sleeps for Delay,
// then waits until WaitFor appears in the plain-text output, then writes
// Input. Any of the three may be empty.
type Step struct {
	Delay   time.Duration
	WaitFor string
	Input   []byte
}

// Type returns a step that writes text as if it had been typed.
func Type(text string) Step {
	return Step{Input: []byte(text)}
}

// Press returns a step that sends one key sequence.
func Press(key []byte) Step {
	return Step{Input: key}
}

// Await returns a step that blocks until text has been drawn.
func Await(text string) Step {
	return Step{WaitFor: text}
}

// Config configures how the harness spawns and drives the program.
type Config struct {
	Command          []string
	Dir              string
	Env              []string
	Width            int
	Height           int
	Steps            []Step
	Timeout          time.Duration
	AllowedExitCodes []int
	AllowInterrupt   bool
}

// Recording contains the raw terminal stream plus parsed frames.
type Recording struct {
	Raw      []byte
	Frames   []Frame
	Duration time.Duration
}

// ptyOutput collects the terminal stream while steps poll it.
type ptyOutput struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (o *ptyOutput) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.buf.Write(p)
}

func (o *ptyOutput) Bytes() []byte {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]byte(nil), o.buf.Bytes()...)
}

func (o *ptyOutput) contains(text string) bool {
	return strings.Contains(stripANSI(string(o.Bytes())), text)
}

// Run executes the configured command inside a PTY, replays the scripted
// steps and captures every byte written to the terminal.
func Run(ctx context.Context, cfg Config) (*Recording, error) {
	if len(cfg.Command) == 0 {
		return nil, errors.New("tuitest: command is required")
	}
	width := cfg.Width
	if width <= 0 {
		width = defaultWidth
	}
	height := cfg.Height
	if height <= 0 {
		height = defaultHeight
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, cfg.Command[0], cfg.Command[1:]...)
	cmd.Dir = cfg.Dir
	cmd.Env = buildEnv(cfg.Env)

	allowedCodes := map[int]struct{}{0: {}}
	for _, code := range cfg.AllowedExitCodes {
		allowedCodes[code] = struct{}{}
	}

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(height), Cols: uint16(width)})
	if err != nil {
		return nil, fmt.Errorf("tuitest: start program: %w", err)
	}
	defer func() { _ = ptmx.Close() }()

	output := &ptyOutput{}
	copyDone := make(chan struct{})
	go func() {
		defer close(copyDone)
		responder := newTerminalResponder(ptmx)
		buf := make([]byte, 4096)
		for {
			n, readErr := ptmx.Read(buf)
			if n > 0 {
				chunk := buf[:n]
				responder.Process(chunk)
				_, _ = output.Write(chunk)
			}
			if readErr != nil {
				return
			}
		}
	}()

	start := time.Now()
	for i, step := range cfg.Steps {
		if err := sleep(ctx, step.Delay); err != nil {
			return nil, fmt.Errorf("tuitest: step %d: %w", i, err)
		}
		if step.WaitFor != "" {
			if err := waitFor(ctx, output, step.WaitFor); err != nil {
				return nil, fmt.Errorf("tuitest: step %d waiting for %q: %w\n%s", i, step.WaitFor, err, lastScreen(output.Bytes()))
			}
		}
		if len(step.Input) > 0 {
			if _, err := ptmx.Write(step.Input); err != nil {
				return nil, fmt.Errorf("tuitest: write input: %w", err)
			}
		}
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- cmd.Wait()
	}()

	select {
	case err := <-waitErr:
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				if _, ok := allowedCodes[exitErr.ExitCode()]; ok {
					break
				}
			}
			if cfg.AllowInterrupt && strings.Contains(err.Error(), "signal: interrupt") {
				break
			}
			return nil, fmt.Errorf("tuitest: program exited with error: %w", err)
		}
	case <-ctx.Done():
		return nil, fmt.Errorf("tuitest: timeout waiting for program exit: %w", ctx.Err())
	}

	// Closing the PTY lets the reader goroutine finish draining.
	_ = ptmx.Close()
	<-copyDone

	raw := output.Bytes()
	return &Recording{Raw: raw, Frames: parseFrames(raw), Duration: time.Since(start)}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func waitFor(ctx context.Context, output *ptyOutput, text string) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		if output.contains(text) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func lastScreen(raw []byte) string {
	frames := parseFrames(raw)
	if len(frames) == 0 {
		return ""
	}
	return frames[len(frames)-1].Plain
}

func buildEnv(extra []string) []string {
	env := append(os.Environ(), extra...)
	for _, entry := range env {
		if strings.HasPrefix(entry, "TERM=") {
			return env
		}
	}
	return append(env, "TERM=xterm-256color")
}

var (
	// KeyEnter sends a carriage return.
	KeyEnter = []byte{'\r'}
	// KeyTab switches the output format.
	KeyTab = []byte{'\t'}
	// KeyCtrlC requests the program to terminate.
	KeyCtrlC = []byte{3}
	// KeyCtrlR clears the selection.
	KeyCtrlR = []byte{18}
	// KeyCtrlW wakes the service.
	KeyCtrlW = []byte{23}
	// KeyEsc clears the composer or leaves the browser.
	KeyEsc = []byte{27}
)

package session

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/csheth/notebookconv/internal/delivery"
)

// HealthChecker reports nil when the conversion service answers its health
// endpoint with a success status.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Converter uploads a notebook and returns the converted artifact bytes.
type Converter interface {
	Convert(ctx context.Context, format, filename string, body io.Reader) ([]byte, error)
}

// ProbeResult is the outcome of one readiness probe.
type ProbeResult struct {
	Elapsed time.Duration
	Err     error
}

// ConvertResult is the outcome of one conversion attempt.
type ConvertResult struct {
	Filename string
	Path     string
	Data     []byte
	// Summary describes the saved artifact; it is computed off the UI loop.
	Summary delivery.Summary
	Err     error
}

// Probe calls the health endpoint once. started must be taken when
// BeginProbe ran; now reads the clock when the response arrives.
func Probe(ctx context.Context, checker HealthChecker, started time.Time, now func() time.Time) ProbeResult {
	if err := checker.Health(ctx); err != nil {
		log.Printf("[probe] backend not ready: %v", err)
		return ProbeResult{Err: err}
	}
	elapsed := now().Sub(started)
	log.Printf("[probe] backend ready after %s", elapsed)
	return ProbeResult{Elapsed: elapsed}
}

// Convert uploads the request's file, then hands the returned bytes to the
// delivery host under the synthesized output name.
func Convert(ctx context.Context, conv Converter, host delivery.Host, req Request) ConvertResult {
	f, err := os.Open(req.File.Path)
	if err != nil {
		return ConvertResult{Err: fmt.Errorf("opening %s: %w", req.File.Name, err)}
	}
	defer f.Close()

	data, err := conv.Convert(ctx, string(req.Format), req.File.Name, f)
	if err != nil {
		log.Printf("[convert] %s -> %s failed: %v", req.File.Name, req.Format, err)
		return ConvertResult{Err: err}
	}

	name := OutputName(req.File.Name, req.Format)
	path, err := delivery.Deliver(host, data, name)
	if err != nil {
		return ConvertResult{Filename: name, Err: err}
	}
	summary := delivery.Inspect(name, data)
	log.Printf("[convert] %s -> %s (%s)", req.File.Name, path, summary)
	return ConvertResult{Filename: name, Path: path, Data: data, Summary: summary}
}

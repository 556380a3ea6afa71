package main

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/csheth/notebookconv/internal/stubserver"
	"github.com/csheth/notebookconv/internal/tuitest"
)

const fixtureNotebook = `{
 "cells": [
  {"cell_type": "markdown", "source": ["# Weekly report\n", "\n", "Numbers below."]},
  {"cell_type": "code", "source": "print(21 * 2)", "outputs": [{"output_type": "stream", "text": ["42\n"]}]}
 ]
}`

func TestConvertThroughTUI(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	t.Parallel()

	srv := httptest.NewServer(stubserver.New(stubserver.Options{WarmupDelay: 200 * time.Millisecond}))
	t.Cleanup(srv.Close)

	work := t.TempDir()
	out := filepath.Join(work, "out")
	notebook := filepath.Join(work, "report.ipynb")
	if err := os.WriteFile(notebook, []byte(fixtureNotebook), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	binary := buildBinary(t, moduleDir(t))
	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command: []string{binary},
		Dir:     work,
		Env: []string{
			"HOME=" + work,
			"NOTEBOOK_CONVERTER_API_URL=" + srv.URL,
			"NOTEBOOK_CONVERTER_OUTPUT_DIR=" + out,
		},
		Width:  100,
		Height: 40,
		Steps: []tuitest.Step{
			tuitest.Await("Service ready"),
			tuitest.Type(notebook),
			tuitest.Press(tuitest.KeyEnter),
			tuitest.Await("report.ipynb ("),
			tuitest.Press(tuitest.KeyEnter),
			tuitest.Await("Conversion successful"),
			tuitest.Press(tuitest.KeyCtrlC),
		},
		Timeout: 20 * time.Second,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}
	if !rec.Contains("Selected report.ipynb") {
		t.Fatal("selection never logged")
	}

	data, err := os.ReadFile(filepath.Join(out, "report.html"))
	if err != nil {
		t.Fatalf("converted file missing: %v", err)
	}
	if !strings.Contains(string(data), "<h1>Weekly report</h1>") {
		t.Fatalf("unexpected html:\n%s", data)
	}
}

func TestHeadlessConvert(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	t.Parallel()

	srv := httptest.NewServer(stubserver.New(stubserver.Options{}))
	t.Cleanup(srv.Close)

	work := t.TempDir()
	notebook := filepath.Join(work, "report.ipynb")
	if err := os.WriteFile(notebook, []byte(fixtureNotebook), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	binary := buildBinary(t, moduleDir(t))
	for _, want := range []string{"report.pdf", "report (1).pdf"} {
		cmd := exec.Command(binary, "convert", "--quiet", "--format", "pdf", "--output-dir", work, "--api-url", srv.URL, notebook)
		cmd.Dir = work
		cmd.Env = append(os.Environ(), "HOME="+work)
		var stdout bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = io.Discard
		if err := cmd.Run(); err != nil {
			t.Fatalf("convert: %v", err)
		}
		if !strings.Contains(stdout.String(), want) {
			t.Fatalf("expected %q in output, got %q", want, stdout.String())
		}
		if _, err := os.Stat(filepath.Join(work, want)); err != nil {
			t.Fatalf("missing %s: %v", want, err)
		}
	}

	cmd := exec.Command(binary, "convert", "--api-url", srv.URL, filepath.Join(work, "report.pdf"))
	cmd.Dir = work
	cmd.Env = append(os.Environ(), "HOME="+work)
	output, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatal("converting a pdf should fail")
	}
	if !strings.Contains(string(output), "Please upload a valid .ipynb file") {
		t.Fatalf("unexpected output %q", output)
	}
}

func moduleDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	return filepath.Dir(file)
}

func buildBinary(t *testing.T, cmdDir string) string {
	t.Helper()
	name := "notebookconv-integration"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	binPath := filepath.Join(t.TempDir(), name)
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = cmdDir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build CLI: %v\n%s", err, output)
	}
	return binPath
}

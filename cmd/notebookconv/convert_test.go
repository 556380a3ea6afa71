package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
)

type echoConverter struct{ got []byte }

func (e *echoConverter) Convert(ctx context.Context, format, filename string, body io.Reader) ([]byte, error) {
	data, err := io.ReadAll(body)
	e.got = data
	return []byte(format + ":" + filename), err
}

func TestProgressConverterPassesBodyThrough(t *testing.T) {
	next := &echoConverter{}
	var bar bytes.Buffer
	conv := progressConverter{next: next, size: 11, out: &bar}

	data, err := conv.Convert(context.Background(), "pdf", "a.ipynb", strings.NewReader(`{"cells":1}`))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if string(data) != "pdf:a.ipynb" {
		t.Fatalf("unexpected result %q", data)
	}
	if string(next.got) != `{"cells":1}` {
		t.Fatalf("body not forwarded: %q", next.got)
	}
	if bar.Len() == 0 {
		t.Fatal("progress bar wrote nothing")
	}
}

package delivery

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	partialPattern = ".notebookconv-*.part"
	maxNameTries   = 1000
)

// DiskHost saves artifacts into a directory. Staged bytes live in a hidden
// .part file next to the destination.
type DiskHost struct {
	Dir string
}

func (d DiskHost) dir() string {
	if d.Dir == "" {
		return "."
	}
	return d.Dir
}

// Stage writes data to a temporary file and returns its path as the handle.
func (d DiskHost) Stage(data []byte) (Handle, error) {
	if err := os.MkdirAll(d.dir(), 0o755); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(d.dir(), partialPattern)
	if err != nil {
		return "", err
	}
	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmp.Name())
		return "", writeErr
	}
	if closeErr != nil {
		os.Remove(tmp.Name())
		return "", closeErr
	}
	return Handle(tmp.Name()), nil
}

// Save copies the staged bytes to filename inside Dir. An existing file is
// never overwritten; the name gets a " (n)" suffix instead.
func (d DiskHost) Save(h Handle, filename string) (string, error) {
	src, err := os.Open(string(h))
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, path, err := createUnique(d.dir(), filepath.Base(filename))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return "", err
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// Release removes the staged file.
func (d DiskHost) Release(h Handle) error {
	if h == "" {
		return nil
	}
	err := os.Remove(string(h))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func createUnique(dir, name string) (*os.File, string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 0; i < maxNameTries; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", stem, i, ext)
		}
		path := filepath.Join(dir, candidate)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", err
		}
	}
	return nil, "", fmt.Errorf("no free file name for %s in %s", name, dir)
}

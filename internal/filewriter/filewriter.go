// Package filewriter places rendered images under an output directory
package filewriter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Writer writes files below a single output directory
type Writer struct {
	dir string
}

// NewWriter returns a Writer rooted at dir. The directory is not created; see EnsureDir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Dir returns the output directory
func (w *Writer) Dir() string { return w.dir }

// Path returns the location of name inside the output directory
func (w *Writer) Path(name string) string {
	return filepath.Join(w.dir, name)
}

// EnsureDir creates the output directory and its parents. It is a no-op when the directory exists.
func (w *Writer) EnsureDir() error {
	return EnsureDir(w.dir)
}

// WriteFile writes name inside the output directory and returns its path
func (w *Writer) WriteFile(name string, write func(io.Writer) error) (string, error) {
	path := w.Path(name)
	if err := WriteFile(path, write); err != nil {
		return "", err
	}
	return path, nil
}

// EnsureDir creates dir and its parents if they do not exist
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// WriteFile creates (or truncates) filename and passes it to write. The file is closed
// whether or not write succeeds; a partially written file is left in place.
func WriteFile(filename string, write func(io.Writer) error) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", filename, cerr)
		}
	}()

	bw := bufio.NewWriter(file)
	if err := write(bw); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", filename, err)
	}
	return nil
}

// Exists reports whether filename exists
func Exists(filename string) bool {
	_, err := os.Stat(filename)
	return !errors.Is(err, os.ErrNotExist)
}

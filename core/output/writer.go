// Package output is the final sink for a rendered thread.
// Without a destination the bytes go to stdout; with one, the file is
// created in an existing directory and always closed, even when the write
// fails. Parent directories are never created.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/gaurav-prasanna/threadpipe/core"
)

// Writer writes rendered output to stdout or to a file.
type Writer struct {
	Stdout io.Writer
}

// New creates a Writer. A nil stdout means os.Stdout.
func New(stdout io.Writer) *Writer {
	if stdout == nil {
		stdout = os.Stdout
	}
	return &Writer{Stdout: stdout}
}

// Write sends data to destination, or to stdout when destination is empty.
// It returns the path written, empty for stdout. Failures are *core.IOError.
func (w *Writer) Write(data []byte, destination string) (string, error) {
	if destination == "" {
		if _, err := w.Stdout.Write(data); err != nil {
			return "", &core.IOError{Path: "<stdout>", Err: err}
		}
		return "", nil
	}

	dir := filepath.Dir(destination)
	info, err := os.Stat(dir)
	if err != nil {
		return "", &core.IOError{Path: destination, Err: fmt.Errorf("output directory: %w", err)}
	}
	if !info.IsDir() {
		return "", &core.IOError{Path: destination, Err: fmt.Errorf("%s is not a directory", dir)}
	}

	if err := writeFile(destination, data); err != nil {
		return "", err
	}
	log.Debug().Str("path", destination).Int("bytes", len(data)).Msg("wrote output")
	return destination, nil
}

func writeFile(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return &core.IOError{Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &core.IOError{Path: path, Err: fmt.Errorf("closing file: %w", cerr)}
		}
	}()

	if _, err := f.Write(data); err != nil {
		return &core.IOError{Path: path, Err: err}
	}
	return nil
}

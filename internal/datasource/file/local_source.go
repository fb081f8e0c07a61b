// Package file reads a dataset that is already on local disk.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Local opens one file.
type Local struct{ path string }

// NewLocal returns a Local for path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Path returns the file the source reads.
func (l *Local) Path() string { return l.path }

// Open returns the file for reading. Errors keep the underlying *PathError, so
// errors.Is(err, os.ErrNotExist) holds for a missing file. Directories are
// refused.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	if st, err := f.Stat(); err != nil || st.IsDir() {
		_ = f.Close()
		if err == nil {
			err = fmt.Errorf("is a directory")
		}
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}

// Package dataset provides the content a new table is seeded with when no
// table file exists yet.
package dataset

import (
	"embed"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
)

// DefaultName is the name of the bundled default table.
const DefaultName = "MyTable.txt"

// ErrNotFound is returned when a source has no resource of the given name.
var ErrNotFound = errors.New("resource not found")

//go:embed MyTable.txt
var bundled embed.FS

// Source hands out named resources as byte streams.
type Source interface {
	// Open returns the resource called name. The error matches [ErrNotFound]
	// if there is no such resource.
	Open(name string) (io.ReadCloser, error)
}

// FSSource serves resources from an [iofs.FS].
type FSSource struct {
	fsys iofs.FS
}

// FromFS returns a source reading from fsys.
func FromFS(fsys iofs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// Embedded returns the source holding the bundled default table.
func Embedded() *FSSource {
	return FromFS(bundled)
}

// Open implements [Source].
func (s *FSSource) Open(name string) (io.ReadCloser, error) {
	f, err := s.fsys.Open(name)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}

		return nil, fmt.Errorf("open %s: %w", name, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()

		return nil, fmt.Errorf("stat %s: %w", name, err)
	}

	if info.IsDir() {
		_ = f.Close()

		return nil, fmt.Errorf("%w: %s is a directory", ErrNotFound, name)
	}

	return f, nil
}

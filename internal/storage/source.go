package storage

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"
)

// Source reads world data by slash separated path.
type Source interface {
	ReadBytes(name string) ([]byte, error)
	ReadText(name string) (string, error)
	// List returns every file below dir, sorted.
	List(dir string) ([]string, error)
}

// FSSource is a Source over any fs.FS.
type FSSource struct {
	fsys   fs.FS
	closer io.Closer
}

func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// NewDirSource serves world data from a directory on disk.
func NewDirSource(dir string) (*FSSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("opening world directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("world path %s is not a directory", dir)
	}
	return &FSSource{fsys: os.DirFS(dir)}, nil
}

// OpenZipSource serves world data from a packaged zip bundle. Close releases
// the archive.
func OpenZipSource(file string) (*FSSource, error) {
	r, err := zip.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("opening world bundle: %w", err)
	}
	return &FSSource{fsys: r, closer: r}, nil
}

func (s *FSSource) ReadBytes(name string) ([]byte, error) {
	b, err := fs.ReadFile(s.fsys, clean(name))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return b, nil
}

func (s *FSSource) ReadText(name string) (string, error) {
	b, err := s.ReadBytes(name)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *FSSource) List(dir string) ([]string, error) {
	var files []string
	err := fs.WalkDir(s.fsys, clean(dir), func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	slices.Sort(files)
	return files, nil
}

func (s *FSSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func clean(name string) string {
	name = path.Clean(strings.TrimPrefix(name, "/"))
	if name == "" {
		return "."
	}
	return name
}

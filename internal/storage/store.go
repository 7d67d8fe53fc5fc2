package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path"
	"slices"

	"github.com/goccy/go-json"
)

type Storer[T ValidatingSpec] interface {
	Get(string) T
	GetAll() map[string]T
}

// Store holds every asset of one kind found below a directory of a Source.
// It is read-only after load.
type Store[T ValidatingSpec] struct {
	dir     string
	records map[string]T
}

func NewStore[T ValidatingSpec](src Source, dir string) (*Store[T], error) {
	s := &Store[T]{
		dir:     dir,
		records: map[string]T{},
	}

	err := s.load(src)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// NewOptionalStore is NewStore except that a missing directory yields an
// empty store.
func NewOptionalStore[T ValidatingSpec](src Source, dir string) (*Store[T], error) {
	s, err := NewStore[T](src, dir)
	if errors.Is(err, fs.ErrNotExist) {
		return &Store[T]{dir: dir, records: map[string]T{}}, nil
	}
	return s, err
}

func (s *Store[T]) load(src Source) error {
	files, err := src.List(s.dir)
	if err != nil {
		return err
	}

	for _, file := range files {
		// Load all json files in the assets path
		if path.Ext(file) != ".json" {
			continue
		}

		asset, err := s.loadAsset(src, file)
		if err != nil {
			return fmt.Errorf("loading %s: %w", file, err)
		}

		err = asset.Validate()
		if err != nil {
			return fmt.Errorf("validating %s: %w", path.Base(file), err)
		}

		// Error if the key is already in use
		_, ok := s.records[asset.Id().String()]
		if ok {
			return fmt.Errorf("duplicate key detected: %s", asset.Id())
		}

		s.records[asset.Id().String()] = asset.Spec
	}

	return nil
}

func (s *Store[T]) loadAsset(src Source, file string) (*Asset[T], error) {
	jsonData, err := src.ReadBytes(file)
	if err != nil {
		return nil, err
	}

	asset := &Asset[T]{}
	err = json.Unmarshal(jsonData, asset)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling asset: %w", err)
	}

	return asset, nil
}

func (s *Store[T]) Get(id string) T {
	return s.records[id]
}

func (s *Store[T]) GetAll() map[string]T {
	return maps.Clone(s.records)
}

// Ids returns every loaded id, sorted.
func (s *Store[T]) Ids() []string {
	return slices.Sorted(maps.Keys(s.records))
}

func (s *Store[T]) Len() int {
	return len(s.records)
}

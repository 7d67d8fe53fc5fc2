package command

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/mudcore/internal/catalog"
	"github.com/pixil98/mudcore/internal/game"
	"github.com/pixil98/mudcore/internal/npc"
	"github.com/pixil98/mudcore/internal/storage"
)

// StorageConfig points at the world data: a directory or a .zip archive
// holding rooms/, npcs/ and the catalog.
type StorageConfig struct {
	Path string `json:"path"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()

	if c.Path == "" {
		el.Add(fmt.Errorf("storage: path is required"))
		return el.Err()
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		el.Add(fmt.Errorf("storage: invalid path %q: %w", c.Path, err))
	}

	return el.Err()
}

func (c *StorageConfig) openSource() (*storage.FSSource, error) {
	if strings.EqualFold(filepath.Ext(c.Path), ".zip") {
		return storage.OpenZipSource(c.Path)
	}
	return storage.NewDirSource(c.Path)
}

// worldData is everything the simulation is built from.
type worldData struct {
	rooms     map[string]*game.Room
	templates map[string]*npc.Template
	catalog   *catalog.Catalog
}

func (c *StorageConfig) load() (*worldData, error) {
	src, err := c.openSource()
	if err != nil {
		return nil, fmt.Errorf("opening world data %q: %w", c.Path, err)
	}
	defer func() { _ = src.Close() }()

	rooms, err := storage.NewStore[*game.Room](src, "rooms")
	if err != nil {
		return nil, fmt.Errorf("loading rooms: %w", err)
	}

	npcs, err := storage.NewOptionalStore[*npc.Template](src, "npcs")
	if err != nil {
		return nil, fmt.Errorf("loading npcs: %w", err)
	}
	templates := npcs.GetAll()
	for id, t := range templates {
		t.Id = id
	}

	cat, err := catalog.Load(src)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	return &worldData{
		rooms:     rooms.GetAll(),
		templates: templates,
		catalog:   cat,
	}, nil
}

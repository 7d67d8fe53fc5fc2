package command

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/mudcore/internal/player"
	"golang.org/x/crypto/bcrypt"
)

// dbPathEnv overrides the configured sqlite path.
const dbPathEnv = "MUD_DB_PATH"

type RepositoryType int

const (
	RepositoryTypeSQLite RepositoryType = iota
	RepositoryTypeMemory
)

func (rt *RepositoryType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "sqlite":
		*rt = RepositoryTypeSQLite
	case "memory":
		*rt = RepositoryTypeMemory
	default:
		return fmt.Errorf("unknown repository type: %s", text)
	}
	return nil
}

type RepositoryConfig struct {
	Type       RepositoryType `json:"type"`
	Path       string         `json:"path"`
	Admins     []string       `json:"admins"`
	BcryptCost int            `json:"bcrypt_cost"`
}

func (c *RepositoryConfig) path() string {
	if p := os.Getenv(dbPathEnv); p != "" {
		return p
	}
	return c.Path
}

func (c *RepositoryConfig) validate() error {
	el := errors.NewErrorList()

	if c.Type == RepositoryTypeSQLite && c.path() == "" {
		el.Add(fmt.Errorf("repository: path or %s is required for sqlite", dbPathEnv))
	}
	if c.BcryptCost != 0 && (c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost) {
		el.Add(fmt.Errorf("repository: bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	for _, a := range c.Admins {
		if err := player.ValidateUsername(a); err != nil {
			el.Add(fmt.Errorf("repository: admin %q: %w", a, err))
		}
	}

	return el.Err()
}

type repository interface {
	player.Repository
	Close() error
}

type memoryRepository struct {
	*player.MemoryRepository
}

func (memoryRepository) Close() error { return nil }

func (c *RepositoryConfig) buildRepository(ctx context.Context) (repository, error) {
	switch c.Type {
	case RepositoryTypeMemory:
		slog.WarnContext(ctx, "using in-memory account repository, characters will not survive a restart")
		return memoryRepository{player.NewMemoryRepository(c.Admins...)}, nil
	case RepositoryTypeSQLite:
		opts := []player.SQLiteOpt{player.WithAdmins(c.Admins...)}
		if c.BcryptCost != 0 {
			opts = append(opts, player.WithBcryptCost(c.BcryptCost))
		}
		repo, err := player.OpenSQLite(ctx, c.path(), opts...)
		if err != nil {
			return nil, fmt.Errorf("opening account database: %w", err)
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown repository type: %v", c.Type)
	}
}

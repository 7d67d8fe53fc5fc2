// Package player stores accounts, their credentials and the snapshot of each
// account's character.
package player

import (
	"context"

	"github.com/pixil98/mudcore/internal/game"
)

// Repository is the account store the server logs players in against.
// Implementations are safe for concurrent use and are never called while
// the state lock is held.
type Repository interface {
	// Create registers a new account with its starting character.
	Create(ctx context.Context, username, password string, c *game.Character) (*game.Identity, error)
	// Authenticate checks a password and returns the account's identity and
	// last saved character.
	Authenticate(ctx context.Context, username, password string) (*game.Identity, *game.Character, error)
	// SaveSnapshot replaces the saved character of an account.
	SaveSnapshot(ctx context.Context, accountId int64, c *game.Character) error
}

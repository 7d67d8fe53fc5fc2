package player

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/pixil98/mudcore/internal/game"
	"golang.org/x/crypto/bcrypt"
)

type memoryAccount struct {
	identity game.Identity
	hash     []byte
	snapshot []byte
}

// MemoryRepository keeps accounts in memory. Nothing survives a restart;
// it backs tests and throwaway servers.
type MemoryRepository struct {
	mu         sync.Mutex
	nextId     int64
	accounts   map[string]*memoryAccount // lower-cased username
	characters map[string]bool           // lower-cased character name
	admins     map[string]bool
}

func NewMemoryRepository(admins ...string) *MemoryRepository {
	r := &MemoryRepository{
		accounts:   map[string]*memoryAccount{},
		characters: map[string]bool{},
		admins:     map[string]bool{},
	}
	for _, a := range admins {
		r.admins[strings.ToLower(a)] = true
	}
	return r
}

func (r *MemoryRepository) Create(ctx context.Context, username, password string, c *game.Character) (*game.Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	snapshot, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[strings.ToLower(username)]; ok {
		return nil, ErrUsernameTaken
	}
	if r.characters[strings.ToLower(c.Name)] {
		return nil, ErrCharacterTaken
	}

	r.nextId++
	acct := &memoryAccount{
		identity: game.Identity{
			AccountId:     r.nextId,
			Username:      username,
			CharacterName: c.Name,
			Admin:         r.admins[strings.ToLower(username)],
		},
		hash:     hash,
		snapshot: snapshot,
	}
	r.accounts[strings.ToLower(username)] = acct
	r.characters[strings.ToLower(c.Name)] = true

	id := acct.identity
	return &id, nil
}

func (r *MemoryRepository) Authenticate(ctx context.Context, username, password string) (*game.Identity, *game.Character, error) {
	r.mu.Lock()
	acct, ok := r.accounts[strings.ToLower(username)]
	r.mu.Unlock()
	if !ok {
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acct.hash, []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	r.mu.Lock()
	snapshot := acct.snapshot
	r.mu.Unlock()

	c := &game.Character{}
	if err := json.Unmarshal(snapshot, c); err != nil {
		return nil, nil, err
	}
	id := acct.identity
	return &id, c, nil
}

func (r *MemoryRepository) SaveSnapshot(ctx context.Context, accountId int64, c *game.Character) error {
	snapshot, err := json.Marshal(c)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, acct := range r.accounts {
		if acct.identity.AccountId == accountId {
			acct.snapshot = snapshot
			return nil
		}
	}
	return fmt.Errorf("saving snapshot: no account %d", accountId)
}

package player

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/pixil98/mudcore/internal/game"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	username       TEXT NOT NULL UNIQUE COLLATE NOCASE,
	password_hash  BLOB NOT NULL,
	character_name TEXT NOT NULL UNIQUE COLLATE NOCASE,
	snapshot       TEXT NOT NULL,
	created_at     INTEGER NOT NULL,
	updated_at     INTEGER NOT NULL
);`

// SQLiteRepository keeps accounts in a SQLite database file.
type SQLiteRepository struct {
	db         *sql.DB
	bcryptCost int
	admins     map[string]bool
	now        func() time.Time
}

type SQLiteOpt func(*SQLiteRepository)

// WithBcryptCost sets the password hashing cost.
func WithBcryptCost(cost int) SQLiteOpt {
	return func(r *SQLiteRepository) {
		r.bcryptCost = cost
	}
}

// WithAdmins grants admin rights to the named accounts.
func WithAdmins(usernames ...string) SQLiteOpt {
	return func(r *SQLiteRepository) {
		for _, u := range usernames {
			r.admins[strings.ToLower(u)] = true
		}
	}
}

// OpenSQLite opens, creating when needed, the database at path. ":memory:"
// opens a private in-memory database.
func OpenSQLite(ctx context.Context, path string, opts ...SQLiteOpt) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps :memory:
	// databases from being opened once per connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	r := &SQLiteRepository{
		db:         db,
		bcryptCost: bcrypt.DefaultCost,
		admins:     map[string]bool{},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	slog.InfoContext(ctx, "player database ready", "path", path)
	return r, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) Create(ctx context.Context, username, password string, c *game.Character) (*game.Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), r.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	snapshot, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshalling character: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	taken, err := exists(ctx, tx, `SELECT COUNT(*) FROM accounts WHERE username = ?`, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}
	taken, err = exists(ctx, tx, `SELECT COUNT(*) FROM accounts WHERE character_name = ?`, c.Name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrCharacterTaken
	}

	now := r.now().Unix()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO accounts (username, password_hash, character_name, snapshot, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		username, hash, c.Name, string(snapshot), now, now)
	if err != nil {
		return nil, fmt.Errorf("inserting account: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading account id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing account: %w", err)
	}

	return r.identity(id, username, c.Name), nil
}

func (r *SQLiteRepository) Authenticate(ctx context.Context, username, password string) (*game.Identity, *game.Character, error) {
	var (
		id       int64
		stored   string
		hash     []byte
		charName string
		snapshot string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, character_name, snapshot FROM accounts WHERE username = ?`, username).
		Scan(&id, &stored, &hash, &charName, &snapshot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	c := &game.Character{}
	if err := json.Unmarshal([]byte(snapshot), c); err != nil {
		return nil, nil, fmt.Errorf("unmarshalling character %s: %w", charName, err)
	}

	return r.identity(id, stored, charName), c, nil
}

func (r *SQLiteRepository) SaveSnapshot(ctx context.Context, accountId int64, c *game.Character) error {
	snapshot, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling character: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET snapshot = ?, updated_at = ? WHERE id = ?`, string(snapshot), r.now().Unix(), accountId)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("saving snapshot: no account %d", accountId)
	}
	return nil
}

func (r *SQLiteRepository) identity(id int64, username, charName string) *game.Identity {
	return &game.Identity{
		AccountId:     id,
		Username:      username,
		CharacterName: charName,
		Admin:         r.admins[strings.ToLower(username)],
	}
}

func exists(ctx context.Context, tx *sql.Tx, query string, arg any) (bool, error) {
	var n int
	if err := tx.QueryRowContext(ctx, query, arg).Scan(&n); err != nil {
		return false, fmt.Errorf("checking for existing account: %w", err)
	}
	return n > 0, nil
}

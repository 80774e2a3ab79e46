package ledger

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// SchemaVersion is recorded in the setting table on first open. A database
// reporting a higher value was created by a newer bluezip.
const SchemaVersion = "1"

// Store manages ledger persistence backed by SQLite. The store is
// single-writer: Open acquires a file lock next to the database and holds it
// until Close.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open initializes or connects to the ledger database, applies the schema,
// and seeds predeclared settings.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	lock := flock.New(dbPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire ledger lock: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, lock: lock}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}
	if err := store.seedSettings(ctx); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}

	return store, nil
}

// Close closes the database connection and releases the ledger lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var firstErr error
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			firstErr = err
		}
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// CurrentGame returns the maximum-revision row for id, or nil when the id has
// never been accepted.
func (s *Store) CurrentGame(ctx context.Context, id string) (*Game, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, revision, sha256, title, platform, session
         FROM game WHERE id = ? ORDER BY revision DESC LIMIT 1`,
		id,
	)
	game, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("current game: %w", err)
	}
	return game, nil
}

// GameBySHA returns the game row owning the given identity digest, or nil.
func (s *Store) GameBySHA(ctx context.Context, sha string) (*Game, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, revision, sha256, title, platform, session FROM game WHERE sha256 = ?`,
		sha,
	)
	game, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("game by sha: %w", err)
	}
	return game, nil
}

// HasGame reports whether any revision exists for id.
func (s *Store) HasGame(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM game WHERE id = ? LIMIT 1`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("has game: %w", err)
	}
	return true, nil
}

// Games returns every game row ordered by id then revision.
func (s *Store) Games(ctx context.Context) ([]*Game, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, revision, sha256, title, platform, session FROM game ORDER BY id, revision`,
	)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var games []*Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

// GamesBySession returns the game rows created by one session.
func (s *Store) GamesBySession(ctx context.Context, sessionID string) ([]*Game, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, revision, sha256, title, platform, session
         FROM game WHERE session = ? ORDER BY id, revision`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("games by session: %w", err)
	}
	defer rows.Close()

	var games []*Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

// Manifest returns the file rows recorded for one identity digest, ordered by
// path.
func (s *Store) Manifest(ctx context.Context, sha string) ([]FileEntry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT game_sha, path, size, crc32, md5, sha1 FROM file WHERE game_sha = ? ORDER BY path`,
		sha,
	)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	defer rows.Close()

	var entries []FileEntry
	for rows.Next() {
		var entry FileEntry
		if err := rows.Scan(&entry.GameSHA, &entry.Path, &entry.Size, &entry.CRC32, &entry.MD5, &entry.SHA1); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanGame(scanner interface{ Scan(dest ...any) error }) (*Game, error) {
	var game Game
	if err := scanner.Scan(&game.ID, &game.Revision, &game.SHA256, &game.Title, &game.Platform, &game.Session); err != nil {
		return nil, err
	}
	return &game, nil
}

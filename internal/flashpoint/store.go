// Package flashpoint talks to the launcher's own database. The ledger never
// writes here except through the Mount hook operations, which maintain the
// launcher's additional_app rows for mounted content.
package flashpoint

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/FlashpointProject/bluezip/internal/services"
)

// Store wraps the launcher database connection.
type Store struct {
	db *sql.DB
}

// Open connects to the launcher database at path. The file must already
// exist; bluezip never creates a launcher database.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, services.Wrap(services.ErrConfiguration, "flashpoint", "open", "flashpoint.database_path is not configured", nil)
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return nil, services.Wrap(services.ErrConfiguration, "flashpoint", "open", fmt.Sprintf("launcher database %s not found", path), nil)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open launcher db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Lookup returns the title and platform recorded for id, with ok=false when
// the launcher does not know the id.
func (s *Store) Lookup(ctx context.Context, id string) (title, platform string, ok bool, err error) {
	row := s.db.QueryRowContext(ctx, `SELECT title, platform FROM game WHERE id = ?`, id)
	err = row.Scan(&title, &platform)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", false, nil
	}
	if err != nil {
		return "", "", false, fmt.Errorf("lookup game: %w", err)
	}
	return title, platform, true, nil
}

// GameIDs returns every game id the launcher knows.
func (s *Store) GameIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM game`)
	if err != nil {
		return nil, fmt.Errorf("list game ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

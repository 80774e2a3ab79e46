package ledger

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/user"
	"time"
)

// BeginSession records one session row for a mutating invocation. The session
// must exist before any ledger mutation so rollback can attribute rows.
func (s *Store) BeginSession(ctx context.Context, operation string) (*Session, error) {
	if operation != OpBuild && operation != OpRollback {
		return nil, fmt.Errorf("unknown session operation %q", operation)
	}

	token := make([]byte, 6)
	if _, err := rand.Read(token); err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}

	session := &Session{
		ID:        hex.EncodeToString(token),
		User:      currentUser(),
		Operation: operation,
		Time:      time.Now().UTC(),
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO session (id, user, operation, time) VALUES (?, ?, ?, ?)`,
		session.ID, session.User, session.Operation, session.Time.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return session, nil
}

// RollbackTarget returns the most recent BUILD session without a rollback
// marker, or nil when nothing is eligible.
func (s *Store) RollbackTarget(ctx context.Context) (*Session, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, user, operation, time, rollback FROM session
         WHERE operation != ? AND rollback IS NULL
         ORDER BY time DESC, rowid DESC LIMIT 1`,
		OpRollback,
	)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("rollback target: %w", err)
	}
	return session, nil
}

// Rollback deletes every game row and manifest produced by target and stamps
// target's rollback column with the current session id, in one transaction.
// It returns the number of game rows removed.
func (s *Store) Rollback(ctx context.Context, target, current *Session) (int64, error) {
	if current == nil {
		return 0, ErrNoSession
	}
	if target == nil {
		return 0, errors.New("rollback target required")
	}
	if target.Operation == OpRollback || target.Rollback != "" {
		return 0, fmt.Errorf("session %s is not eligible for rollback", target.ID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin rollback tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(
		ctx,
		`DELETE FROM file WHERE game_sha IN (SELECT sha256 FROM game WHERE session = ?)`,
		target.ID,
	); err != nil {
		return 0, fmt.Errorf("delete manifests: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM game WHERE session = ?`, target.ID)
	if err != nil {
		return 0, fmt.Errorf("delete games: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rollback rows affected: %w", err)
	}

	if _, err := tx.ExecContext(
		ctx,
		`UPDATE session SET rollback = ? WHERE id = ? AND rollback IS NULL`,
		current.ID, target.ID,
	); err != nil {
		return 0, fmt.Errorf("mark session rolled back: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit rollback: %w", err)
	}
	return removed, nil
}

// SessionByID fetches one session row.
func (s *Store) SessionByID(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, user, operation, time, rollback FROM session WHERE id = ?`,
		id,
	)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session by id: %w", err)
	}
	return session, nil
}

func scanSession(scanner interface{ Scan(dest ...any) error }) (*Session, error) {
	var (
		session  Session
		unixTime int64
		rollback sql.NullString
	)
	if err := scanner.Scan(&session.ID, &session.User, &session.Operation, &unixTime, &rollback); err != nil {
		return nil, err
	}
	session.Time = time.Unix(unixTime, 0).UTC()
	session.Rollback = rollback.String
	return &session, nil
}

func currentUser() string {
	name := "unknown"
	if u, err := user.Current(); err == nil && u.Username != "" {
		name = u.Username
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "localhost"
	}
	return name + "@" + host
}

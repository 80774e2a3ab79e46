package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/FlashpointProject/bluezip/internal/digest"
)

// GameInfo describes the submission being ingested. The id is assigned by
// the caller and is never generated here.
type GameInfo struct {
	ID       string
	Title    string
	Platform string
}

// Ingest decides what a canonical archive means for the ledger.
//
// The maximum-revision row for info.ID is the current state. A matching
// identity digest is a no-op; anything else becomes revision current+1
// (or 1 for a first submission). The manifest rows and the game row commit
// in one transaction, and a digest already owned by another row rejects the
// submission without writing anything.
func (s *Store) Ingest(ctx context.Context, session *Session, info GameInfo, sha string, manifest []digest.Entry) (IngestResult, error) {
	if session == nil {
		return IngestResult{}, ErrNoSession
	}
	if info.ID == "" {
		return IngestResult{}, fmt.Errorf("game id required")
	}
	if sha == "" {
		return IngestResult{}, fmt.Errorf("identity digest required")
	}

	current, err := s.CurrentGame(ctx, info.ID)
	if err != nil {
		return IngestResult{}, err
	}

	revision := 1
	previousTitle := ""
	if current != nil {
		if current.SHA256 == sha {
			return IngestResult{Outcome: OutcomeUnchanged, Revision: current.Revision}, nil
		}
		revision = current.Revision + 1
		previousTitle = current.Title
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return IngestResult{}, fmt.Errorf("begin ingest tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var ownerID string
	var ownerRevision int
	err = tx.QueryRowContext(ctx, `SELECT id, revision FROM game WHERE sha256 = ?`, sha).Scan(&ownerID, &ownerRevision)
	if err == nil {
		reason := fmt.Errorf("%w: sha256 already recorded for %s revision %d", ErrDuplicateContent, ownerID, ownerRevision)
		return IngestResult{Outcome: OutcomeRejected, Reason: reason}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return IngestResult{}, fmt.Errorf("check duplicate digest: %w", err)
	}

	for _, entry := range manifest {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO file (game_sha, path, size, crc32, md5, sha1) VALUES (?, ?, ?, ?, ?, ?)`,
			sha, entry.Path, entry.Size, entry.CRC32, entry.MD5, entry.SHA1,
		); err != nil {
			return IngestResult{}, fmt.Errorf("insert manifest row: %w", err)
		}
	}

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO game (id, revision, sha256, title, platform, session) VALUES (?, ?, ?, ?, ?, ?)`,
		info.ID, revision, sha, info.Title, info.Platform, session.ID,
	); err != nil {
		return IngestResult{}, fmt.Errorf("insert game row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return IngestResult{}, fmt.Errorf("commit ingest: %w", err)
	}

	result := IngestResult{Outcome: OutcomeAccepted, Revision: revision}
	if previousTitle != "" && previousTitle != info.Title {
		result.Renamed = true
		result.PreviousTitle = previousTitle
	}
	return result, nil
}

package flashpoint

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const (
	mountAppName = "Mount"
	mountPath    = `FPSoftware\fpmount\fpmount.exe`
)

// Membership answers whether a game id has any recorded revision. The
// revision ledger satisfies this.
type Membership interface {
	HasGame(ctx context.Context, id string) (bool, error)
}

// AddMountHooks removes all Mount rows and recreates one for every launcher
// game that exists in the ledger. It returns how many hooks were written.
func AddMountHooks(ctx context.Context, fp *Store, ledger Membership) (int, error) {
	if err := RemoveMountHooks(ctx, fp); err != nil {
		return 0, err
	}

	ids, err := fp.GameIDs(ctx)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, id := range ids {
		known, err := ledger.HasGame(ctx, id)
		if err != nil {
			return added, err
		}
		if !known {
			continue
		}
		if err := ensureMountHook(ctx, fp, id); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

// RemoveMountHooks deletes every Mount additional_app row.
func RemoveMountHooks(ctx context.Context, fp *Store) error {
	if _, err := fp.db.ExecContext(ctx, `DELETE FROM additional_app WHERE name = ?`, mountAppName); err != nil {
		return fmt.Errorf("remove mount hooks: %w", err)
	}
	return nil
}

func ensureMountHook(ctx context.Context, fp *Store, gameID string) error {
	var appID string
	row := fp.db.QueryRowContext(
		ctx,
		`SELECT id FROM additional_app WHERE parentGameId = ? AND name = ?`,
		gameID, mountAppName,
	)
	verb := "REPLACE"
	err := row.Scan(&appID)
	if errors.Is(err, sql.ErrNoRows) {
		verb = "INSERT"
		appID = uuid.NewString()
	} else if err != nil {
		return fmt.Errorf("find mount hook: %w", err)
	}

	query := verb + ` INTO additional_app (id, applicationPath, autoRunBefore, launchCommand, name, waitForExit, parentGameId)
        VALUES (?, ?, 1, ?, ?, 1, ?)`
	if _, err := fp.db.ExecContext(ctx, query, appID, mountPath, gameID, mountAppName, gameID); err != nil {
		return fmt.Errorf("write mount hook: %w", err)
	}
	return nil
}

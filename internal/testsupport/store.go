package testsupport

import (
	"context"
	"testing"

	"github.com/FlashpointProject/bluezip/internal/config"
	"github.com/FlashpointProject/bluezip/internal/ledger"
)

// MustOpenStore opens the revision ledger for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *ledger.Store {
	t.Helper()

	store, err := ledger.Open(context.Background(), cfg.Paths.DatabasePath)
	if err != nil {
		t.Fatalf("ledger.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustBeginSession records a session row for tests.
func MustBeginSession(t testing.TB, store *ledger.Store, operation string) *ledger.Session {
	t.Helper()

	session, err := store.BeginSession(context.Background(), operation)
	if err != nil {
		t.Fatalf("store.BeginSession: %v", err)
	}
	return session
}

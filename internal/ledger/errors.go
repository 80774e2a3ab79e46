package ledger

import (
	"errors"
	"fmt"

	"github.com/FlashpointProject/bluezip/internal/services"
)

var (
	// ErrDuplicateContent indicates byte-identical canonical content was
	// already recorded under another id or revision.
	ErrDuplicateContent = fmt.Errorf("%w: duplicate content", services.ErrIntegrity)
	// ErrLocked indicates another process holds the ledger lock.
	ErrLocked = errors.New("ledger is locked by another bluezip process")
	// ErrNoSession indicates a mutating call was made without a session.
	ErrNoSession = errors.New("no active session")
)

package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExternalTool marks a non-zero exit or spawn failure from 7za or trrntzip.
	ErrExternalTool = errors.New("external tool error")
	// ErrValidation marks a rejected submission (bad metadata, bad layout, bad id).
	ErrValidation = errors.New("validation error")
	// ErrIntegrity marks a ledger constraint violation such as duplicate content.
	ErrIntegrity = errors.New("integrity error")
	// ErrConfiguration marks unusable configuration, e.g. a missing launcher database.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound marks a lookup miss in a collaborator store.
	ErrNotFound = errors.New("not found")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsSkippable reports whether an error should skip the current submission in
// batch mode instead of aborting the whole run.
func IsSkippable(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrIntegrity) || errors.Is(err, ErrNotFound)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}

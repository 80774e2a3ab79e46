package curation

import (
	"fmt"

	"github.com/FlashpointProject/bluezip/internal/services"
)

// Submission error kinds. Each carries a skippable services sentinel so
// batch processing can report the submission and continue.
var (
	ErrMissingContent     = fmt.Errorf("%w: missing content folder", services.ErrValidation)
	ErrMissingMetadata    = fmt.Errorf("%w: missing metadata", services.ErrValidation)
	ErrMalformedMetadata  = fmt.Errorf("%w: malformed metadata", services.ErrValidation)
	ErrIncompleteMetadata = fmt.Errorf("%w: incomplete metadata", services.ErrValidation)
	ErrUnknownIdentifier  = fmt.Errorf("%w: unknown identifier", services.ErrNotFound)
	ErrInvalidIdentifier  = fmt.Errorf("%w: invalid identifier", services.ErrValidation)
)

package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingRequiredField means the caller omitted an input the
	// render cannot proceed without (avatar id, uid).
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrInvalidRegion means the uid path was given a region outside
	// the allowed list.
	ErrInvalidRegion = errors.New("invalid region")

	// ErrTemplateUnavailable means the base template could not be
	// fetched. The template is the one mandatory asset.
	ErrTemplateUnavailable = errors.New("template unavailable")

	// ErrProfileUnavailable means the player-info API exhausted its
	// retries or returned a malformed payload.
	ErrProfileUnavailable = errors.New("profile unavailable")
)

// FetchError reports a network fetch that failed after its full retry
// budget.
type FetchError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

package domain

import (
	"errors"
	"fmt"
)

// ErrMissingSource is returned when unified metadata construction receives no
// source track at all.
var ErrMissingSource = errors.New("at least one source track is required")

type SearchFailedError struct {
	Platform Platform
	Err      error
}

func (e *SearchFailedError) Error() string {
	return fmt.Sprintf("search failed on %s: %v", e.Platform, e.Err)
}

func (e *SearchFailedError) Unwrap() error {
	return e.Err
}

type MatchFailedError struct {
	Platform Platform
	Err      error
}

func (e *MatchFailedError) Error() string {
	return fmt.Sprintf("failed to match track on %s: %v", e.Platform, e.Err)
}

func (e *MatchFailedError) Unwrap() error {
	return e.Err
}

type CancelledError struct {
	Err error
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("operation cancelled: %v", e.Err)
}

func (e *CancelledError) Unwrap() error {
	return e.Err
}

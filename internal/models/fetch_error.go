package models

import (
	"errors"
	"fmt"
)

// FetchError is returned by link fetchers so callers can tell dead ends
// from failures worth retrying.
type FetchError struct {
	Title Title
	Kind  FailureKind
	Err   error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch links for %q: %s", e.Title, e.Kind)
	}
	return fmt.Sprintf("fetch links for %q: %s: %v", e.Title, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError builds a FetchError of the given kind.
func NewFetchError(title Title, kind FailureKind, err error) *FetchError {
	return &FetchError{Title: title, Kind: kind, Err: err}
}

// FailureKindOf classifies err. Errors that carry no kind are treated as
// network failures so they stay eligible for retries.
func FailureKindOf(err error) FailureKind {
	if err == nil {
		return FailureNone
	}
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Kind
	}
	return FailureNetwork
}

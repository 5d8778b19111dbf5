package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFailureKindOf(t *testing.T) {
	notFound := NewFetchError("A", FailureNotFound, nil)
	wrapped := fmt.Errorf("page lookup: %w", NewFetchError("B", FailureRateLimited, errors.New("429")))

	require.Equal(t, FailureNone, FailureKindOf(nil))
	require.Equal(t, FailureNotFound, FailureKindOf(notFound))
	require.Equal(t, FailureRateLimited, FailureKindOf(wrapped))
	require.Equal(t, FailureNetwork, FailureKindOf(errors.New("connection refused")))
}

func TestFailureKindTransient(t *testing.T) {
	require.True(t, FailureRateLimited.Transient())
	require.True(t, FailureNetwork.Transient())
	require.False(t, FailureNotFound.Transient())
	require.False(t, FailureNone.Transient())
}

func TestFetchErrorMessage(t *testing.T) {
	err := NewFetchError("Go", FailureNetwork, errors.New("EOF"))
	require.Equal(t, `fetch links for "Go": network_failure: EOF`, err.Error())
	require.ErrorIs(t, err, err.Err)
}

func TestSearchStateDone(t *testing.T) {
	require.False(t, SearchQueued.Done())
	require.False(t, SearchRunning.Done())
	require.True(t, SearchFound.Done())
	require.True(t, SearchNotFound.Done())
	require.True(t, SearchDepthExceeded.Done())
	require.True(t, SearchFailed.Done())
}

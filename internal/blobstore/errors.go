package blobstore

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable indicates the store cannot serve requests at all.
	ErrUnavailable = errors.New("blob store unavailable")

	// ErrNotConfigured indicates the store has no endpoint configured.
	// It matches ErrUnavailable under errors.Is while staying
	// distinguishable, and is returned before any network attempt.
	ErrNotConfigured = fmt.Errorf("%w: not configured", ErrUnavailable)

	// ErrNotFound indicates the requested object does not exist.
	ErrNotFound = errors.New("object not found")

	// ErrConflict indicates a structural conflict, e.g. a missing parent
	// collection on upload.
	ErrConflict = errors.New("store conflict")

	// ErrNetwork covers transport failures and unexpected responses.
	ErrNetwork = errors.New("network error")
)

package store

import "errors"

var (
	// ErrNotFound indicates the requested CID is not in the store.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a content database already exists at
	// the configured path.
	ErrAlreadyExists = errors.New("already exists")

	// ErrClosed indicates the store has been closed.
	ErrClosed = errors.New("closed")
)

package store

// Package store holds the shared live state of the arena: rooms, invites
// and presence. Documents are JSON blobs addressed by slash-separated
// paths; every mutation bumps a per-path version so optimistic
// transactions can detect concurrent writers.

import (
	"context"
	"errors"
)

var (
	// ErrNotFound reports a read of a path that holds no document.
	ErrNotFound = errors.New("store: path not found")
	// ErrUnchanged aborts a transaction without writing. The transaction
	// call itself still succeeds.
	ErrUnchanged = errors.New("store: unchanged")
	// ErrConflict reports a transaction that lost the version race too
	// many times in a row.
	ErrConflict = errors.New("store: transaction conflict")
)

// Event notifies a subscriber that a path changed. Value is nil when the
// document was deleted.
type Event struct {
	Path  string
	Value []byte
}

// TxnFunc rewrites one document. It receives the current value (nil when
// the path is empty) and returns the replacement. Returning nil deletes
// the path; returning ErrUnchanged aborts without writing.
type TxnFunc func(current []byte) ([]byte, error)

// Store is the live-state backend. All methods are safe for concurrent
// use.
type Store interface {
	// Get returns the document at path.
	Get(ctx context.Context, path string) ([]byte, error)
	// Put replaces the document at path unconditionally.
	Put(ctx context.Context, path string, value []byte) error
	// Delete removes the document at path. Deleting an empty path is a
	// no-op.
	Delete(ctx context.Context, path string) error
	// List returns every document whose path starts with prefix, keyed
	// by full path.
	List(ctx context.Context, prefix string) (map[string][]byte, error)
	// Transaction runs fn against the current value and commits the
	// result only if no concurrent writer touched the path in between,
	// retrying on conflict.
	Transaction(ctx context.Context, path string, fn TxnFunc) error
	// Subscribe delivers the current documents under prefix followed by
	// change events until cancel is called. Slow consumers may miss
	// intermediate states but always receive a trailing event.
	Subscribe(prefix string) (<-chan Event, func())
	// OnDisconnect schedules path for deletion when the given session
	// closes.
	OnDisconnect(sessionID, path string)
	// CancelDisconnect drops a previously scheduled deletion.
	CancelDisconnect(sessionID, path string)
	// CloseSession fires every deletion scheduled for the session.
	CloseSession(sessionID string)
}

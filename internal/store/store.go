// Package store persists the append-only session log. The backing
// medium is a single serialized JSON array of records; Append is
// read-modify-write over the whole array. Record counts are small
// (single user, bounded history), so the simplicity is intentional and
// callers must not assume anything cheaper.
//
// Stores are not safe for interleaved concurrent writers: the session
// machine is the only writer and serializes its saves.
package store

import (
	"errors"

	"focustrack/internal/session"
)

// ErrCorrupt marks a session log whose existing content cannot be
// parsed. It is surfaced rather than coerced to an empty log, since
// silently losing history is worse than a visible error.
var ErrCorrupt = errors.New("session log is corrupt")

// Store is the durable record log.
type Store interface {
	// Append adds one record to the log. It does not retry; the caller
	// decides whether to retry or report the loss.
	Append(rec session.Record) error

	// ReadAll returns every record ever appended, in append order. A
	// log that was never written reads as empty, not as an error.
	ReadAll() ([]session.Record, error)

	// ClearAll destroys the whole log. Clearing an empty log succeeds.
	ClearAll() error
}

package service

import "errors"

var (
	// ErrTooManyChanges means a poll window held more matching change-log
	// entries than the configured limit. The caller must not retry with
	// the same bounds; the client falls back to full resynchronization.
	ErrTooManyChanges = errors.New("too many changes in poll window")

	// ErrUnauthorized means the acting principal lacks write permission
	// on the container being registered or unregistered.
	ErrUnauthorized = errors.New("principal lacks write permission on container")

	// ErrTooManyConcurrentScrolls means the scroll concurrency cap is
	// reached. Backpressure, not a data error: retry after finishing or
	// abandoning another enumeration.
	ErrTooManyConcurrentScrolls = errors.New("too many concurrent scroll sessions")

	// ErrUnknownCursor means a scroll token is missing, expired, or
	// owned by another principal. The three cases are deliberately
	// indistinguishable to the caller.
	ErrUnknownCursor = errors.New("unknown scroll cursor")
)

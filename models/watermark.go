package models

import "time"

// RepoName identifies one document repository. Repositories progress
// independently: a client must track one watermark per repository, never a
// single global value.
type RepoName string

// RootID is the durable document identifier of a synchronization root
// container.
type RootID string

// Watermark is an opaque, monotonically non-decreasing position in a
// repository's change log, expressed as milliseconds since the Unix epoch.
// A poll covers the half-open interval [lowerBound, upperBound).
// The zero value means "from the beginning of the log".
type Watermark int64

// WatermarkFromTime converts a wall-clock instant to a Watermark.
func WatermarkFromTime(t time.Time) Watermark {
	return Watermark(t.UnixMilli())
}

// Time converts the watermark back to a wall-clock instant.
func (w Watermark) Time() time.Time {
	return time.UnixMilli(int64(w))
}

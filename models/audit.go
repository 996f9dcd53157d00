package models

// AuditEntry is one raw row of the durable change log, before it is mapped
// to an externally visible ChangeRecord.
type AuditEntry struct {
	// Seq is the server-assigned log sequence number.
	Seq int64

	Repository RepoName
	Event      EventKind

	// DocID and DocPath identify the mutated document at the time the
	// entry was written; the document may no longer exist.
	DocID   string
	DocPath string
	DocName string

	// Principal is the user whose action produced the entry.
	Principal string

	// EventTime is the logical clock position of the mutation.
	EventTime Watermark
}

// ChangeQuery describes one bounded change-log query: all entries of one
// repository inside [LowerBound, UpperBound) whose document lies under one
// of RootPaths or is one of CollectionIDs, ordered by (EventTime, Seq)
// ascending.
//
// Limit bounds the result set: the store fetches Limit+1 rows so the
// caller can distinguish "exactly Limit" from overflow.
type ChangeQuery struct {
	Repository    RepoName
	RootPaths     []string
	CollectionIDs []string
	LowerBound    Watermark
	UpperBound    Watermark
	Limit         int
}

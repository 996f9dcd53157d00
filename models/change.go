package models

// EventKind names one category of externally visible document mutation.
type EventKind string

// Event kinds produced by the change finder or synthesized by the summary
// aggregator for root-set deltas.
const (
	EventCreated          EventKind = "created"
	EventUpdated          EventKind = "updated"
	EventDeleted          EventKind = "deleted"
	EventSecurityUpdated  EventKind = "securityUpdated"
	EventMoved            EventKind = "moved"
	EventRootRegistered   EventKind = "rootRegistered"
	EventRootUnregistered EventKind = "rootUnregistered"
)

// ItemSnapshot is the materialized file-system-item representation of a
// document, attached to a ChangeRecord when the document still exists at
// summary time. Deleted documents produce records with a nil snapshot.
type ItemSnapshot struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	ParentID   string    `json:"parent_id,omitempty"`
	Folderish  bool      `json:"folderish"`
	Digest     string    `json:"digest,omitempty"`
	SizeBytes  int64     `json:"size_bytes,omitempty"`
	ModifiedAt Watermark `json:"modified_at,omitempty"`
}

// ChangeRecord represents one discrete mutation discovered in a
// repository's change log, or synthesized for a root registration delta.
// Records are immutable once produced and are not persisted by the engine.
type ChangeRecord struct {
	// ItemID is the externally visible file-system-item identifier.
	ItemID string `json:"item_id"`

	// ItemName is the display name of the changed item.
	ItemName string `json:"item_name"`

	// Item is the materialized snapshot, nil when the document is no
	// longer resolvable (deletions, unregistered roots).
	Item *ItemSnapshot `json:"item,omitempty"`

	Repository RepoName  `json:"repository"`
	Event      EventKind `json:"event"`

	// EventTime is the logical position of the mutation in the
	// repository's change log; monotonic within a repository.
	EventTime Watermark `json:"event_time"`

	// DocID is the durable identifier of the originating document.
	DocID string `json:"doc_id"`

	// Seq is the change-log sequence number, the stable secondary
	// ordering key for records sharing an EventTime.
	Seq int64 `json:"seq"`
}

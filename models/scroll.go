package models

// ScrollBatch is one page of a resumable descendant enumeration.
//
// Items are not guaranteed sorted and do not reflect a single consistent
// snapshot: a document created after the scroll started may or may not
// appear. Callers needing stronger guarantees must re-enumerate.
type ScrollBatch struct {
	// Items is the next slice of descendants, at most the requested
	// batch size.
	Items []ItemSnapshot `json:"items"`

	// NextCursor resumes the enumeration on the next call. Empty when
	// the enumeration is exhausted.
	NextCursor string `json:"next_cursor,omitempty"`
}

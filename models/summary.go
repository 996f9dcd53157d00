package models

// SummaryStatus is the per-repository outcome of one change poll.
type SummaryStatus string

const (
	// StatusOK means the repository's change list is complete for the
	// polled window.
	StatusOK SummaryStatus = "OK"

	// StatusTooManyChanges means the number of changes in the polled
	// window exceeded the configured limit. The repository's change
	// list is empty (never partially truncated) and its reported upper
	// bound equals the poll's lower bound, so the client must fall back
	// to a full resynchronization of that repository.
	StatusTooManyChanges SummaryStatus = "TOO_MANY_CHANGES"
)

// ChangeSummary aggregates one poll's result across every repository the
// user synchronizes. Repositories are independent: each carries its own
// status and upper-bound watermark, and an overflow in one repository
// leaves the others unaffected.
type ChangeSummary struct {
	// ActiveRoots lists the post-poll root paths per repository.
	ActiveRoots map[RepoName][]string `json:"active_roots"`

	// Changes is the ordered change list: per repository ordered by
	// (EventTime, Seq) ascending, repositories concatenated in sorted
	// name order. Deterministic for fixed bounds.
	Changes []ChangeRecord `json:"changes"`

	// Statuses holds the per-repository poll outcome.
	Statuses map[RepoName]SummaryStatus `json:"statuses"`

	// UpperBounds holds the new per-repository watermark; the client
	// uses each as the lower bound of its next poll.
	UpperBounds map[RepoName]Watermark `json:"upper_bounds"`

	// SyncDate is the server time at which the summary was produced.
	SyncDate Watermark `json:"sync_date"`
}

// HasTooManyChanges reports whether any repository overflowed its change
// limit during this poll.
func (s ChangeSummary) HasTooManyChanges() bool {
	for _, status := range s.Statuses {
		if status == StatusTooManyChanges {
			return true
		}
	}
	return false
}

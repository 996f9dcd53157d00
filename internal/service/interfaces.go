package service

import (
	"context"
	"time"

	"github.com/nuxeo/drive-sync/models"
)

// WatermarkClock produces per-repository upper-bound watermarks for change
// polls.
type WatermarkClock interface {
	// UpperBounds returns one watermark per requested repository. Each
	// value is non-decreasing across calls for the same repository, and
	// trails wall-clock time by the configured clustering delay so a
	// change committed on a lagging peer node is never skipped forever.
	UpperBounds(ctx context.Context, repos []models.RepoName) map[models.RepoName]models.Watermark
}

// ChangeFinder discovers the discrete changes of one repository inside a
// bounded watermark window.
type ChangeFinder interface {
	// FindChanges returns the change records of repo inside
	// [lower, upper) whose document lies under one of the active root
	// paths or is one of collectionIDs, ordered by (EventTime, Seq)
	// ascending. Returns ErrTooManyChanges when the window holds more
	// than limit matching entries; the result is never silently
	// truncated.
	FindChanges(ctx context.Context, repo models.RepoName, roots models.SyncRootSet, collectionIDs []string, lower, upper models.Watermark, limit int) ([]models.ChangeRecord, error)

	// CurrentUpperBounds returns the watermark each repository's next
	// poll should use as its upper bound.
	CurrentUpperBounds(ctx context.Context, repos []models.RepoName) map[models.RepoName]models.Watermark
}

// RootRegistry tracks which container documents each user has designated
// as synchronization roots.
type RootRegistry interface {
	// RegisteredRoots returns the user's current root sets keyed by
	// repository. Served from a per-user cache; misses are re-derived
	// from the store.
	RegisteredRoots(ctx context.Context, user string) (map[models.RepoName]models.SyncRootSet, error)

	// Register designates containerID as a synchronization root for
	// user. Returns ErrUnauthorized when user lacks write permission on
	// the container; registering an already-registered root is a no-op.
	Register(ctx context.Context, user, containerID string) (models.SyncRootSet, error)

	// Unregister removes containerID from user's roots. Permission is
	// checked before mutation; unregistering an unknown root is a
	// no-op.
	Unregister(ctx context.Context, user, containerID string) error

	// PurgeRootsUnder removes every registration, for all users, whose
	// root path equals path or lies underneath it, then drops the whole
	// cache. Called when a folder subtree is deleted.
	PurgeRootsUnder(ctx context.Context, path string) error

	// Invalidate drops the cached root set of one user.
	Invalidate(user string)

	// InvalidateAll drops every cached root set. Called when a change
	// outside any single user's scope may have affected registrations,
	// such as the deletion of a folder subtree.
	InvalidateAll()
}

// SummaryAggregator assembles one poll's complete answer across all of a
// user's repositories.
type SummaryAggregator interface {
	// Summary diffs lastRootRefs against the current registrations,
	// synthesizes rootRegistered/rootUnregistered records, finds the
	// changes of each repository inside [lowerBounds[repo], upper), and
	// merges everything into a single ChangeSummary. A repository that
	// overflows its change limit is reported TOO_MANY_CHANGES with zero
	// records and an upper bound equal to its request lower bound;
	// other repositories are unaffected.
	Summary(ctx context.Context, user string, lastRootRefs map[models.RepoName][]models.RootID, lowerBounds map[models.RepoName]models.Watermark) (models.ChangeSummary, error)
}

// ScrollManager enumerates the descendants of a folder in bounded batches
// through opaque cursor tokens.
type ScrollManager interface {
	// Scroll opens a new enumeration (empty cursorToken) or continues
	// an existing one. Returns ErrTooManyConcurrentScrolls when the
	// concurrency cap is reached, and ErrUnknownCursor for a missing,
	// expired, or foreign-principal token. A batch shorter than
	// requested ends the enumeration: the cursor is retired and
	// NextCursor comes back empty.
	Scroll(ctx context.Context, folderID, principal, cursorToken string, batchSize int, keepAlive time.Duration) (models.ScrollBatch, error)

	// Close stops the expiry sweeper and retires every open cursor.
	Close()
}

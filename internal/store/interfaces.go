package store

import (
	"context"

	"github.com/nuxeo/drive-sync/models"
)

// AuditRepository reads and appends the durable change log. The log itself
// is owned by the audit collaborator; this repository only knows how to
// translate a poll window into a bounded query.
type AuditRepository interface {
	// SelectChanges returns the audit entries matching q, ordered by
	// (event time, sequence) ascending. The store fetches Limit+1 rows;
	// detecting overflow is the caller's responsibility.
	SelectChanges(ctx context.Context, q models.ChangeQuery) ([]models.AuditEntry, error)

	// InsertEntries appends entries to the log, filling each Seq with
	// the server-assigned sequence number.
	InsertEntries(ctx context.Context, entries ...*models.AuditEntry) error
}

// RootsRepository persists the per-user synchronization root registrations.
type RootsRepository interface {
	// SelectRoots returns the user's root sets keyed by repository.
	// Repositories with no roots are absent from the map.
	SelectRoots(ctx context.Context, user string) (map[models.RepoName]models.SyncRootSet, error)

	// InsertRoot registers a root; registering an existing root is a
	// no-op.
	InsertRoot(ctx context.Context, user string, repo models.RepoName, rootID models.RootID, rootPath string) error

	// DeleteRoot unregisters a root; unregistering an unknown root is a
	// no-op.
	DeleteRoot(ctx context.Context, user string, repo models.RepoName, rootID models.RootID) error

	// DeleteRootsUnder removes every registration (for all users) whose
	// root path equals path or lies underneath it. Used when a folder
	// subtree is deleted.
	DeleteRootsUnder(ctx context.Context, path string) error
}

// DocsRepository reads the backend-native document table.
type DocsRepository interface {
	// GetDoc returns the document identified by id, or [ErrDocNotFound].
	GetDoc(ctx context.Context, id string) (models.Doc, error)

	// SelectDescendants returns up to limit descendants of folderPath
	// whose id sorts after afterID. Enumeration order is the id order,
	// which carries no user-visible meaning.
	SelectDescendants(ctx context.Context, repo models.RepoName, folderPath, afterID string, limit int) ([]models.Doc, error)

	// HasWritePermission reports whether principal holds write
	// permission on the document identified by docID.
	HasWritePermission(ctx context.Context, principal, docID string) (bool, error)
}

package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/nuxeo/drive-sync/models"
)

const (
	insertAuditEntry = `INSERT INTO audit_log (repository, event_id, doc_id, doc_path, doc_name, principal, event_date_ms)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id;`

	selectUserRoots = `SELECT repository, root_id, root_path
	FROM sync_roots
	WHERE user_name = $1
	ORDER BY repository, root_id;`

	insertSyncRoot = `INSERT INTO sync_roots (user_name, repository, root_id, root_path)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (user_name, repository, root_id) DO NOTHING;`

	deleteSyncRoot = `DELETE FROM sync_roots
	WHERE user_name = $1 AND repository = $2 AND root_id = $3;`

	deleteSyncRootsUnderPath = `DELETE FROM sync_roots
	WHERE root_path = $1 OR root_path LIKE $1 || '/%';`

	selectDocByID = `SELECT id, repository, parent_id, path, name, doc_type, folderish, digest, size_bytes, modified_ms
	FROM documents
	WHERE id = $1;`

	selectDescendantDocs = `SELECT id, repository, parent_id, path, name, doc_type, folderish, digest, size_bytes, modified_ms
	FROM documents
	WHERE repository = $1 AND path LIKE $2 || '/%' AND id > $3
	ORDER BY id
	LIMIT $4;`

	selectHasWritePermission = `SELECT EXISTS (
		SELECT 1 FROM documents
		WHERE id = $1 AND $2 = ANY(writers)
	);`
)

// buildSelectChangesQuery translates one poll window into SQL. The query
// covers the half-open interval [LowerBound, UpperBound) of one
// repository's log, restricted to entries whose document lives under one
// of the active root paths or is one of the collection ids, and
// fetches Limit+1 rows so the caller can detect overflow without a second
// round trip.
func buildSelectChangesQuery(q models.ChangeQuery) (string, []any, error) {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select("id", "repository", "event_id", "doc_id", "doc_path", "doc_name", "principal", "event_date_ms").
		From("audit_log").
		Where(sq.Eq{"repository": string(q.Repository)}).
		Where(sq.GtOrEq{"event_date_ms": int64(q.LowerBound)}).
		Where(sq.Lt{"event_date_ms": int64(q.UpperBound)}).
		OrderBy("event_date_ms ASC", "id ASC").
		Limit(uint64(q.Limit + 1))

	scope := sq.Or{}
	for _, rootPath := range q.RootPaths {
		scope = append(scope,
			sq.Eq{"doc_path": rootPath},
			sq.Like{"doc_path": rootPath + "/%"},
		)
	}
	if len(q.CollectionIDs) > 0 {
		scope = append(scope, sq.Eq{"doc_id": q.CollectionIDs})
	}
	if len(scope) > 0 {
		builder = builder.Where(scope)
	}

	return builder.ToSql()
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nuxeo/drive-sync/internal/logger"
	"github.com/nuxeo/drive-sync/models"
)

// docsRepository is the PostgreSQL-backed implementation of
// [DocsRepository], reading the "documents" table.
type docsRepository struct {
	*DB
	logger *logger.Logger
}

// NewDocsRepository constructs a [DocsRepository] backed by the provided
// database connection and logger.
func NewDocsRepository(db *DB, logger *logger.Logger) DocsRepository {
	return &docsRepository{
		DB:     db,
		logger: logger,
	}
}

// GetDoc retrieves the document identified by id.
//
// Returns [ErrDocNotFound] when no row matches, which is an expected
// outcome for audit entries referencing since-deleted documents.
func (d *docsRepository) GetDoc(ctx context.Context, id string) (models.Doc, error) {
	log := logger.FromContext(ctx)

	var doc models.Doc
	err := d.DB.QueryRowContext(ctx, selectDocByID, id).Scan(
		&doc.ID,
		&doc.Repository,
		&doc.ParentID,
		&doc.Path,
		&doc.Name,
		&doc.Type,
		&doc.Folderish,
		&doc.Digest,
		&doc.SizeBytes,
		&doc.ModifiedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return models.Doc{}, ErrDocNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "docsRepository.GetDoc").
			Str("doc_id", id).
			Msg("failed to query document")
		return models.Doc{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return doc, nil
}

// SelectDescendants returns up to limit documents whose path lies under
// folderPath and whose id sorts after afterID.
//
// The id ordering is a keyset-pagination device, not a user-visible sort:
// batches taken across a mutating subtree do not form a consistent
// snapshot.
func (d *docsRepository) SelectDescendants(ctx context.Context, repo models.RepoName, folderPath, afterID string, limit int) ([]models.Doc, error) {
	log := logger.FromContext(ctx)

	rows, err := d.DB.QueryContext(ctx, selectDescendantDocs, repo, folderPath, afterID, limit)
	if err != nil {
		log.Err(err).
			Str("func", "docsRepository.SelectDescendants").
			Str("folder_path", folderPath).
			Str("after_id", afterID).
			Msg("failed to execute descendants query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	docs := make([]models.Doc, 0, limit)

	for rows.Next() {
		var doc models.Doc

		scanErr := rows.Scan(
			&doc.ID,
			&doc.Repository,
			&doc.ParentID,
			&doc.Path,
			&doc.Name,
			&doc.Type,
			&doc.Folderish,
			&doc.Digest,
			&doc.SizeBytes,
			&doc.ModifiedAt,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "docsRepository.SelectDescendants").
				Str("folder_path", folderPath).
				Msg("failed to scan document row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		docs = append(docs, doc)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "docsRepository.SelectDescendants").
			Str("folder_path", folderPath).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return docs, nil
}

// HasWritePermission reports whether principal is listed among the
// document's writers. The check runs entirely in SQL so the writers array
// never crosses the driver boundary.
func (d *docsRepository) HasWritePermission(ctx context.Context, principal, docID string) (bool, error) {
	log := logger.FromContext(ctx)

	var allowed bool
	err := d.DB.QueryRowContext(ctx, selectHasWritePermission, docID, principal).Scan(&allowed)
	if err != nil {
		log.Err(err).
			Str("func", "docsRepository.HasWritePermission").
			Str("doc_id", docID).
			Str("principal", principal).
			Msg("failed to execute permission query")
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return allowed, nil
}

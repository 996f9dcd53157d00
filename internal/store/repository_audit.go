package store

import (
	"context"
	"fmt"

	"github.com/nuxeo/drive-sync/internal/logger"
	"github.com/nuxeo/drive-sync/models"
)

// auditRepository is the PostgreSQL-backed implementation of
// [AuditRepository]. It executes bounded, ordered reads of the "audit_log"
// table using the embedded [*DB] connection.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that all database interactions are traced with
// structured fields (repository, bounds, entry counts, etc.).
type auditRepository struct {
	*DB
	logger *logger.Logger
}

// NewAuditRepository constructs an [AuditRepository] backed by the provided
// database connection and logger.
//
// The logger parameter is stored for fallback logging; most methods prefer
// the context-scoped logger obtained via [logger.FromContext].
func NewAuditRepository(db *DB, logger *logger.Logger) AuditRepository {
	return &auditRepository{
		DB:     db,
		logger: logger,
	}
}

// SelectChanges retrieves audit entries matching q, ordered by
// (event_date_ms, id) ascending so that repeated polls with the same
// bounds are deterministic.
//
// The query fetches q.Limit+1 rows; the change finder detects overflow by
// comparing the result length against q.Limit. Entries are restricted to
// documents under q.RootPaths or listed in q.CollectionIDs; with neither
// restriction the repository-wide window is returned.
func (a *auditRepository) SelectChanges(ctx context.Context, q models.ChangeQuery) ([]models.AuditEntry, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectChangesQuery(q)
	if err != nil {
		log.Err(err).
			Str("func", "auditRepository.SelectChanges").
			Str("repository", string(q.Repository)).
			Msg("failed to build changes query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := a.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "auditRepository.SelectChanges").
			Str("repository", string(q.Repository)).
			Int64("lower_bound", int64(q.LowerBound)).
			Int64("upper_bound", int64(q.UpperBound)).
			Msg("failed to execute changes query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	entries := make([]models.AuditEntry, 0, q.Limit)

	for rows.Next() {
		var entry models.AuditEntry

		scanErr := rows.Scan(
			&entry.Seq,
			&entry.Repository,
			&entry.Event,
			&entry.DocID,
			&entry.DocPath,
			&entry.DocName,
			&entry.Principal,
			&entry.EventTime,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "auditRepository.SelectChanges").
				Str("repository", string(q.Repository)).
				Msg("failed to scan audit entry row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		entries = append(entries, entry)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "auditRepository.SelectChanges").
			Str("repository", string(q.Repository)).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return entries, nil
}

// InsertEntries appends one or more entries to the audit log.
//
// Routing strategy:
//   - Exactly one entry → plain INSERT, no transaction overhead.
//   - Two or more entries → a transaction with a prepared statement.
//
// On success each [models.AuditEntry.Seq] is populated with the
// server-assigned sequence number returned by the INSERT … RETURNING id
// clause.
func (a *auditRepository) InsertEntries(ctx context.Context, entries ...*models.AuditEntry) error {
	if len(entries) == 0 {
		return nil
	}

	if len(entries) == 1 {
		return a.insertSingleEntry(ctx, entries[0])
	}

	return a.insertMultipleEntries(ctx, entries)
}

func (a *auditRepository) insertSingleEntry(ctx context.Context, entry *models.AuditEntry) error {
	log := logger.FromContext(ctx)

	err := a.DB.QueryRowContext(ctx, insertAuditEntry,
		entry.Repository,
		entry.Event,
		entry.DocID,
		entry.DocPath,
		entry.DocName,
		entry.Principal,
		entry.EventTime,
	).Scan(&entry.Seq)

	if err != nil {
		log.Err(err).
			Str("func", "auditRepository.insertSingleEntry").
			Str("repository", string(entry.Repository)).
			Str("doc_id", entry.DocID).
			Str("pg_code", postgresError(err)).
			Msg("failed to insert audit entry")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// insertMultipleEntries appends two or more entries inside a single
// database transaction using a prepared statement.
//
// The transaction is rolled back automatically (via defer) if any
// individual insert fails; the commit is attempted only after all entries
// succeed.
func (a *auditRepository) insertMultipleEntries(ctx context.Context, entries []*models.AuditEntry) error {
	log := logger.FromContext(ctx)

	tx, err := a.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "auditRepository.insertMultipleEntries").
			Int("count", len(entries)).
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertAuditEntry)
	if err != nil {
		log.Err(err).
			Str("func", "auditRepository.insertMultipleEntries").
			Int("count", len(entries)).
			Msg("failed to prepare statement")
		return fmt.Errorf("%w: %w", ErrPreparingStatement, err)
	}
	defer stmt.Close()

	for idx, entry := range entries {
		queryErr := stmt.QueryRowContext(ctx,
			entry.Repository,
			entry.Event,
			entry.DocID,
			entry.DocPath,
			entry.DocName,
			entry.Principal,
			entry.EventTime,
		).Scan(&entry.Seq)

		if queryErr != nil {
			log.Err(queryErr).
				Str("func", "auditRepository.insertMultipleEntries").
				Int("iteration", idx+1).
				Str("doc_id", entry.DocID).
				Msg("failed to execute prepared statement")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, queryErr)
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "auditRepository.insertMultipleEntries").
			Int("count", len(entries)).
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	return nil
}

package store

import (
	"context"
	"fmt"

	"github.com/nuxeo/drive-sync/internal/logger"
	"github.com/nuxeo/drive-sync/models"
)

// rootsRepository is the PostgreSQL-backed implementation of
// [RootsRepository]. It owns the "sync_roots" table holding one row per
// (user, repository, root) registration.
type rootsRepository struct {
	*DB
	logger *logger.Logger
}

// NewRootsRepository constructs a [RootsRepository] backed by the provided
// database connection and logger.
func NewRootsRepository(db *DB, logger *logger.Logger) RootsRepository {
	return &rootsRepository{
		DB:     db,
		logger: logger,
	}
}

// SelectRoots retrieves every root registered by user, grouped by
// repository. The per-repository id and path slices are built in the
// query's (repository, root_id) order, keeping the 1:1 correspondence
// deterministic.
func (r *rootsRepository) SelectRoots(ctx context.Context, user string) (map[models.RepoName]models.SyncRootSet, error) {
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, selectUserRoots, user)
	if err != nil {
		log.Err(err).
			Str("func", "rootsRepository.SelectRoots").
			Str("user", user).
			Msg("failed to execute query for user sync roots")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	rootSets := make(map[models.RepoName]models.SyncRootSet)

	for rows.Next() {
		var repo models.RepoName
		var rootID models.RootID
		var rootPath string

		if scanErr := rows.Scan(&repo, &rootID, &rootPath); scanErr != nil {
			log.Err(scanErr).
				Str("func", "rootsRepository.SelectRoots").
				Str("user", user).
				Msg("failed to scan sync root row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		rootSet := rootSets[repo]
		rootSet.Repository = repo
		rootSet.RootIDs = append(rootSet.RootIDs, rootID)
		rootSet.RootPaths = append(rootSet.RootPaths, rootPath)
		rootSets[repo] = rootSet
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "rootsRepository.SelectRoots").
			Str("user", user).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return rootSets, nil
}

// InsertRoot registers one root for user. The insert is idempotent: a
// conflicting registration leaves the existing row untouched.
func (r *rootsRepository) InsertRoot(ctx context.Context, user string, repo models.RepoName, rootID models.RootID, rootPath string) error {
	log := logger.FromContext(ctx)

	if _, err := r.DB.ExecContext(ctx, insertSyncRoot, user, repo, rootID, rootPath); err != nil {
		log.Err(err).
			Str("func", "rootsRepository.InsertRoot").
			Str("user", user).
			Str("root_id", string(rootID)).
			Str("pg_code", postgresError(err)).
			Msg("failed to insert sync root")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// DeleteRoot unregisters one root for user; deleting a root that was never
// registered is a no-op.
func (r *rootsRepository) DeleteRoot(ctx context.Context, user string, repo models.RepoName, rootID models.RootID) error {
	log := logger.FromContext(ctx)

	if _, err := r.DB.ExecContext(ctx, deleteSyncRoot, user, repo, rootID); err != nil {
		log.Err(err).
			Str("func", "rootsRepository.DeleteRoot").
			Str("user", user).
			Str("root_id", string(rootID)).
			Msg("failed to delete sync root")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// DeleteRootsUnder removes every registration, for all users, whose root
// path equals path or lies underneath it. A deleted folder silently
// orphans any root pointing into it; this is the cleanup half of that
// contract (the cache half is the registry's InvalidateAll).
func (r *rootsRepository) DeleteRootsUnder(ctx context.Context, path string) error {
	log := logger.FromContext(ctx)

	if _, err := r.DB.ExecContext(ctx, deleteSyncRootsUnderPath, path); err != nil {
		log.Err(err).
			Str("func", "rootsRepository.DeleteRootsUnder").
			Str("path", path).
			Msg("failed to delete sync roots under path")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

package service

import (
	"context"
	"fmt"

	"github.com/nuxeo/drive-sync/internal/adapter"
	"github.com/nuxeo/drive-sync/internal/logger"
	"github.com/nuxeo/drive-sync/internal/store"
	"github.com/nuxeo/drive-sync/models"
)

// changeFinder is the concrete implementation of ChangeFinder. It
// translates a poll window into a bounded audit-log query, detects
// overflow, and materializes each surviving entry through the item
// adapter.
type changeFinder struct {
	audit    store.AuditRepository
	resolver adapter.Resolver
	clock    WatermarkClock

	logger *logger.Logger
}

// NewChangeFinder constructs a ChangeFinder over the given audit log,
// item resolver, and watermark clock.
func NewChangeFinder(audit store.AuditRepository, resolver adapter.Resolver, clock WatermarkClock, logger *logger.Logger) ChangeFinder {
	return &changeFinder{
		audit:    audit,
		resolver: resolver,
		clock:    clock,
		logger:   logger,
	}
}

func (f *changeFinder) FindChanges(ctx context.Context, repo models.RepoName, roots models.SyncRootSet, collectionIDs []string, lower, upper models.Watermark, limit int) ([]models.ChangeRecord, error) {
	log := logger.FromContext(ctx)

	// A user with no active roots and no collection scope cannot match
	// any entry; skip the query entirely.
	if len(roots.RootPaths) == 0 && len(collectionIDs) == 0 {
		return nil, nil
	}

	entries, err := f.audit.SelectChanges(ctx, models.ChangeQuery{
		Repository:    repo,
		RootPaths:     roots.RootPaths,
		CollectionIDs: collectionIDs,
		LowerBound:    lower,
		UpperBound:    upper,
		Limit:         limit,
	})
	if err != nil {
		return nil, fmt.Errorf("find changes: %w", err)
	}

	// The store fetched limit+1 rows; a full fetch means the window
	// overflowed and the result must not be truncated silently.
	if len(entries) > limit {
		log.Info().
			Str("func", "changeFinder.FindChanges").
			Str("repository", string(repo)).
			Int("limit", limit).
			Msg("poll window overflowed change limit")
		return nil, ErrTooManyChanges
	}

	records := make([]models.ChangeRecord, 0, len(entries))
	for _, entry := range entries {
		item, err := f.resolver.ResolveChangeToItem(ctx, entry.DocID)
		if err != nil {
			return nil, fmt.Errorf("find changes: %w", err)
		}

		// A document that no longer resolves (deleted, or its type lost
		// adaptability) still identifies its item by document id, so
		// clients can match the change against their local state.
		record := models.ChangeRecord{
			ItemID:     entry.DocID,
			ItemName:   entry.DocName,
			Item:       item,
			Repository: entry.Repository,
			Event:      entry.Event,
			EventTime:  entry.EventTime,
			DocID:      entry.DocID,
			Seq:        entry.Seq,
		}
		if item != nil {
			record.ItemID = item.ID
			record.ItemName = item.Name
		}

		records = append(records, record)
	}

	return records, nil
}

func (f *changeFinder) CurrentUpperBounds(ctx context.Context, repos []models.RepoName) map[models.RepoName]models.Watermark {
	return f.clock.UpperBounds(ctx, repos)
}

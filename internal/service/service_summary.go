package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/nuxeo/drive-sync/internal/adapter"
	"github.com/nuxeo/drive-sync/internal/config"
	"github.com/nuxeo/drive-sync/internal/logger"
	"github.com/nuxeo/drive-sync/models"
)

// summaryAggregator is the concrete implementation of SummaryAggregator.
// It owns no state of its own: every poll re-derives the answer from the
// registry, the clock, and the finder, so repositories stay independent
// and an overflow in one cannot leak into another.
type summaryAggregator struct {
	finder   ChangeFinder
	registry RootRegistry
	resolver adapter.Resolver
	cfg      config.Sync
	now      func() time.Time

	logger *logger.Logger
}

// NewSummaryAggregator constructs a SummaryAggregator over the given
// collaborators.
func NewSummaryAggregator(finder ChangeFinder, registry RootRegistry, resolver adapter.Resolver, cfg config.Sync, logger *logger.Logger) SummaryAggregator {
	return &summaryAggregator{
		finder:   finder,
		registry: registry,
		resolver: resolver,
		cfg:      cfg,
		now:      time.Now,
		logger:   logger,
	}
}

func (a *summaryAggregator) Summary(ctx context.Context, user string, lastRootRefs map[models.RepoName][]models.RootID, lowerBounds map[models.RepoName]models.Watermark) (models.ChangeSummary, error) {
	log := logger.FromContext(ctx)

	currentRoots, err := a.registry.RegisteredRoots(ctx, user)
	if err != nil {
		return models.ChangeSummary{}, fmt.Errorf("summary: %w", err)
	}

	repos := unionRepos(lastRootRefs, currentRoots)
	upperBounds := a.finder.CurrentUpperBounds(ctx, repos)

	summary := models.ChangeSummary{
		ActiveRoots: make(map[models.RepoName][]string, len(repos)),
		Statuses:    make(map[models.RepoName]models.SummaryStatus, len(repos)),
		UpperBounds: make(map[models.RepoName]models.Watermark, len(repos)),
		SyncDate:    models.WatermarkFromTime(a.now()),
	}

	for _, repo := range repos {
		roots := currentRoots[repo]
		lower := lowerBounds[repo]
		upper := upperBounds[repo]

		summary.ActiveRoots[repo] = roots.RootPaths

		synthetic, err := a.synthesizeRootDeltas(ctx, repo, lastRootRefs[repo], roots, upper)
		if err != nil {
			return models.ChangeSummary{}, fmt.Errorf("summary: %w", err)
		}

		// Registered roots are the only scope a poll carries; collection
		// membership is a caller-supplied finder scope with no registry
		// counterpart here.
		found, err := a.finder.FindChanges(ctx, repo, roots, nil, lower, upper, a.cfg.ChangeLimit)
		if errors.Is(err, ErrTooManyChanges) {
			// The repository must resynchronize from scratch. Report
			// nothing for it, not even the synthetic root records, and
			// hand the lower bound back unchanged.
			log.Info().
				Str("func", "summaryAggregator.Summary").
				Str("user", user).
				Str("repository", string(repo)).
				Msg("repository overflowed change limit")

			summary.Statuses[repo] = models.StatusTooManyChanges
			summary.UpperBounds[repo] = lower
			continue
		}
		if err != nil {
			return models.ChangeSummary{}, fmt.Errorf("summary: %w", err)
		}

		records := mergeByLogOrder(found, synthetic)
		summary.Changes = append(summary.Changes, records...)
		summary.Statuses[repo] = models.StatusOK
		summary.UpperBounds[repo] = upper
	}

	return summary, nil
}

// synthesizeRootDeltas produces rootRegistered and rootUnregistered
// records for the roots added or removed since the client's previous
// poll. Synthetic records carry the repository's new upper bound as their
// event time, placing them after the window's found changes.
func (a *summaryAggregator) synthesizeRootDeltas(ctx context.Context, repo models.RepoName, lastRefs []models.RootID, roots models.SyncRootSet, upper models.Watermark) ([]models.ChangeRecord, error) {
	last := make(map[models.RootID]struct{}, len(lastRefs))
	for _, id := range lastRefs {
		last[id] = struct{}{}
	}

	var records []models.ChangeRecord

	for i, id := range roots.RootIDs {
		if _, seen := last[id]; seen {
			continue
		}

		record := models.ChangeRecord{
			ItemID:     string(id),
			ItemName:   roots.RootPaths[i],
			Repository: repo,
			Event:      models.EventRootRegistered,
			EventTime:  upper,
			DocID:      string(id),
		}
		item, err := a.resolver.ResolveChangeToItem(ctx, string(id))
		if err != nil {
			return nil, fmt.Errorf("synthesize root registration: %w", err)
		}
		if item != nil {
			record.Item = item
			record.ItemName = item.Name
		}

		records = append(records, record)
	}

	for _, id := range lastRefs {
		if roots.ContainsID(id) {
			continue
		}

		// The root is gone from the registry and its document may be
		// gone from the repository too. The record identifies the root
		// by id and best-effort name only; it never carries a snapshot,
		// so the client tears the subtree down without trying to fetch
		// it.
		record := models.ChangeRecord{
			ItemID:     string(id),
			ItemName:   string(id),
			Repository: repo,
			Event:      models.EventRootUnregistered,
			EventTime:  upper,
			DocID:      string(id),
		}
		item, err := a.resolver.ResolveChangeToItem(ctx, string(id))
		if err != nil {
			return nil, fmt.Errorf("synthesize root removal: %w", err)
		}
		if item != nil {
			record.ItemName = item.Name
		}

		records = append(records, record)
	}

	return records, nil
}

// mergeByLogOrder combines found and synthetic records of one repository
// into (EventTime, Seq) ascending order. Both inputs are already sorted;
// a stable sort keeps registered-before-unregistered order for records
// sharing a position.
func mergeByLogOrder(found, synthetic []models.ChangeRecord) []models.ChangeRecord {
	records := make([]models.ChangeRecord, 0, len(found)+len(synthetic))
	records = append(records, found...)
	records = append(records, synthetic...)

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].EventTime != records[j].EventTime {
			return records[i].EventTime < records[j].EventTime
		}
		return records[i].Seq < records[j].Seq
	})

	return records
}

// unionRepos returns the sorted union of the repositories named by the
// client's previous poll and the current registrations.
func unionRepos(lastRootRefs map[models.RepoName][]models.RootID, currentRoots map[models.RepoName]models.SyncRootSet) []models.RepoName {
	seen := make(map[models.RepoName]struct{}, len(lastRootRefs)+len(currentRoots))
	for repo := range lastRootRefs {
		seen[repo] = struct{}{}
	}
	for repo := range currentRoots {
		seen[repo] = struct{}{}
	}

	repos := make([]models.RepoName, 0, len(seen))
	for repo := range seen {
		repos = append(repos, repo)
	}
	sort.Slice(repos, func(i, j int) bool { return repos[i] < repos[j] })

	return repos
}

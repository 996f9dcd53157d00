// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuxeo/drive-sync/internal/config"
	"github.com/nuxeo/drive-sync/internal/logger"
	"github.com/nuxeo/drive-sync/models"
)

func staticBounds(bounds map[models.RepoName]models.Watermark) *mockChangeFinder {
	return &mockChangeFinder{
		currentUpperBoundsFn: func(_ context.Context, repos []models.RepoName) map[models.RepoName]models.Watermark {
			out := make(map[models.RepoName]models.Watermark, len(repos))
			for _, repo := range repos {
				out[repo] = bounds[repo]
			}
			return out
		},
	}
}

func TestSummaryAggregator_PollWindow(t *testing.T) {
	// The client polls from 100; entries were logged at 101, 102 and 103
	// and the limit is 10, so all three come back with status OK and the
	// new bound moves past them.
	finder := staticBounds(map[models.RepoName]models.Watermark{"default": 200})
	finder.findChangesFn = func(_ context.Context, repo models.RepoName, roots models.SyncRootSet, _ []string, lower, upper models.Watermark, limit int) ([]models.ChangeRecord, error) {
		assert.Equal(t, models.Watermark(100), lower)
		assert.Equal(t, models.Watermark(200), upper)
		assert.Equal(t, 10, limit)
		return []models.ChangeRecord{
			{Repository: repo, Event: models.EventCreated, EventTime: 101, Seq: 1, DocID: "doc-1"},
			{Repository: repo, Event: models.EventUpdated, EventTime: 102, Seq: 2, DocID: "doc-2"},
			{Repository: repo, Event: models.EventUpdated, EventTime: 103, Seq: 3, DocID: "doc-3"},
		}, nil
	}
	registry := &mockRootRegistry{
		registeredRootsFn: func(_ context.Context, _ string) (map[models.RepoName]models.SyncRootSet, error) {
			return map[models.RepoName]models.SyncRootSet{
				"default": {Repository: "default", RootIDs: []models.RootID{"root-1"}, RootPaths: []string{"/ws/folder1"}},
			}, nil
		},
	}

	agg := NewSummaryAggregator(finder, registry, &mockResolver{}, config.Sync{ChangeLimit: 10}, logger.Nop())

	summary, err := agg.Summary(context.Background(), "alice",
		map[models.RepoName][]models.RootID{"default": {"root-1"}},
		map[models.RepoName]models.Watermark{"default": 100})
	require.NoError(t, err)

	require.Len(t, summary.Changes, 3)
	assert.Equal(t, models.StatusOK, summary.Statuses["default"])
	assert.Equal(t, models.Watermark(200), summary.UpperBounds["default"])
	assert.Equal(t, []string{"/ws/folder1"}, summary.ActiveRoots["default"])
	assert.False(t, summary.HasTooManyChanges())
}

func TestSummaryAggregator_RootDeltaSynthesis(t *testing.T) {
	// Previous poll saw roots {A, B}; the user now has {B, C}. The
	// summary must synthesize rootUnregistered(A) and rootRegistered(C)
	// and leave B alone.
	finder := staticBounds(map[models.RepoName]models.Watermark{"default": 500})
	registry := &mockRootRegistry{
		registeredRootsFn: func(_ context.Context, _ string) (map[models.RepoName]models.SyncRootSet, error) {
			return map[models.RepoName]models.SyncRootSet{
				"default": {
					Repository: "default",
					RootIDs:    []models.RootID{"B", "C"},
					RootPaths:  []string{"/ws/b", "/ws/c"},
				},
			}, nil
		},
	}
	resolver := &mockResolver{
		resolveFn: func(_ context.Context, docID string) (*models.ItemSnapshot, error) {
			if docID == "A" {
				return nil, nil // root A's document is gone
			}
			return &models.ItemSnapshot{ID: docID, Name: "folder " + docID, Folderish: true}, nil
		},
	}

	agg := NewSummaryAggregator(finder, registry, resolver, config.Sync{ChangeLimit: 10}, logger.Nop())

	summary, err := agg.Summary(context.Background(), "alice",
		map[models.RepoName][]models.RootID{"default": {"A", "B"}},
		map[models.RepoName]models.Watermark{"default": 400})
	require.NoError(t, err)
	require.Len(t, summary.Changes, 2)

	byEvent := make(map[models.EventKind]models.ChangeRecord, 2)
	for _, record := range summary.Changes {
		byEvent[record.Event] = record
	}

	registered, ok := byEvent[models.EventRootRegistered]
	require.True(t, ok)
	assert.Equal(t, "C", registered.ItemID)
	assert.Equal(t, "folder C", registered.ItemName)
	require.NotNil(t, registered.Item)
	assert.True(t, registered.Item.Folderish)
	assert.Equal(t, models.Watermark(500), registered.EventTime)

	unregistered, ok := byEvent[models.EventRootUnregistered]
	require.True(t, ok)
	assert.Equal(t, "A", unregistered.ItemID)
	assert.Nil(t, unregistered.Item, "a torn-down root never carries a snapshot")
}

func TestSummaryAggregator_OverflowIsolatedPerRepository(t *testing.T) {
	finder := staticBounds(map[models.RepoName]models.Watermark{"archive": 900, "default": 900})
	finder.findChangesFn = func(_ context.Context, repo models.RepoName, _ models.SyncRootSet, _ []string, lower, upper models.Watermark, _ int) ([]models.ChangeRecord, error) {
		if repo == "default" {
			return nil, ErrTooManyChanges
		}
		return []models.ChangeRecord{
			{Repository: repo, Event: models.EventUpdated, EventTime: 850, Seq: 7, DocID: "doc-9"},
		}, nil
	}
	registry := &mockRootRegistry{
		registeredRootsFn: func(_ context.Context, _ string) (map[models.RepoName]models.SyncRootSet, error) {
			return map[models.RepoName]models.SyncRootSet{
				"default": {Repository: "default", RootIDs: []models.RootID{"d1"}, RootPaths: []string{"/ws/d"}},
				"archive": {Repository: "archive", RootIDs: []models.RootID{"a1"}, RootPaths: []string{"/arc/a"}},
			}, nil
		},
	}

	agg := NewSummaryAggregator(finder, registry, &mockResolver{}, config.Sync{ChangeLimit: 1}, logger.Nop())

	summary, err := agg.Summary(context.Background(), "alice",
		map[models.RepoName][]models.RootID{"default": {"d1"}, "archive": {"a1"}},
		map[models.RepoName]models.Watermark{"default": 800, "archive": 800})
	require.NoError(t, err)

	// The overflowing repository reports TOO_MANY_CHANGES, contributes
	// no records, and hands its lower bound back unchanged.
	assert.Equal(t, models.StatusTooManyChanges, summary.Statuses["default"])
	assert.Equal(t, models.Watermark(800), summary.UpperBounds["default"])
	assert.True(t, summary.HasTooManyChanges())

	// The healthy repository is untouched.
	assert.Equal(t, models.StatusOK, summary.Statuses["archive"])
	assert.Equal(t, models.Watermark(900), summary.UpperBounds["archive"])
	require.Len(t, summary.Changes, 1)
	assert.Equal(t, models.RepoName("archive"), summary.Changes[0].Repository)
}

func TestSummaryAggregator_MissingLowerBoundPollsFromZero(t *testing.T) {
	var capturedLower models.Watermark = -1
	finder := staticBounds(map[models.RepoName]models.Watermark{"default": 300})
	finder.findChangesFn = func(_ context.Context, _ models.RepoName, _ models.SyncRootSet, _ []string, lower, _ models.Watermark, _ int) ([]models.ChangeRecord, error) {
		capturedLower = lower
		return nil, nil
	}
	registry := &mockRootRegistry{
		registeredRootsFn: func(_ context.Context, _ string) (map[models.RepoName]models.SyncRootSet, error) {
			return map[models.RepoName]models.SyncRootSet{
				"default": {Repository: "default", RootIDs: []models.RootID{"r"}, RootPaths: []string{"/ws/r"}},
			}, nil
		},
	}

	agg := NewSummaryAggregator(finder, registry, &mockResolver{}, config.Sync{ChangeLimit: 10}, logger.Nop())

	_, err := agg.Summary(context.Background(), "alice", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.Watermark(0), capturedLower)
}

func TestSummaryAggregator_RepositoriesConcatenatedInSortedOrder(t *testing.T) {
	finder := staticBounds(map[models.RepoName]models.Watermark{"alpha": 100, "beta": 100})
	finder.findChangesFn = func(_ context.Context, repo models.RepoName, _ models.SyncRootSet, _ []string, _, _ models.Watermark, _ int) ([]models.ChangeRecord, error) {
		return []models.ChangeRecord{{Repository: repo, EventTime: 50, Seq: 1}}, nil
	}
	registry := &mockRootRegistry{
		registeredRootsFn: func(_ context.Context, _ string) (map[models.RepoName]models.SyncRootSet, error) {
			return map[models.RepoName]models.SyncRootSet{
				"beta":  {Repository: "beta", RootIDs: []models.RootID{"b"}, RootPaths: []string{"/b"}},
				"alpha": {Repository: "alpha", RootIDs: []models.RootID{"a"}, RootPaths: []string{"/a"}},
			}, nil
		},
	}

	agg := NewSummaryAggregator(finder, registry, &mockResolver{}, config.Sync{ChangeLimit: 10}, logger.Nop())

	summary, err := agg.Summary(context.Background(), "alice",
		map[models.RepoName][]models.RootID{"alpha": {"a"}, "beta": {"b"}}, nil)
	require.NoError(t, err)
	require.Len(t, summary.Changes, 2)
	assert.Equal(t, models.RepoName("alpha"), summary.Changes[0].Repository)
	assert.Equal(t, models.RepoName("beta"), summary.Changes[1].Repository)
}

func TestSummaryAggregator_RepositoryOnlyInLastRefs(t *testing.T) {
	// All of the repository's roots were unregistered since the last
	// poll: it still appears in the answer, with the tear-down records.
	finder := staticBounds(map[models.RepoName]models.Watermark{"default": 700})
	registry := &mockRootRegistry{
		registeredRootsFn: func(_ context.Context, _ string) (map[models.RepoName]models.SyncRootSet, error) {
			return map[models.RepoName]models.SyncRootSet{}, nil
		},
	}
	resolver := &mockResolver{
		resolveFn: func(_ context.Context, _ string) (*models.ItemSnapshot, error) {
			return nil, nil
		},
	}

	agg := NewSummaryAggregator(finder, registry, resolver, config.Sync{ChangeLimit: 10}, logger.Nop())

	summary, err := agg.Summary(context.Background(), "alice",
		map[models.RepoName][]models.RootID{"default": {"gone-1", "gone-2"}},
		map[models.RepoName]models.Watermark{"default": 600})
	require.NoError(t, err)
	require.Len(t, summary.Changes, 2)
	for _, record := range summary.Changes {
		assert.Equal(t, models.EventRootUnregistered, record.Event)
		assert.Nil(t, record.Item)
	}
	assert.Equal(t, models.StatusOK, summary.Statuses["default"])
	assert.Empty(t, summary.ActiveRoots["default"])
}

func TestSummaryAggregator_SyntheticRecordsSortAfterFoundChanges(t *testing.T) {
	finder := staticBounds(map[models.RepoName]models.Watermark{"default": 500})
	finder.findChangesFn = func(_ context.Context, repo models.RepoName, _ models.SyncRootSet, _ []string, _, _ models.Watermark, _ int) ([]models.ChangeRecord, error) {
		return []models.ChangeRecord{
			{Repository: repo, Event: models.EventUpdated, EventTime: 450, Seq: 3},
		}, nil
	}
	registry := &mockRootRegistry{
		registeredRootsFn: func(_ context.Context, _ string) (map[models.RepoName]models.SyncRootSet, error) {
			return map[models.RepoName]models.SyncRootSet{
				"default": {Repository: "default", RootIDs: []models.RootID{"new-root"}, RootPaths: []string{"/ws/new"}},
			}, nil
		},
	}

	agg := NewSummaryAggregator(finder, registry, &mockResolver{}, config.Sync{ChangeLimit: 10}, logger.Nop())

	summary, err := agg.Summary(context.Background(), "alice",
		map[models.RepoName][]models.RootID{"default": {}},
		map[models.RepoName]models.Watermark{"default": 400})
	require.NoError(t, err)
	require.Len(t, summary.Changes, 2)
	assert.Equal(t, models.EventUpdated, summary.Changes[0].Event)
	assert.Equal(t, models.EventRootRegistered, summary.Changes[1].Event)
}

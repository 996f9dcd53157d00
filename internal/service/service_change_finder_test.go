package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuxeo/drive-sync/internal/logger"
	"github.com/nuxeo/drive-sync/models"
)

func rootsUnder(paths ...string) models.SyncRootSet {
	set := models.SyncRootSet{Repository: "default"}
	for i, path := range paths {
		set.RootIDs = append(set.RootIDs, models.RootID(string(rune('a'+i))))
		set.RootPaths = append(set.RootPaths, path)
	}
	return set
}

func TestChangeFinder_FindChanges(t *testing.T) {
	entries := []models.AuditEntry{
		{Seq: 11, Repository: "default", Event: models.EventCreated, DocID: "doc-1", DocName: "one", EventTime: 101},
		{Seq: 12, Repository: "default", Event: models.EventUpdated, DocID: "doc-2", DocName: "two", EventTime: 102},
		{Seq: 13, Repository: "default", Event: models.EventDeleted, DocID: "doc-3", DocName: "three", EventTime: 103},
	}

	var captured models.ChangeQuery
	audit := &mockAuditRepository{
		selectChangesFn: func(_ context.Context, q models.ChangeQuery) ([]models.AuditEntry, error) {
			captured = q
			return entries, nil
		},
	}
	resolver := &mockResolver{
		resolveFn: func(_ context.Context, docID string) (*models.ItemSnapshot, error) {
			if docID == "doc-3" {
				return nil, nil // deleted, no longer resolvable
			}
			return &models.ItemSnapshot{ID: docID, Name: "item " + docID}, nil
		},
	}

	finder := NewChangeFinder(audit, resolver, nil, logger.Nop())

	records, err := finder.FindChanges(context.Background(), "default", rootsUnder("/ws/folder1"), nil, 100, 200, 10)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, models.RepoName("default"), captured.Repository)
	assert.Equal(t, []string{"/ws/folder1"}, captured.RootPaths)
	assert.Equal(t, models.Watermark(100), captured.LowerBound)
	assert.Equal(t, models.Watermark(200), captured.UpperBound)
	assert.Equal(t, 10, captured.Limit)

	// Order preserved from the store: event time asc, then sequence.
	assert.Equal(t, models.Watermark(101), records[0].EventTime)
	assert.Equal(t, models.Watermark(102), records[1].EventTime)
	assert.Equal(t, models.Watermark(103), records[2].EventTime)

	// Live documents carry a snapshot and take its identity.
	require.NotNil(t, records[0].Item)
	assert.Equal(t, "doc-1", records[0].ItemID)
	assert.Equal(t, "item doc-1", records[0].ItemName)

	// The deleted document keeps the audit row's name and no snapshot,
	// but still identifies its item by document id.
	assert.Nil(t, records[2].Item)
	assert.Equal(t, models.EventDeleted, records[2].Event)
	assert.Equal(t, "doc-3", records[2].ItemID)
	assert.Equal(t, "three", records[2].ItemName)
}

func TestChangeFinder_OverflowIsNeverTruncated(t *testing.T) {
	// limit 2, three matching rows: the store returns limit+1 and the
	// finder must refuse the window instead of returning two of three.
	audit := &mockAuditRepository{
		selectChangesFn: func(_ context.Context, q models.ChangeQuery) ([]models.AuditEntry, error) {
			return []models.AuditEntry{
				{Seq: 1, EventTime: 101},
				{Seq: 2, EventTime: 102},
				{Seq: 3, EventTime: 103},
			}, nil
		},
	}

	finder := NewChangeFinder(audit, &mockResolver{}, nil, logger.Nop())

	records, err := finder.FindChanges(context.Background(), "default", rootsUnder("/ws"), nil, 100, 200, 2)
	require.ErrorIs(t, err, ErrTooManyChanges)
	assert.Nil(t, records)
}

func TestChangeFinder_ExactlyLimitIsNotOverflow(t *testing.T) {
	audit := &mockAuditRepository{
		selectChangesFn: func(_ context.Context, q models.ChangeQuery) ([]models.AuditEntry, error) {
			return []models.AuditEntry{
				{Seq: 1, EventTime: 101},
				{Seq: 2, EventTime: 102},
			}, nil
		},
	}

	finder := NewChangeFinder(audit, &mockResolver{}, nil, logger.Nop())

	records, err := finder.FindChanges(context.Background(), "default", rootsUnder("/ws"), nil, 100, 200, 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestChangeFinder_EmptyScopeSkipsQuery(t *testing.T) {
	queried := false
	audit := &mockAuditRepository{
		selectChangesFn: func(_ context.Context, _ models.ChangeQuery) ([]models.AuditEntry, error) {
			queried = true
			return nil, nil
		},
	}

	finder := NewChangeFinder(audit, &mockResolver{}, nil, logger.Nop())

	records, err := finder.FindChanges(context.Background(), "default", models.SyncRootSet{}, nil, 0, 200, 10)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.False(t, queried, "no roots and no collections must not touch the store")
}

func TestChangeFinder_StoreErrorPropagates(t *testing.T) {
	storeErr := errors.New("connection refused")
	audit := &mockAuditRepository{
		selectChangesFn: func(_ context.Context, _ models.ChangeQuery) ([]models.AuditEntry, error) {
			return nil, storeErr
		},
	}

	finder := NewChangeFinder(audit, &mockResolver{}, nil, logger.Nop())

	_, err := finder.FindChanges(context.Background(), "default", rootsUnder("/ws"), nil, 0, 200, 10)
	require.ErrorIs(t, err, storeErr)
}

func TestChangeFinder_CollectionScopeWithoutRoots(t *testing.T) {
	var captured models.ChangeQuery
	audit := &mockAuditRepository{
		selectChangesFn: func(_ context.Context, q models.ChangeQuery) ([]models.AuditEntry, error) {
			captured = q
			return nil, nil
		},
	}

	finder := NewChangeFinder(audit, &mockResolver{}, nil, logger.Nop())

	_, err := finder.FindChanges(context.Background(), "default", models.SyncRootSet{}, []string{"col-1"}, 0, 200, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"col-1"}, captured.CollectionIDs)
}

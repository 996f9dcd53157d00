package http

import (
	"context"
	"time"

	"github.com/nuxeo/drive-sync/internal/logger"
	"github.com/nuxeo/drive-sync/internal/service"
	"github.com/nuxeo/drive-sync/models"
)

// ─────────────────────────────────────────────
// Mock: service.SummaryAggregator
// ─────────────────────────────────────────────

type mockSummaryAggregator struct {
	summaryFn func(ctx context.Context, user string, lastRootRefs map[models.RepoName][]models.RootID, lowerBounds map[models.RepoName]models.Watermark) (models.ChangeSummary, error)
}

func (m *mockSummaryAggregator) Summary(ctx context.Context, user string, lastRootRefs map[models.RepoName][]models.RootID, lowerBounds map[models.RepoName]models.Watermark) (models.ChangeSummary, error) {
	if m.summaryFn != nil {
		return m.summaryFn(ctx, user, lastRootRefs, lowerBounds)
	}
	return models.ChangeSummary{}, nil
}

// ─────────────────────────────────────────────
// Mock: service.RootRegistry
// ─────────────────────────────────────────────

type mockRootRegistry struct {
	registerFn        func(ctx context.Context, user, containerID string) (models.SyncRootSet, error)
	unregisterFn      func(ctx context.Context, user, containerID string) error
	purgeRootsUnderFn func(ctx context.Context, path string) error
	invalidateFn      func(user string)
	invalidateAllFn   func()
}

func (m *mockRootRegistry) RegisteredRoots(context.Context, string) (map[models.RepoName]models.SyncRootSet, error) {
	return nil, nil
}

func (m *mockRootRegistry) Register(ctx context.Context, user, containerID string) (models.SyncRootSet, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, user, containerID)
	}
	return models.SyncRootSet{}, nil
}

func (m *mockRootRegistry) Unregister(ctx context.Context, user, containerID string) error {
	if m.unregisterFn != nil {
		return m.unregisterFn(ctx, user, containerID)
	}
	return nil
}

func (m *mockRootRegistry) PurgeRootsUnder(ctx context.Context, path string) error {
	if m.purgeRootsUnderFn != nil {
		return m.purgeRootsUnderFn(ctx, path)
	}
	return nil
}

func (m *mockRootRegistry) Invalidate(user string) {
	if m.invalidateFn != nil {
		m.invalidateFn(user)
	}
}

func (m *mockRootRegistry) InvalidateAll() {
	if m.invalidateAllFn != nil {
		m.invalidateAllFn()
	}
}

// ─────────────────────────────────────────────
// Mock: service.ScrollManager
// ─────────────────────────────────────────────

type mockScrollManager struct {
	scrollFn func(ctx context.Context, folderID, principal, cursorToken string, batchSize int, keepAlive time.Duration) (models.ScrollBatch, error)
}

func (m *mockScrollManager) Scroll(ctx context.Context, folderID, principal, cursorToken string, batchSize int, keepAlive time.Duration) (models.ScrollBatch, error) {
	if m.scrollFn != nil {
		return m.scrollFn(ctx, folderID, principal, cursorToken, batchSize, keepAlive)
	}
	return models.ScrollBatch{}, nil
}

func (m *mockScrollManager) Close() {}

func newTestHandler(services *service.Services) *Handler {
	return NewHandler(services, logger.Nop())
}

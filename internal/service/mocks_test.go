package service

import (
	"context"
	"time"

	"github.com/nuxeo/drive-sync/models"
)

// ─────────────────────────────────────────────
// Mock: store.AuditRepository
// ─────────────────────────────────────────────

type mockAuditRepository struct {
	selectChangesFn func(ctx context.Context, q models.ChangeQuery) ([]models.AuditEntry, error)
	insertEntriesFn func(ctx context.Context, entries ...*models.AuditEntry) error
}

func (m *mockAuditRepository) SelectChanges(ctx context.Context, q models.ChangeQuery) ([]models.AuditEntry, error) {
	if m.selectChangesFn != nil {
		return m.selectChangesFn(ctx, q)
	}
	return nil, nil
}

func (m *mockAuditRepository) InsertEntries(ctx context.Context, entries ...*models.AuditEntry) error {
	if m.insertEntriesFn != nil {
		return m.insertEntriesFn(ctx, entries...)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: store.RootsRepository
// ─────────────────────────────────────────────

type mockRootsRepository struct {
	selectRootsFn      func(ctx context.Context, user string) (map[models.RepoName]models.SyncRootSet, error)
	insertRootFn       func(ctx context.Context, user string, repo models.RepoName, rootID models.RootID, rootPath string) error
	deleteRootFn       func(ctx context.Context, user string, repo models.RepoName, rootID models.RootID) error
	deleteRootsUnderFn func(ctx context.Context, path string) error
}

func (m *mockRootsRepository) SelectRoots(ctx context.Context, user string) (map[models.RepoName]models.SyncRootSet, error) {
	if m.selectRootsFn != nil {
		return m.selectRootsFn(ctx, user)
	}
	return nil, nil
}

func (m *mockRootsRepository) InsertRoot(ctx context.Context, user string, repo models.RepoName, rootID models.RootID, rootPath string) error {
	if m.insertRootFn != nil {
		return m.insertRootFn(ctx, user, repo, rootID, rootPath)
	}
	return nil
}

func (m *mockRootsRepository) DeleteRoot(ctx context.Context, user string, repo models.RepoName, rootID models.RootID) error {
	if m.deleteRootFn != nil {
		return m.deleteRootFn(ctx, user, repo, rootID)
	}
	return nil
}

func (m *mockRootsRepository) DeleteRootsUnder(ctx context.Context, path string) error {
	if m.deleteRootsUnderFn != nil {
		return m.deleteRootsUnderFn(ctx, path)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: store.DocsRepository
// ─────────────────────────────────────────────

type mockDocsRepository struct {
	getDocFn             func(ctx context.Context, id string) (models.Doc, error)
	selectDescendantsFn  func(ctx context.Context, repo models.RepoName, folderPath, afterID string, limit int) ([]models.Doc, error)
	hasWritePermissionFn func(ctx context.Context, principal, docID string) (bool, error)
}

func (m *mockDocsRepository) GetDoc(ctx context.Context, id string) (models.Doc, error) {
	if m.getDocFn != nil {
		return m.getDocFn(ctx, id)
	}
	return models.Doc{ID: id}, nil
}

func (m *mockDocsRepository) SelectDescendants(ctx context.Context, repo models.RepoName, folderPath, afterID string, limit int) ([]models.Doc, error) {
	if m.selectDescendantsFn != nil {
		return m.selectDescendantsFn(ctx, repo, folderPath, afterID, limit)
	}
	return nil, nil
}

func (m *mockDocsRepository) HasWritePermission(ctx context.Context, principal, docID string) (bool, error) {
	if m.hasWritePermissionFn != nil {
		return m.hasWritePermissionFn(ctx, principal, docID)
	}
	return true, nil
}

// ─────────────────────────────────────────────
// Mock: adapter.Resolver
// ─────────────────────────────────────────────

type mockResolver struct {
	resolveFn func(ctx context.Context, docID string) (*models.ItemSnapshot, error)
}

func (m *mockResolver) ResolveChangeToItem(ctx context.Context, docID string) (*models.ItemSnapshot, error) {
	if m.resolveFn != nil {
		return m.resolveFn(ctx, docID)
	}
	return &models.ItemSnapshot{ID: docID, Name: docID}, nil
}

func (m *mockResolver) AdaptDoc(doc models.Doc) (models.ItemSnapshot, bool) {
	return models.ItemSnapshot{
		ID:        doc.ID,
		Name:      doc.Name,
		Path:      doc.Path,
		ParentID:  doc.ParentID,
		Folderish: doc.Folderish,
	}, true
}

func (m *mockResolver) IsAdaptable(models.Doc) bool { return true }

// ─────────────────────────────────────────────
// Mock: ChangeFinder
// ─────────────────────────────────────────────

type mockChangeFinder struct {
	findChangesFn        func(ctx context.Context, repo models.RepoName, roots models.SyncRootSet, collectionIDs []string, lower, upper models.Watermark, limit int) ([]models.ChangeRecord, error)
	currentUpperBoundsFn func(ctx context.Context, repos []models.RepoName) map[models.RepoName]models.Watermark
}

func (m *mockChangeFinder) FindChanges(ctx context.Context, repo models.RepoName, roots models.SyncRootSet, collectionIDs []string, lower, upper models.Watermark, limit int) ([]models.ChangeRecord, error) {
	if m.findChangesFn != nil {
		return m.findChangesFn(ctx, repo, roots, collectionIDs, lower, upper, limit)
	}
	return nil, nil
}

func (m *mockChangeFinder) CurrentUpperBounds(ctx context.Context, repos []models.RepoName) map[models.RepoName]models.Watermark {
	if m.currentUpperBoundsFn != nil {
		return m.currentUpperBoundsFn(ctx, repos)
	}
	bounds := make(map[models.RepoName]models.Watermark, len(repos))
	for _, repo := range repos {
		bounds[repo] = models.WatermarkFromTime(time.Now())
	}
	return bounds
}

// ─────────────────────────────────────────────
// Mock: RootRegistry
// ─────────────────────────────────────────────

type mockRootRegistry struct {
	registeredRootsFn func(ctx context.Context, user string) (map[models.RepoName]models.SyncRootSet, error)
}

func (m *mockRootRegistry) RegisteredRoots(ctx context.Context, user string) (map[models.RepoName]models.SyncRootSet, error) {
	if m.registeredRootsFn != nil {
		return m.registeredRootsFn(ctx, user)
	}
	return nil, nil
}

func (m *mockRootRegistry) Register(context.Context, string, string) (models.SyncRootSet, error) {
	return models.SyncRootSet{}, nil
}

func (m *mockRootRegistry) Unregister(context.Context, string, string) error { return nil }

func (m *mockRootRegistry) PurgeRootsUnder(context.Context, string) error { return nil }

func (m *mockRootRegistry) Invalidate(string) {}

func (m *mockRootRegistry) InvalidateAll() {}

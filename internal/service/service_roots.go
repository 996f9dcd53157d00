package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/nuxeo/drive-sync/internal/logger"
	"github.com/nuxeo/drive-sync/internal/store"
	"github.com/nuxeo/drive-sync/models"
)

// rootRegistry is the concrete implementation of RootRegistry.
//
// Root sets are cached per user under an RWMutex; cache misses are
// re-derived from the store, with concurrent misses for the same user
// collapsed into a single query through singleflight. Mutations write to
// the store first and invalidate the user's cache entry after, so a
// reader never observes a registration the store has not accepted.
//
// Each invalidation bumps the user's generation (InvalidateAll bumps a
// registry-wide epoch). The generation pair is part of the singleflight
// key and is re-checked before a query result is installed, so a query
// that was already in flight when a write committed can neither be
// joined by a read that starts after the invalidation nor install its
// pre-write snapshot into the cache.
type rootRegistry struct {
	roots store.RootsRepository
	docs  store.DocsRepository

	mu    sync.RWMutex
	cache map[string]map[models.RepoName]models.SyncRootSet
	gen   map[string]uint64
	epoch uint64
	group singleflight.Group

	logger *logger.Logger
}

// NewRootRegistry constructs a RootRegistry over the given repositories.
func NewRootRegistry(roots store.RootsRepository, docs store.DocsRepository, logger *logger.Logger) RootRegistry {
	return &rootRegistry{
		roots:  roots,
		docs:   docs,
		cache:  make(map[string]map[models.RepoName]models.SyncRootSet),
		gen:    make(map[string]uint64),
		logger: logger,
	}
}

func (r *rootRegistry) RegisteredRoots(ctx context.Context, user string) (map[models.RepoName]models.SyncRootSet, error) {
	r.mu.RLock()
	sets, ok := r.cache[user]
	gen, epoch := r.gen[user], r.epoch
	r.mu.RUnlock()
	if ok {
		return sets, nil
	}

	key := fmt.Sprintf("%s\x00%d\x00%d", user, gen, epoch)
	result, err, _ := r.group.Do(key, func() (any, error) {
		sets, err := r.roots.SelectRoots(ctx, user)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		if r.gen[user] == gen && r.epoch == epoch {
			r.cache[user] = sets
		}
		r.mu.Unlock()

		return sets, nil
	})
	if err != nil {
		return nil, fmt.Errorf("registered roots: %w", err)
	}

	return result.(map[models.RepoName]models.SyncRootSet), nil
}

func (r *rootRegistry) Register(ctx context.Context, user, containerID string) (models.SyncRootSet, error) {
	log := logger.FromContext(ctx)

	doc, err := r.checkWritePermission(ctx, user, containerID)
	if err != nil {
		return models.SyncRootSet{}, err
	}

	if err := r.roots.InsertRoot(ctx, user, doc.Repository, models.RootID(doc.ID), doc.Path); err != nil {
		return models.SyncRootSet{}, fmt.Errorf("register root: %w", err)
	}
	r.Invalidate(user)

	log.Info().
		Str("func", "rootRegistry.Register").
		Str("user", user).
		Str("root_id", doc.ID).
		Str("root_path", doc.Path).
		Msg("synchronization root registered")

	sets, err := r.RegisteredRoots(ctx, user)
	if err != nil {
		return models.SyncRootSet{}, err
	}

	return sets[doc.Repository], nil
}

func (r *rootRegistry) Unregister(ctx context.Context, user, containerID string) error {
	log := logger.FromContext(ctx)

	doc, err := r.checkWritePermission(ctx, user, containerID)
	if err != nil {
		return err
	}

	if err := r.roots.DeleteRoot(ctx, user, doc.Repository, models.RootID(doc.ID)); err != nil {
		return fmt.Errorf("unregister root: %w", err)
	}
	r.Invalidate(user)

	log.Info().
		Str("func", "rootRegistry.Unregister").
		Str("user", user).
		Str("root_id", doc.ID).
		Msg("synchronization root unregistered")

	return nil
}

func (r *rootRegistry) PurgeRootsUnder(ctx context.Context, path string) error {
	log := logger.FromContext(ctx)

	if err := r.roots.DeleteRootsUnder(ctx, path); err != nil {
		return fmt.Errorf("purge roots under %s: %w", path, err)
	}
	r.InvalidateAll()

	log.Info().
		Str("func", "rootRegistry.PurgeRootsUnder").
		Str("path", path).
		Msg("synchronization roots purged")

	return nil
}

func (r *rootRegistry) Invalidate(user string) {
	r.mu.Lock()
	delete(r.cache, user)
	r.gen[user]++
	r.mu.Unlock()
}

func (r *rootRegistry) InvalidateAll() {
	r.mu.Lock()
	r.cache = make(map[string]map[models.RepoName]models.SyncRootSet)
	r.epoch++
	r.mu.Unlock()
}

// checkWritePermission loads the container document and verifies the user
// may mutate it. The check runs before any registration change so an
// unauthorized request leaves the registry untouched.
func (r *rootRegistry) checkWritePermission(ctx context.Context, user, containerID string) (models.Doc, error) {
	doc, err := r.docs.GetDoc(ctx, containerID)
	if errors.Is(err, store.ErrDocNotFound) {
		return models.Doc{}, fmt.Errorf("%w: container %s", ErrUnauthorized, containerID)
	}
	if err != nil {
		return models.Doc{}, fmt.Errorf("load container: %w", err)
	}

	ok, err := r.docs.HasWritePermission(ctx, user, containerID)
	if err != nil {
		return models.Doc{}, fmt.Errorf("check write permission: %w", err)
	}
	if !ok {
		return models.Doc{}, fmt.Errorf("%w: container %s", ErrUnauthorized, containerID)
	}

	return doc, nil
}

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/nuxeo/drive-sync/internal/adapter"
	"github.com/nuxeo/drive-sync/internal/config"
	"github.com/nuxeo/drive-sync/internal/logger"
	"github.com/nuxeo/drive-sync/internal/store"
	"github.com/nuxeo/drive-sync/models"
)

// scrollCursor is the server-side state of one open enumeration. The
// identity fields are immutable after open; the mutable fields are
// guarded by the manager's mutex. released flips to true at most once,
// so every concurrency permit acquired at open time is returned exactly
// once no matter which exit path retires the cursor. fetchMu serializes
// batch loads on one cursor, so two calls presenting the same token
// cannot read the same keyset position and deliver a duplicate batch.
type scrollCursor struct {
	folderID   string
	folderPath string
	repository models.RepoName
	principal  string
	keepAlive  time.Duration

	fetchMu sync.Mutex

	afterID    string
	lastAccess time.Time
	released   bool
}

// scrollManager is the concrete implementation of ScrollManager.
//
// Concurrency is bounded with a weighted semaphore sized to the
// configured cap; TryAcquire keeps admission non-blocking so callers get
// immediate backpressure instead of queueing. Cursor expiry is enforced
// both lazily on access and by a background sweeper, so an abandoned
// enumeration cannot hold its permit past the keep-alive window plus one
// sweep interval.
type scrollManager struct {
	docs     store.DocsRepository
	resolver adapter.Resolver
	cfg      config.Scroll
	sem      *semaphore.Weighted
	now      func() time.Time

	mu      sync.Mutex
	cursors map[string]*scrollCursor

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	logger *logger.Logger
}

// NewScrollManager constructs a ScrollManager and starts its expiry
// sweeper. Callers own the returned manager's lifecycle and must Close it
// on shutdown.
func NewScrollManager(docs store.DocsRepository, resolver adapter.Resolver, cfg config.Scroll, logger *logger.Logger) ScrollManager {
	m := newScrollManager(docs, resolver, cfg, time.Now, logger)
	go m.sweep()
	return m
}

func newScrollManager(docs store.DocsRepository, resolver adapter.Resolver, cfg config.Scroll, now func() time.Time, logger *logger.Logger) *scrollManager {
	return &scrollManager{
		docs:     docs,
		resolver: resolver,
		cfg:      cfg,
		sem:      semaphore.NewWeighted(cfg.MaxConcurrent),
		now:      now,
		cursors:  make(map[string]*scrollCursor),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger,
	}
}

func (m *scrollManager) Scroll(ctx context.Context, folderID, principal, cursorToken string, batchSize int, keepAlive time.Duration) (models.ScrollBatch, error) {
	if batchSize <= 0 || batchSize > m.cfg.MaxBatchSize {
		batchSize = m.cfg.MaxBatchSize
	}
	if keepAlive <= 0 {
		keepAlive = m.cfg.DefaultKeepAlive
	}

	if cursorToken == "" {
		return m.open(ctx, folderID, principal, batchSize, keepAlive)
	}
	return m.next(ctx, cursorToken, principal, batchSize)
}

func (m *scrollManager) open(ctx context.Context, folderID, principal string, batchSize int, keepAlive time.Duration) (models.ScrollBatch, error) {
	log := logger.FromContext(ctx)

	if !m.sem.TryAcquire(1) {
		log.Info().
			Str("func", "scrollManager.open").
			Str("principal", principal).
			Int64("max_concurrent", m.cfg.MaxConcurrent).
			Msg("scroll concurrency cap reached")
		return models.ScrollBatch{}, ErrTooManyConcurrentScrolls
	}

	folder, err := m.docs.GetDoc(ctx, folderID)
	if err != nil {
		m.sem.Release(1)
		return models.ScrollBatch{}, fmt.Errorf("open scroll: %w", err)
	}

	token := uuid.NewString()
	cursor := &scrollCursor{
		folderID:   folderID,
		folderPath: folder.Path,
		repository: folder.Repository,
		principal:  principal,
		keepAlive:  keepAlive,
		lastAccess: m.now(),
	}

	m.mu.Lock()
	m.cursors[token] = cursor
	m.mu.Unlock()

	return m.fetch(ctx, token, cursor, batchSize)
}

func (m *scrollManager) next(ctx context.Context, token, principal string, batchSize int) (models.ScrollBatch, error) {
	m.mu.Lock()
	cursor, ok := m.cursors[token]
	// A foreign principal and an expired cursor answer exactly like a
	// token that never existed.
	if ok && cursor.principal != principal {
		ok = false
		cursor = nil
	}
	if cursor != nil && m.now().Sub(cursor.lastAccess) > cursor.keepAlive {
		m.retireLocked(token, cursor)
		ok = false
		cursor = nil
	}
	if cursor != nil {
		cursor.lastAccess = m.now()
	}
	m.mu.Unlock()

	if !ok {
		return models.ScrollBatch{}, ErrUnknownCursor
	}

	return m.fetch(ctx, token, cursor, batchSize)
}

// fetch loads the next batch of descendants through the cursor's keyset
// position. Enumeration order is the store's id order and carries no
// user-visible meaning; documents mutated mid-enumeration may appear in
// their old or new state.
func (m *scrollManager) fetch(ctx context.Context, token string, cursor *scrollCursor, batchSize int) (models.ScrollBatch, error) {
	cursor.fetchMu.Lock()
	defer cursor.fetchMu.Unlock()

	m.mu.Lock()
	afterID := cursor.afterID
	m.mu.Unlock()

	docs, err := m.docs.SelectDescendants(ctx, cursor.repository, cursor.folderPath, afterID, batchSize)
	if err != nil {
		m.retire(token, cursor)
		return models.ScrollBatch{}, fmt.Errorf("scroll fetch: %w", err)
	}

	items := make([]models.ItemSnapshot, 0, len(docs))
	for _, doc := range docs {
		item, ok := m.resolver.AdaptDoc(doc)
		if !ok {
			continue
		}
		items = append(items, item)
	}

	if len(docs) < batchSize {
		m.retire(token, cursor)
		return models.ScrollBatch{Items: items}, nil
	}

	m.mu.Lock()
	cursor.afterID = docs[len(docs)-1].ID
	m.mu.Unlock()

	return models.ScrollBatch{Items: items, NextCursor: token}, nil
}

func (m *scrollManager) Close() {
	m.closeOnce.Do(func() {
		close(m.stop)
		<-m.done

		m.mu.Lock()
		for token, cursor := range m.cursors {
			m.retireLocked(token, cursor)
		}
		m.mu.Unlock()
	})
}

// sweep retires expired cursors in the background so an abandoned
// enumeration frees its permit without waiting for the next access.
func (m *scrollManager) sweep() {
	defer close(m.done)

	ticker := time.NewTicker(m.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			now := m.now()

			m.mu.Lock()
			for token, cursor := range m.cursors {
				if now.Sub(cursor.lastAccess) > cursor.keepAlive {
					m.logger.Debug().
						Str("func", "scrollManager.sweep").
						Str("principal", cursor.principal).
						Str("folder_id", cursor.folderID).
						Msg("expired scroll cursor retired")
					m.retireLocked(token, cursor)
				}
			}
			m.mu.Unlock()
		}
	}
}

func (m *scrollManager) retire(token string, cursor *scrollCursor) {
	m.mu.Lock()
	m.retireLocked(token, cursor)
	m.mu.Unlock()
}

func (m *scrollManager) retireLocked(token string, cursor *scrollCursor) {
	if cursor.released {
		return
	}
	cursor.released = true
	delete(m.cursors, token)
	m.sem.Release(1)
}

package adapter

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nuxeo/drive-sync/internal/logger"
	"github.com/nuxeo/drive-sync/internal/store"
	"github.com/nuxeo/drive-sync/models"
)

// resolver is the default [Resolver] implementation. Strategies are
// consulted in registration order; the first one whose CanAdapt accepts
// a document wins and is memoized for that document's backend type.
type resolver struct {
	docs       store.DocsRepository
	strategies []Strategy
	logger     *logger.Logger

	mu    sync.RWMutex
	cache map[string]Strategy // doc type -> winning strategy, nil if none
}

// NewResolver constructs a [Resolver] with the standard strategy chain:
// folders first, then plain files. Additional strategies can be appended
// via extra; they are consulted after the standard chain.
func NewResolver(docs store.DocsRepository, log *logger.Logger, extra ...Strategy) Resolver {
	strategies := append([]Strategy{folderStrategy{}, fileStrategy{}}, extra...)
	return &resolver{
		docs:       docs,
		strategies: strategies,
		logger:     log,
		cache:      make(map[string]Strategy),
	}
}

func (r *resolver) ResolveChangeToItem(ctx context.Context, docID string) (*models.ItemSnapshot, error) {
	log := logger.FromContext(ctx)

	doc, err := r.docs.GetDoc(ctx, docID)
	if errors.Is(err, store.ErrDocNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve change to item: %w", err)
	}

	strategy := r.strategyFor(doc)
	if strategy == nil {
		log.Debug().
			Str("func", "resolver.ResolveChangeToItem").
			Str("doc_id", docID).
			Str("doc_type", doc.Type).
			Msg("no strategy adapts document type")
		return nil, nil
	}

	item := strategy.Adapt(doc)
	return &item, nil
}

func (r *resolver) AdaptDoc(doc models.Doc) (models.ItemSnapshot, bool) {
	strategy := r.strategyFor(doc)
	if strategy == nil {
		return models.ItemSnapshot{}, false
	}
	return strategy.Adapt(doc), true
}

func (r *resolver) IsAdaptable(doc models.Doc) bool {
	return r.strategyFor(doc) != nil
}

// strategyFor returns the memoized strategy for doc's backend type,
// scanning the chain on first sight of a type. A type no strategy
// accepts is memoized as nil so the scan is not repeated.
func (r *resolver) strategyFor(doc models.Doc) Strategy {
	r.mu.RLock()
	strategy, ok := r.cache[doc.Type]
	r.mu.RUnlock()
	if ok {
		return strategy
	}

	for _, candidate := range r.strategies {
		if candidate.CanAdapt(doc) {
			strategy = candidate
			break
		}
	}

	r.mu.Lock()
	r.cache[doc.Type] = strategy
	r.mu.Unlock()

	return strategy
}

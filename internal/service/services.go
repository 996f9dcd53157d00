package service

import (
	"github.com/nuxeo/drive-sync/internal/adapter"
	"github.com/nuxeo/drive-sync/internal/config"
	"github.com/nuxeo/drive-sync/internal/logger"
	"github.com/nuxeo/drive-sync/internal/store"
)

// Services bundles the synchronization engine's components for injection
// into the handler layer.
type Services struct {
	Clock   WatermarkClock
	Finder  ChangeFinder
	Roots   RootRegistry
	Summary SummaryAggregator
	Scroll  ScrollManager
}

// NewServices wires the engine: the clock feeds the finder, the finder
// and registry feed the aggregator, and the scroll manager runs on its
// own against the documents store.
func NewServices(stores *store.Stores, resolver adapter.Resolver, cfg *config.StructuredConfig, logger *logger.Logger) *Services {
	clock := NewWatermarkClock(cfg.Sync, logger)
	finder := NewChangeFinder(stores.Audit, resolver, clock, logger)
	roots := NewRootRegistry(stores.Roots, stores.Docs, logger)

	return &Services{
		Clock:   clock,
		Finder:  finder,
		Roots:   roots,
		Summary: NewSummaryAggregator(finder, roots, resolver, cfg.Sync, logger),
		Scroll:  NewScrollManager(stores.Docs, resolver, cfg.Scroll, logger),
	}
}

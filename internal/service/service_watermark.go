package service

import (
	"context"
	"sync"
	"time"

	"github.com/nuxeo/drive-sync/internal/config"
	"github.com/nuxeo/drive-sync/internal/logger"
	"github.com/nuxeo/drive-sync/models"
)

// watermarkClock is the concrete implementation of WatermarkClock.
//
// The upper bound of a poll is "now", pulled back by the clustering delay
// when the repository is served by more than one backend node. A
// per-repository floor keeps the bound non-decreasing even if the wall
// clock steps backwards between polls.
type watermarkClock struct {
	cfg config.Sync
	now func() time.Time

	mu    sync.Mutex
	floor map[models.RepoName]models.Watermark

	logger *logger.Logger
}

// NewWatermarkClock constructs a WatermarkClock reading the wall clock.
func NewWatermarkClock(cfg config.Sync, logger *logger.Logger) WatermarkClock {
	return newWatermarkClock(cfg, time.Now, logger)
}

func newWatermarkClock(cfg config.Sync, now func() time.Time, logger *logger.Logger) *watermarkClock {
	return &watermarkClock{
		cfg:    cfg,
		now:    now,
		floor:  make(map[models.RepoName]models.Watermark),
		logger: logger,
	}
}

func (c *watermarkClock) UpperBounds(_ context.Context, repos []models.RepoName) map[models.RepoName]models.Watermark {
	upper := models.WatermarkFromTime(c.now())
	if c.cfg.ClusteringEnabled {
		upper -= models.Watermark(c.cfg.ClusteringDelay.Milliseconds())
	}

	bounds := make(map[models.RepoName]models.Watermark, len(repos))

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, repo := range repos {
		bound := upper
		if floor := c.floor[repo]; floor > bound {
			bound = floor
		}
		c.floor[repo] = bound
		bounds[repo] = bound
	}

	return bounds
}

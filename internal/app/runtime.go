package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yourusername/audio-extract-go/internal/domain"
	"github.com/yourusername/audio-extract-go/internal/infrastructure"
	"go.uber.org/zap"
)

// Runtime owns the infrastructure behind an ExtractionService
type Runtime struct {
	Config    *domain.Config
	Service   *ExtractionService
	Extractor *infrastructure.YTDLPExtractor

	repo  *infrastructure.SQLiteJobRepository
	cache *infrastructure.RedisInfoCache
	log   *zap.Logger
}

// NewRuntime wires extractor, history, cache and notifications from config.
// An unreachable cache is logged and skipped; every other failure is returned.
// events may be nil.
func NewRuntime(ctx context.Context, config *domain.Config, log *zap.Logger, events EventLogger) (*Runtime, error) {
	if log == nil {
		log = zap.NewNop()
	}

	extractor, err := infrastructure.NewYTDLPExtractor(&config.Extract, nil, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize extractor: %w", err)
	}

	rt := &Runtime{Config: config, Extractor: extractor, log: log}

	var repo domain.JobRepository
	if config.History.Enabled {
		if err := os.MkdirAll(filepath.Dir(config.History.DatabasePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
		rt.repo, err = infrastructure.NewSQLiteJobRepository(config.History.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize history: %w", err)
		}
		repo = rt.repo
	}

	var cache domain.InfoCache
	if config.Cache.Enabled {
		rt.cache, err = infrastructure.NewRedisInfoCache(ctx, &config.Cache)
		if err != nil {
			log.Warn("Metadata cache disabled", zap.Error(err))
		} else {
			cache = rt.cache
		}
	}

	notifier := infrastructure.NewNotificationService(&config.Notification, log)

	rt.Service = NewExtractionService(extractor, repo, cache, notifier, events, &config.Extract, log)

	log.Debug("Runtime ready",
		zap.String("tool", extractor.ToolPath()),
		zap.Bool("history", repo != nil),
		zap.Bool("cache", cache != nil))

	return rt, nil
}

// Close releases the history database and cache connection
func (rt *Runtime) Close() error {
	var lastErr error
	if rt.cache != nil {
		if err := rt.cache.Close(); err != nil {
			lastErr = err
		}
	}
	if rt.repo != nil {
		if err := rt.repo.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

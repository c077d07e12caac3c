package backend

import (
	"context"
	"fmt"

	"masrofi/internal/cache"
	"masrofi/internal/log"
	"masrofi/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.ForComponent(log.ComponentStorage)
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		raw storage.Backend
		err error
	)
	switch config.Type {
	case SQLiteBackend:
		raw, err = storage.NewSQLiteBackend(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite backend: %w", err)
		}
		f.logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	case MemoryBackend:
		raw = storage.NewMemoryBackend()
		f.logger.InfoContext(ctx, "Initialized memory backend")
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	return f.wrap(raw, config), nil
}

// wrap puts the read cache in front of raw when it is enabled.
func (f *DefaultFactory) wrap(raw storage.Backend, config Config) *BackendResult {
	if config.CacheSize == 0 {
		return &BackendResult{
			Store:   storage.New(raw),
			Cleanup: raw.Close,
		}
	}

	cached := storage.NewCachedBackend(raw, config.CacheSize, config.CacheTTL)
	caches := cache.NewManager()
	caches.Register(cached.Cleaner())
	if config.CacheCleanupInterval > 0 {
		caches.StartCleanup(config.CacheCleanupInterval)
	}
	f.logger.Info("Read cache enabled", "size", config.CacheSize, "ttl", config.CacheTTL.String())

	return &BackendResult{
		Store:  storage.New(cached),
		Caches: caches,
		Cleanup: func() error {
			caches.Stop()
			return cached.Close()
		},
	}
}

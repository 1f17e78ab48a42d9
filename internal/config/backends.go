package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/matzehuels/taskorder/pkg/cache"
	"github.com/matzehuels/taskorder/pkg/store"
)

// CacheDir returns the file cache directory: Cache.Dir if set, otherwise
// $XDG_CACHE_HOME/taskorder or ~/.cache/taskorder.
func (c CacheConfig) CacheDir() (string, error) {
	if c.Dir != "" {
		return c.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// OpenCache creates the configured cache backend. The file backend lives on
// fsys; a nil fsys uses the OS filesystem.
func (c CacheConfig) OpenCache(ctx context.Context, fsys afero.Fs) (cache.Cache, error) {
	switch c.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "file":
		dir, err := c.CacheDir()
		if err != nil {
			return nil, fmt.Errorf("get cache dir: %w", err)
		}
		if fsys == nil {
			fsys = afero.NewOsFs()
		}
		fc, err := cache.NewFileCacheFs(fsys, dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		})
	}
	return nil, fmt.Errorf("unknown cache backend %q", c.Backend)
}

// OpenStore creates the configured schedule history backend.
func (s StoreConfig) OpenStore(ctx context.Context) (store.Store, error) {
	switch s.Backend {
	case "none":
		return store.NewNullStore(), nil
	case "memory":
		return store.NewMemoryStoreWithProjects(s.HistoryLimit, s.ProjectLimit), nil
	case "mongo":
		return store.NewMongoStore(ctx, store.MongoOptions{
			URI:        s.MongoURI,
			Database:   s.Database,
			Collection: s.Collection,
		})
	}
	return nil, fmt.Errorf("unknown store backend %q", s.Backend)
}

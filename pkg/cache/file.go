package cache

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

const (
	entryExt = ".json"
	tmpExt   = ".tmp"
)

// FileCache keeps one JSON file per key under dir, sharded into
// subdirectories by the first byte of the key hash. Writes go to a temp file
// that is renamed into place, so concurrent CLI runs never read a partial
// entry.
type FileCache struct {
	fs  afero.Fs
	dir string
	now func() time.Time
}

// NewFileCache creates a cache in dir on the OS filesystem, creating dir if
// needed.
func NewFileCache(dir string) (Cache, error) {
	return NewFileCacheFs(afero.NewOsFs(), dir)
}

// NewFileCacheFs is NewFileCache on fsys.
func NewFileCacheFs(fsys afero.Fs, dir string) (*FileCache, error) {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{fs: fsys, dir: dir, now: time.Now}, nil
}

// fileEntry is the on-disk format. Key is kept so a hash collision on the
// file name reads as a miss.
type fileEntry struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

func (e *fileEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	e, err := c.read(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		_ = c.fs.Remove(path)
		return nil, false, nil
	}
	if e.Key != key {
		return nil, false, nil
	}
	if e.expired(c.now()) {
		_ = c.fs.Remove(path)
		return nil, false, nil
	}
	return e.Data, true, nil
}

func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	now := c.now()
	e := fileEntry{Key: key, Data: data, CreatedAt: now}
	if ttl > 0 {
		e.ExpiresAt = now.Add(ttl)
	}
	buf, err := json.Marshal(e)
	if err != nil {
		return err
	}

	path := c.path(key)
	shard := filepath.Dir(path)
	if err := c.fs.MkdirAll(shard, 0o755); err != nil {
		return err
	}

	tmp, err := afero.TempFile(c.fs, shard, ".entry-*"+tmpExt)
	if err != nil {
		return err
	}
	_, werr := tmp.Write(buf)
	cerr := tmp.Close()
	if err := stderrors.Join(werr, cerr); err != nil {
		_ = c.fs.Remove(tmp.Name())
		return err
	}
	if err := c.fs.Rename(tmp.Name(), path); err != nil {
		_ = c.fs.Remove(tmp.Name())
		return err
	}
	return nil
}

func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := c.fs.Remove(c.path(key))
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Prune removes expired and unreadable entries and leftover temp files. It
// returns the number of files removed.
func (c *FileCache) Prune(ctx context.Context) (int, error) {
	now := c.now()
	removed := 0
	err := afero.Walk(c.fs, c.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if info.IsDir() {
			return nil
		}

		stale := strings.HasSuffix(path, tmpExt)
		if strings.HasSuffix(path, entryExt) {
			e, err := c.read(path)
			stale = err != nil || e.expired(now)
		}
		if stale && c.fs.Remove(path) == nil {
			removed++
		}
		return nil
	})
	return removed, err
}

func (c *FileCache) Close() error { return nil }

// Dir returns the directory holding cache entries.
func (c *FileCache) Dir() string { return c.dir }

func (c *FileCache) read(path string) (*fileEntry, error) {
	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return nil, err
	}
	var e fileEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *FileCache) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(c.dir, hash[:2], hash[2:]+entryExt)
}

var _ Cache = (*FileCache)(nil)

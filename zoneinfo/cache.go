package zoneinfo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/golang-lru/arc/v2"
	"go.uber.org/zap"

	"github.com/ngrash/go-tzinfo/tzinfo"
)

// DefaultCacheSize is the number of zones kept by a Cache when no size is given.
const DefaultCacheSize = 64

// Cache keeps recently used zones of a Dir in memory.
// It is safe for concurrent use.
type Cache struct {
	dir   Dir
	zones *arc.ARCCache[string, *tzinfo.TzInfo]
	log   *zap.Logger

	// gen is bumped by every eviction. A load that started before an
	// eviction is not added to the cache.
	mu  sync.Mutex
	gen uint64
}

// NewCache returns a cache holding up to size parsed zones of dir.
func NewCache(dir Dir, size int, opts ...Option) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	zones, err := arc.NewARC[string, *tzinfo.TzInfo](size)
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}
	o := newOptions(opts)
	return &Cache{dir: dir, zones: zones, log: o.log}, nil
}

// Dir returns the directory the cache reads from.
func (c *Cache) Dir() Dir {
	return c.dir
}

// Get returns the zone name, loading it on a miss.
func (c *Cache) Get(name string) (*tzinfo.TzInfo, error) {
	if z, ok := c.zones.Get(name); ok {
		return z, nil
	}
	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()

	z, err := c.dir.Load(name)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen == gen {
		c.zones.Add(name, z)
	}
	return z, nil
}

// Invalidate removes the zone name from the cache.
func (c *Cache) Invalidate(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.zones.Remove(name)
}

// invalidatePrefix removes the zone name and all zones below it.
func (c *Cache) invalidatePrefix(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.zones.Remove(name)
	prefix := name + "/"
	for _, k := range c.zones.Keys() {
		if strings.HasPrefix(k, prefix) {
			c.zones.Remove(k)
		}
	}
}

// Purge removes all zones from the cache.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.zones.Purge()
}

// Len returns the number of cached zones.
func (c *Cache) Len() int {
	return c.zones.Len()
}

// Watch evicts zones from the cache when their files change on disk.
// It watches the directory root and all of its subdirectories; the
// watch runs in the background until ctx is done.
func (c *Cache) Watch(ctx context.Context) error {
	root := c.dir.Root()
	if root == "" {
		return errors.New("watch: directory has no root on the local filesystem")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	err = filepath.WalkDir(root, func(path string, e fs.DirEntry, err error) error {
		if err != nil || !e.IsDir() {
			return nil
		}
		return w.Add(path)
	})
	if err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", root, err)
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				c.handle(w, ev)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				c.log.Warn("zoneinfo watch error", zap.Error(err))
			}
		}
	}()
	return nil
}

func (c *Cache) handle(w *fsnotify.Watcher, ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return
	}
	rel, err := filepath.Rel(c.dir.Root(), ev.Name)
	if err != nil {
		return
	}
	name := filepath.ToSlash(rel)
	c.log.Debug("zone file changed", zap.String("zone", name), zap.Stringer("op", ev.Op))
	c.invalidatePrefix(name)

	if ev.Has(fsnotify.Create) {
		// New subdirectories need their own watch.
		if info, err := fs.Stat(c.dir.FS(), name); err == nil && info.IsDir() {
			if err := w.Add(ev.Name); err != nil {
				c.log.Warn("cannot watch new directory", zap.String("path", ev.Name), zap.Error(err))
			}
		}
	}
}

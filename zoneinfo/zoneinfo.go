// Package zoneinfo reads TZif files from a zoneinfo directory such as
// /usr/share/zoneinfo.
//
// The directory is located once with Locate and passed around as a Dir
// value; the package keeps no global state.
package zoneinfo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ngrash/go-tzinfo/tzinfo"
)

var (
	// ErrNotFound is returned by Locate when none of the candidate
	// directories exists.
	ErrNotFound = errors.New("zoneinfo files not found")
	// ErrInvalidName is returned for zone names that are not valid
	// slash-separated paths below the zoneinfo root.
	ErrInvalidName = errors.New("invalid zone name")
)

// DefaultSearchPaths are the directories probed by Locate when no
// candidates are given. Many systems use /usr/share/zoneinfo, Solaris 2
// has /usr/share/lib/zoneinfo.
var DefaultSearchPaths = []string{
	"/usr/share/zoneinfo",
	"/usr/lib/zoneinfo",
	"/usr/share/lib/zoneinfo",
	"/etc/zoneinfo",
}

// Option configures a Dir or a Cache.
type Option func(*options)

type options struct {
	log *zap.Logger
}

// WithLogger sets the logger. The default logger discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Dir is a zoneinfo directory.
type Dir struct {
	root string
	fsys fs.FS
	log  *zap.Logger
}

// Locate returns the first of paths that exists and is a directory.
// DefaultSearchPaths are probed if paths is empty.
func Locate(paths []string, opts ...Option) (Dir, error) {
	if len(paths) == 0 {
		paths = DefaultSearchPaths
	}
	o := newOptions(opts)
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			o.log.Debug("skipping zoneinfo candidate", zap.String("path", p), zap.Error(err))
			continue
		}
		if !info.IsDir() {
			o.log.Debug("skipping zoneinfo candidate: not a directory", zap.String("path", p))
			continue
		}
		o.log.Debug("located zoneinfo directory", zap.String("path", p))
		return Open(p, opts...), nil
	}
	return Dir{}, fmt.Errorf("%w: tried %v", ErrNotFound, paths)
}

// Open returns the zoneinfo directory at root without checking that it exists.
func Open(root string, opts ...Option) Dir {
	return NewDir(root, os.DirFS(root), opts...)
}

// NewDir returns a zoneinfo directory backed by fsys. The root is only
// used for reporting and for watching changes.
func NewDir(root string, fsys fs.FS, opts ...Option) Dir {
	o := newOptions(opts)
	return Dir{root: root, fsys: fsys, log: o.log}
}

// Root returns the path of the directory.
func (d Dir) Root() string {
	return d.root
}

// FS returns the file system of the directory.
func (d Dir) FS() fs.FS {
	return d.fsys
}

// ReadFile returns the content of the zone file name, e.g. "America/New_York".
func (d Dir) ReadFile(name string) ([]byte, error) {
	if !fs.ValidPath(name) || name == "." {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	b, err := fs.ReadFile(d.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("reading zone %s: %w", name, err)
	}
	return b, nil
}

// ReadFileContext is like ReadFile but returns early with the context's
// error when ctx is done before the read completes.
func (d Dir) ReadFileContext(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	type result struct {
		b   []byte
		err error
	}
	ch := make(chan result, 1)
	go func() {
		b, err := d.ReadFile(name)
		ch <- result{b, err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.b, r.err
	}
}

// Load reads and parses the zone file name.
func (d Dir) Load(name string) (*tzinfo.TzInfo, error) {
	b, err := d.ReadFile(name)
	if err != nil {
		return nil, err
	}
	z, err := tzinfo.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("parsing zone %s: %w", name, err)
	}
	d.log.Debug("loaded zone",
		zap.String("zone", name),
		zap.Stringer("version", z.Version),
		zap.Int32("timecnt", z.Timecnt),
		zap.Int32("typecnt", z.Typecnt))
	return z, nil
}

// LoadAll loads the given zones concurrently, using at most workers
// goroutines (unlimited if workers < 1). The first error cancels the
// remaining loads.
func (d Dir) LoadAll(ctx context.Context, names []string, workers int) (map[string]*tzinfo.TzInfo, error) {
	var (
		mu     sync.Mutex
		result = make(map[string]*tzinfo.TzInfo, len(names))
	)
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for _, name := range names {
		name := name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			z, err := d.Load(name)
			if err != nil {
				return err
			}
			mu.Lock()
			result[name] = z
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

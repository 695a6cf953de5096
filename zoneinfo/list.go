package zoneinfo

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"slices"

	"go.uber.org/zap"

	"github.com/ngrash/go-tzinfo/tzinfo"
)

// List returns the names of all TZif files below the directory, sorted.
// Files are recognized by their magic, so helper files such as
// zone.tab or leapseconds are left out. Symbolic links to TZif files are
// included. Entries that cannot be read are skipped.
func (d Dir) List(ctx context.Context) ([]string, error) {
	var names []string
	err := fs.WalkDir(d.fsys, ".", func(name string, e fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			d.log.Debug("skipping unreadable entry", zap.String("name", name), zap.Error(err))
			if e != nil && e.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if e.IsDir() {
			return nil
		}
		if !e.Type().IsRegular() {
			// Follow symbolic links, but only to regular files.
			info, err := fs.Stat(d.fsys, name)
			if err != nil || !info.Mode().IsRegular() {
				return nil
			}
		}
		ok, err := d.isTZif(name)
		if err != nil {
			d.log.Debug("skipping unreadable file", zap.String("name", name), zap.Error(err))
			return nil
		}
		if ok {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(names)
	return names, nil
}

// isTZif reports whether the file name starts with the TZif magic.
func (d Dir) isTZif(name string) (bool, error) {
	f, err := d.fsys.Open(name)
	if err != nil {
		return false, err
	}
	defer f.Close()

	magic := make([]byte, len(tzinfo.Magic))
	if _, err := io.ReadFull(f, magic); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return false, nil
		}
		return false, err
	}
	return bytes.Equal(magic, tzinfo.Magic[:]), nil
}

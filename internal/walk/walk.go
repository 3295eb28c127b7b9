// Package walk provides the filesystem walk provider backing the find
// engine: a depth-bounded, symlink-policy-aware traversal over an afero
// filesystem.
//
// Depth numbering follows the engine's contract: a root's immediate
// children are at depth 0, and the root directory itself is never yielded.
// A root that points to a file is yielded as its own single entry at
// depth 0. Entries within one directory are yielded in sorted name order,
// which is what makes repeated walks of an unchanged tree deterministic.
package walk

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/djherbis/times"
	"github.com/spf13/afero"

	"github.com/nnt0/fily/internal/find"
)

// Walker implements find.Walker on top of an afero filesystem.
type Walker struct {
	fs afero.Fs
}

// New creates a Walker over fsys. Use afero.NewOsFs() for the real
// filesystem; an in-memory filesystem works for tests.
func New(fsys afero.Fs) *Walker {
	return &Walker{fs: fsys}
}

// Walk enumerates entries under root, honoring the depth bounds and
// symlink policy in opts. Traversal errors (unreadable directories,
// unstattable entries) are reported through fn and never abort the walk;
// only context cancellation or a non-skip error from fn does.
func (w *Walker) Walk(ctx context.Context, root string, opts find.WalkOptions, fn find.WalkFunc) error {
	info, err := w.stat(root, opts.FollowSymlinks)
	if err != nil {
		return ignoreSkips(fn(root, nil, err))
	}

	if !info.IsDir() {
		if opts.MinDepth <= 0 && depthAllowed(0, opts.MaxDepth) {
			return ignoreSkips(fn(root, w.entry(root, info, opts.FollowSymlinks), nil))
		}
		return nil
	}

	var visited map[string]bool
	if opts.FollowSymlinks {
		visited = make(map[string]bool)
		if resolved, err := filepath.EvalSymlinks(root); err == nil {
			visited[resolved] = true
		}
	}

	err = w.walkDir(ctx, root, 0, opts, fn, visited)
	return ignoreSkips(err)
}

// walkDir yields the children of dir, which live at the given depth, then
// descends into subdirectories.
func (w *Walker) walkDir(ctx context.Context, dir string, depth int, opts find.WalkOptions, fn find.WalkFunc, visited map[string]bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	infos, err := afero.ReadDir(w.fs, dir)
	if err != nil {
		return fn(dir, nil, err)
	}

	for _, info := range infos {
		path := filepath.Join(dir, info.Name())
		isDir := info.IsDir()

		// ReadDir reports the symlink itself. Resolve the target when the
		// policy asks for it so both the yielded entry and the descend
		// decision see the destination.
		if opts.FollowSymlinks && info.Mode()&os.ModeSymlink != 0 {
			target, err := w.fs.Stat(path)
			if err != nil {
				if err := fn(path, nil, err); err != nil {
					return err
				}
				continue
			}
			info = target
			isDir = target.IsDir()
		}

		if depth >= opts.MinDepth {
			switch err := fn(path, w.entry(path, info, opts.FollowSymlinks), nil); {
			case errors.Is(err, fs.SkipDir):
				if isDir {
					continue
				}
				return nil // skip the rest of this directory
			case err != nil:
				return err
			}
		}

		if isDir && depthAllowed(depth+1, opts.MaxDepth) {
			if visited != nil {
				resolved, err := filepath.EvalSymlinks(path)
				if err == nil {
					if visited[resolved] {
						continue // symlink cycle
					}
					visited[resolved] = true
				}
			}
			if err := w.walkDir(ctx, path, depth+1, opts, fn, visited); err != nil {
				return err
			}
		}
	}

	return nil
}

func depthAllowed(depth, maxDepth int) bool {
	return maxDepth == find.UnlimitedDepth || depth <= maxDepth
}

// ignoreSkips maps the pruning sentinels to a clean walk end.
func ignoreSkips(err error) error {
	if errors.Is(err, fs.SkipAll) || errors.Is(err, fs.SkipDir) {
		return nil
	}
	return err
}

// stat uses Lstat when the symlink policy says to examine links themselves
// and the filesystem supports it.
func (w *Walker) stat(path string, follow bool) (os.FileInfo, error) {
	if !follow {
		if lfs, ok := w.fs.(afero.Lstater); ok {
			info, _, err := lfs.LstatIfPossible(path)
			return info, err
		}
	}
	return w.fs.Stat(path)
}

func (w *Walker) entry(path string, info os.FileInfo, follow bool) find.Entry {
	return &entry{fs: w.fs, path: path, name: info.Name(), dir: info.IsDir(), follow: follow}
}

// entry adapts one discovered filesystem object to find.Entry. Metadata is
// fetched live on Stat, not captured at walk time.
type entry struct {
	fs     afero.Fs
	path   string
	name   string
	dir    bool
	follow bool
}

func (e *entry) Path() string { return e.path }
func (e *entry) Name() string { return e.name }
func (e *entry) IsDir() bool  { return e.dir }

func (e *entry) Stat() (find.Metadata, error) {
	var info os.FileInfo
	var err error
	if !e.follow {
		if lfs, ok := e.fs.(afero.Lstater); ok {
			info, _, err = lfs.LstatIfPossible(e.path)
		} else {
			info, err = e.fs.Stat(e.path)
		}
	} else {
		info, err = e.fs.Stat(e.path)
	}
	if err != nil {
		return find.Metadata{}, err
	}
	return metadataFor(info), nil
}

// metadataFor extracts size and timestamps from a FileInfo. Access and
// birth times come from the platform-specific stat payload; in-memory
// filesystems have none, so the access time falls back to the modification
// time and the birth time stays unsupported.
func metadataFor(info os.FileInfo) find.Metadata {
	md := find.Metadata{
		Size:     info.Size(),
		Modified: info.ModTime(),
	}

	if info.Sys() == nil {
		md.Accessed = info.ModTime()
		return md
	}

	ts := times.Get(info)
	md.Accessed = ts.AccessTime()
	if ts.HasBirthTime() {
		md.Created = ts.BirthTime()
		md.HasCreated = true
	}
	return md
}

package find

import (
	"context"
	"time"
)

// Metadata holds the filesystem metadata a criteria comparison can read.
// It is fetched from the walk provider at evaluation time, never cached
// across entries.
type Metadata struct {
	Size       int64     // size in bytes
	Modified   time.Time // last modification time
	Accessed   time.Time // last access time
	Created    time.Time // creation (birth) time; only valid if HasCreated
	HasCreated bool      // false when the platform cannot report a birth time
}

// Entry is a single filesystem object under evaluation. It exposes exactly
// the capabilities criteria need (name, path as text, kind, metadata) so the
// engine can be tested against synthetic in-memory entries.
type Entry interface {
	// Path returns the entry's full path in text form.
	Path() string

	// Name returns the final path component, or "" if the entry has none.
	Name() string

	// IsDir reports whether the entry is a directory.
	IsDir() bool

	// Stat fetches the entry's metadata. A failure here surfaces as an
	// evaluation error for criteria that need metadata.
	Stat() (Metadata, error)
}

// WalkOptions bound a walk provider's traversal of a single root.
type WalkOptions struct {
	// MinDepth is the smallest entry depth to yield. A root's immediate
	// children are at depth 0.
	MinDepth int

	// MaxDepth is the largest entry depth to yield and descend to.
	// UnlimitedDepth means no bound.
	MaxDepth int

	// FollowSymlinks makes the walk descend into symlinked directories and
	// report metadata of symlink targets. When false, criteria are checked
	// against the symlink itself.
	FollowSymlinks bool
}

// WalkFunc is invoked once per discovered entry, in traversal order.
// A non-nil walkErr means the provider could not read the entry; e is nil in
// that case and path names the location that failed (it may be a directory).
// Returning fs.SkipDir prunes the entry's subtree; returning fs.SkipAll ends
// the walk early. Any other returned error aborts the walk and is returned
// by Walk unchanged.
type WalkFunc func(path string, e Entry, walkErr error) error

// Walker enumerates directory entries for a root path. The sequence is
// finite, yielded once, and ordered by the provider's own traversal
// contract.
type Walker interface {
	Walk(ctx context.Context, root string, opts WalkOptions, fn WalkFunc) error
}

// UnlimitedDepth disables a depth bound.
const UnlimitedDepth = -1

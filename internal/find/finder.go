// Package find is a file-query engine: it walks one or more roots and
// returns the entries satisfying a boolean expression of per-file criteria,
// subject to depth bounds, a result cap, and filtering switches.
//
// The engine itself never logs or prints; all failures come back as
// structured data on the Result, split into the two layers they occur at
// (traversal vs. evaluation). Nothing is fatal to a query: only the result
// cap or input exhaustion ends it.
package find

import (
	"context"
	"fmt"
	"io/fs"
	"strings"
	"unicode/utf8"
)

// Result is the outcome of one find invocation. Matches preserve root
// order first, then the walk provider's traversal order within each root.
// Any of the three lists may be empty.
type Result struct {
	Matches    []string
	EvalErrors []EvalError
	WalkErrors []WalkError
}

// Finder runs queries against a walk provider.
type Finder struct {
	walker Walker
}

// New creates a Finder using the given walk provider.
func New(w Walker) *Finder {
	return &Finder{walker: w}
}

// Find searches the roots in the order given and returns the bounded,
// filtered list of matching paths plus the per-entry errors encountered
// along the way. It returns a non-nil error only for caller mistakes
// (contradictory depth bounds) or context cancellation; per-entry failures
// never abort the query.
func (f *Finder) Find(ctx context.Context, roots []string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.MaxDepth != UnlimitedDepth && opts.MinDepth > opts.MaxDepth {
		return nil, fmt.Errorf("min depth %d exceeds max depth %d: no entry can match", opts.MinDepth, opts.MaxDepth)
	}

	wopts := WalkOptions{
		MinDepth:       opts.MinDepth,
		MaxDepth:       opts.MaxDepth,
		FollowSymlinks: opts.FollowSymlinks,
	}

	res := &Result{}
	for _, root := range roots {
		if capReached(res, opts) {
			break
		}
		err := f.walker.Walk(ctx, root, wopts, func(path string, e Entry, walkErr error) error {
			if walkErr != nil {
				res.WalkErrors = append(res.WalkErrors, WalkError{Path: path, Err: walkErr})
				return nil
			}
			if capReached(res, opts) {
				return fs.SkipAll
			}
			if !survivesFilters(e, opts) {
				return nil
			}
			if matched, err := evaluate(e, opts.Conditions); err != nil {
				res.EvalErrors = append(res.EvalErrors, EvalError{Path: path, Err: err})
			} else if matched {
				res.Matches = append(res.Matches, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return res, nil
}

func capReached(res *Result, opts *Options) bool {
	return opts.MaxResults > 0 && len(res.Matches) >= opts.MaxResults
}

// survivesFilters applies the metadata-cheap filters that run before the
// condition tree. A name that is not representable as text is treated as
// visible here, not as an error.
func survivesFilters(e Entry, opts *Options) bool {
	switch opts.Ignore {
	case IgnoreFiles:
		if !e.IsDir() {
			return false
		}
	case IgnoreFolders:
		if e.IsDir() {
			return false
		}
	}
	if opts.IgnoreHidden && strings.HasPrefix(e.Name(), ".") && utf8.ValidString(e.Name()) {
		return false
	}
	return true
}

// evaluate applies the top-level conjunction with the same short-circuit
// rule conditions use internally: stop at the first failing or erroring
// condition.
func evaluate(e Entry, conditions []Condition) (bool, error) {
	for _, cond := range conditions {
		ok, err := cond.Evaluate(e)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

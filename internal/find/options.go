package find

// Ignore selects a kind of entry to drop before condition evaluation.
type Ignore int

const (
	IgnoreNone    Ignore = iota
	IgnoreFiles          // drop everything that is not a directory
	IgnoreFolders        // drop directories
)

// Options contains all search parameters for a find invocation.
//
// The zero value of everything except MaxDepth is a search that matches any
// entry; use DefaultOptions or a Builder rather than constructing Options
// literally so MaxDepth defaults to UnlimitedDepth.
type Options struct {
	// Conditions are implicitly AND-ed: an entry must satisfy all of them.
	// Evaluation stops at the first failing or erroring condition.
	Conditions []Condition

	// MaxResults caps the number of matches. 0 means unlimited.
	MaxResults int

	// MaxDepth bounds how deep the search descends; a root's immediate
	// children are depth 0. UnlimitedDepth means no bound.
	MaxDepth int

	// MinDepth is the shallowest entry depth considered. Keep it at or
	// below MaxDepth: a MinDepth above MaxDepth is rejected by Find.
	MinDepth int

	// Ignore drops all files or all folders before evaluation.
	Ignore Ignore

	// IgnoreHidden drops entries whose name starts with a dot.
	IgnoreHidden bool

	// FollowSymlinks searches through symlinked directories. When false,
	// conditions are checked against the symlink itself, not its target.
	FollowSymlinks bool
}

// DefaultOptions returns options that match every entry with no bounds.
func DefaultOptions() *Options {
	return &Options{MaxDepth: UnlimitedDepth}
}

// Builder assembles Options through chained calls.
type Builder struct {
	opts Options
}

// NewBuilder returns a Builder seeded with DefaultOptions.
func NewBuilder() *Builder {
	return &Builder{opts: *DefaultOptions()}
}

// Build returns the assembled Options.
func (b *Builder) Build() *Options {
	opts := b.opts
	opts.Conditions = append([]Condition(nil), b.opts.Conditions...)
	return &opts
}

// Condition appends a single condition to the conjunction.
func (b *Builder) Condition(c Condition) *Builder {
	if c != nil {
		b.opts.Conditions = append(b.opts.Conditions, c)
	}
	return b
}

// AllOf appends a condition requiring every criteria to match.
// No-op on empty input.
func (b *Builder) AllOf(criteria ...Criteria) *Builder {
	return b.Condition(AllOf(criteria...))
}

// AnyOf appends a condition requiring at least one criteria to match.
// No-op on empty input.
func (b *Builder) AnyOf(criteria ...Criteria) *Builder {
	return b.Condition(AnyOf(criteria...))
}

// NoneOf appends a condition requiring no criteria to match.
// No-op on empty input.
func (b *Builder) NoneOf(criteria ...Criteria) *Builder {
	return b.Condition(NoneOf(criteria...))
}

// MaxResults caps the number of matches. 0 means unlimited.
func (b *Builder) MaxResults(n int) *Builder {
	b.opts.MaxResults = n
	return b
}

// MaxDepth bounds how deep the search descends.
func (b *Builder) MaxDepth(n int) *Builder {
	b.opts.MaxDepth = n
	return b
}

// MinDepth sets the shallowest entry depth considered.
func (b *Builder) MinDepth(n int) *Builder {
	b.opts.MinDepth = n
	return b
}

// Ignore drops all files or all folders before evaluation.
func (b *Builder) Ignore(ignore Ignore) *Builder {
	b.opts.Ignore = ignore
	return b
}

// IgnoreHidden drops entries whose name starts with a dot.
func (b *Builder) IgnoreHidden(v bool) *Builder {
	b.opts.IgnoreHidden = v
	return b
}

// FollowSymlinks searches through symlinked directories.
func (b *Builder) FollowSymlinks(v bool) *Builder {
	b.opts.FollowSymlinks = v
	return b
}

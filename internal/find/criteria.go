package find

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
)

// Criteria is an atomic predicate evaluated against one attribute of an
// entry. Exactly one comparison mode is active per criteria value; the
// constructors below guarantee that.
//
// Match returns the comparison outcome, or an error when the entry cannot
// be examined: ErrNoFilename, ErrBadEncoding, ErrUnsupportedField, or a
// wrapped metadata I/O error.
type Criteria interface {
	Match(e Entry) (bool, error)
}

type cmp int

const (
	cmpExact cmp = iota
	cmpContains
	cmpOver  // strictly greater
	cmpUnder // strictly less
	cmpBefore
	cmpAfter
)

// entryName returns the entry's base name, validating that one exists and
// is representable as text.
func entryName(e Entry) (string, error) {
	name := e.Name()
	if name == "" {
		return "", ErrNoFilename
	}
	if !utf8.ValidString(name) {
		return "", ErrBadEncoding
	}
	return name, nil
}

type filenameCriteria struct {
	mode cmp
	want string
}

// FilenameExact matches entries whose base name equals name.
func FilenameExact(name string) Criteria {
	return filenameCriteria{mode: cmpExact, want: name}
}

// FilenameContains matches entries whose base name contains substr.
func FilenameContains(substr string) Criteria {
	return filenameCriteria{mode: cmpContains, want: substr}
}

func (c filenameCriteria) Match(e Entry) (bool, error) {
	name, err := entryName(e)
	if err != nil {
		return false, err
	}
	if c.mode == cmpExact {
		return name == c.want, nil
	}
	return strings.Contains(name, c.want), nil
}

type regexCriteria struct {
	re *regexp.Regexp
}

// FilenameRegex matches entries whose base name matches re.
func FilenameRegex(re *regexp.Regexp) Criteria {
	return regexCriteria{re: re}
}

func (c regexCriteria) Match(e Entry) (bool, error) {
	name, err := entryName(e)
	if err != nil {
		return false, err
	}
	return c.re.MatchString(name), nil
}

type globCriteria struct {
	pattern string
}

// FilenameGlob matches entries whose base name matches a doublestar glob
// pattern. The pattern is validated here, not at evaluation time.
func FilenameGlob(pattern string) (Criteria, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern %q", pattern)
	}
	return globCriteria{pattern: pattern}, nil
}

func (c globCriteria) Match(e Entry) (bool, error) {
	name, err := entryName(e)
	if err != nil {
		return false, err
	}
	// Pattern was validated at construction.
	ok, _ := doublestar.Match(c.pattern, name)
	return ok, nil
}

type sizeCriteria struct {
	mode cmp
	want uint64
}

// SizeExact matches entries of exactly n bytes.
func SizeExact(n uint64) Criteria { return sizeCriteria{mode: cmpExact, want: n} }

// SizeOver matches entries strictly larger than n bytes.
func SizeOver(n uint64) Criteria { return sizeCriteria{mode: cmpOver, want: n} }

// SizeUnder matches entries strictly smaller than n bytes.
func SizeUnder(n uint64) Criteria { return sizeCriteria{mode: cmpUnder, want: n} }

func (c sizeCriteria) Match(e Entry) (bool, error) {
	md, err := e.Stat()
	if err != nil {
		return false, fmt.Errorf("reading metadata: %w", err)
	}
	size := uint64(md.Size)
	switch c.mode {
	case cmpOver:
		return size > c.want, nil
	case cmpUnder:
		return size < c.want, nil
	default:
		return size == c.want, nil
	}
}

type pathCriteria struct {
	mode cmp
	want string
}

// PathExact matches entries whose full path equals path.
func PathExact(path string) Criteria { return pathCriteria{mode: cmpExact, want: path} }

// PathContains matches entries whose full path contains substr.
func PathContains(substr string) Criteria { return pathCriteria{mode: cmpContains, want: substr} }

func (c pathCriteria) Match(e Entry) (bool, error) {
	path := e.Path()
	if !utf8.ValidString(path) {
		return false, ErrBadEncoding
	}
	if c.mode == cmpExact {
		return path == c.want, nil
	}
	return strings.Contains(path, c.want), nil
}

// timeField selects which timestamp a time criteria compares against.
type timeField int

const (
	fieldModified timeField = iota
	fieldAccessed
	fieldCreated
)

type timeCriteria struct {
	field timeField
	mode  cmp
	want  int64 // unix seconds
}

// ModifiedAt matches entries last modified at exactly sec (unix seconds).
func ModifiedAt(sec int64) Criteria { return timeCriteria{fieldModified, cmpExact, sec} }

// ModifiedBefore matches entries last modified strictly before sec.
func ModifiedBefore(sec int64) Criteria { return timeCriteria{fieldModified, cmpBefore, sec} }

// ModifiedAfter matches entries last modified strictly after sec.
func ModifiedAfter(sec int64) Criteria { return timeCriteria{fieldModified, cmpAfter, sec} }

// AccessedAt matches entries last accessed at exactly sec (unix seconds).
func AccessedAt(sec int64) Criteria { return timeCriteria{fieldAccessed, cmpExact, sec} }

// AccessedBefore matches entries last accessed strictly before sec.
func AccessedBefore(sec int64) Criteria { return timeCriteria{fieldAccessed, cmpBefore, sec} }

// AccessedAfter matches entries last accessed strictly after sec.
func AccessedAfter(sec int64) Criteria { return timeCriteria{fieldAccessed, cmpAfter, sec} }

// CreatedAt matches entries created at exactly sec (unix seconds). Yields
// ErrUnsupportedField on platforms without birth-time support.
func CreatedAt(sec int64) Criteria { return timeCriteria{fieldCreated, cmpExact, sec} }

// CreatedBefore matches entries created strictly before sec.
func CreatedBefore(sec int64) Criteria { return timeCriteria{fieldCreated, cmpBefore, sec} }

// CreatedAfter matches entries created strictly after sec.
func CreatedAfter(sec int64) Criteria { return timeCriteria{fieldCreated, cmpAfter, sec} }

func (c timeCriteria) Match(e Entry) (bool, error) {
	md, err := e.Stat()
	if err != nil {
		return false, fmt.Errorf("reading metadata: %w", err)
	}

	var got int64
	switch c.field {
	case fieldAccessed:
		got = md.Accessed.Unix()
	case fieldCreated:
		if !md.HasCreated {
			return false, ErrUnsupportedField
		}
		got = md.Created.Unix()
	default:
		got = md.Modified.Unix()
	}

	switch c.mode {
	case cmpBefore:
		return got < c.want, nil
	case cmpAfter:
		return got > c.want, nil
	default:
		return got == c.want, nil
	}
}


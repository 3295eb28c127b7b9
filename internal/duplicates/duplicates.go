// Package duplicates finds files with identical contents.
//
// Files are grouped by size first: two files of different lengths can never
// be duplicates, so only same-size files are ever read. Within a size group
// there are two strategies. Content mode compares raw bytes and is exact
// but can hold a whole group in memory. Hash mode compares 64-bit xxhash
// digests instead, which bounds memory at the cost of a vanishing collision
// chance; use it for large inputs.
package duplicates

import (
	"bytes"
	"context"
	"runtime"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/semaphore"
)

// Options configures duplicate detection.
type Options struct {
	// Hashes compares xxhash64 digests instead of full contents.
	Hashes bool

	// Jobs bounds how many files are hashed concurrently in hash mode.
	// 0 means one worker per CPU.
	Jobs int
}

// Pair names two files with identical contents. A preserves input order
// before B.
type Pair struct {
	A, B string
}

// Failure records a file that could not be examined. Such a file may or
// may not be a duplicate; it is excluded from the pairs.
type Failure struct {
	Path string
	Err  error
}

type candidate struct {
	path string
	size int64

	hash     uint64
	contents []byte
	failed   bool
}

// Find reports all pairs of files in paths with identical contents, plus
// the files that could not be read. Pairs preserve input order.
func Find(ctx context.Context, fsys afero.Fs, paths []string, opts Options) ([]Pair, []Failure) {
	var failures []Failure

	candidates := make([]*candidate, 0, len(paths))
	sizes := make(map[int64]int)
	for _, path := range paths {
		info, err := fsys.Stat(path)
		if err != nil {
			failures = append(failures, Failure{Path: path, Err: err})
			continue
		}
		if info.IsDir() {
			continue
		}
		candidates = append(candidates, &candidate{path: path, size: info.Size()})
		sizes[info.Size()]++
	}

	if opts.Hashes {
		failures = append(failures, hashCandidates(ctx, fsys, candidates, sizes, opts.Jobs)...)
	}

	var pairs []Pair
	for i := range candidates {
		for j := i + 1; j < len(candidates); j++ {
			a, b := candidates[i], candidates[j]
			if a.size != b.size || a.failed || b.failed {
				continue
			}

			var equal bool
			if opts.Hashes {
				equal = a.hash == b.hash
			} else {
				var err *Failure
				equal, err = sameContents(fsys, a, b)
				if err != nil {
					failures = append(failures, *err)
					continue
				}
			}

			if equal {
				pairs = append(pairs, Pair{A: a.path, B: b.path})
			}
		}
		// Done comparing against i; release its cached contents.
		candidates[i].contents = nil
	}

	log.Debug().Int("pairs", len(pairs)).Int("failures", len(failures)).Msg("duplicate scan finished")
	return pairs, failures
}

// hashCandidates digests every file that shares its size with another,
// with bounded parallelism.
func hashCandidates(ctx context.Context, fsys afero.Fs, candidates []*candidate, sizes map[int64]int, jobs int) []Failure {
	if jobs < 1 {
		jobs = runtime.NumCPU()
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures []Failure
	)
	sem := semaphore.NewWeighted(int64(jobs))

	for _, c := range candidates {
		if sizes[c.size] < 2 {
			continue // nothing to compare against
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			c.failed = true
			mu.Lock()
			failures = append(failures, Failure{Path: c.path, Err: err})
			mu.Unlock()
			continue
		}

		wg.Add(1)
		go func(c *candidate) {
			defer wg.Done()
			defer sem.Release(1)

			h, err := hashFile(fsys, c.path)
			if err != nil {
				c.failed = true
				mu.Lock()
				failures = append(failures, Failure{Path: c.path, Err: err})
				mu.Unlock()
				return
			}
			c.hash = h
		}(c)
	}

	wg.Wait()
	return failures
}

func hashFile(fsys afero.Fs, path string) (uint64, error) {
	contents, err := afero.ReadFile(fsys, path)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(contents), nil
}

// sameContents compares two files byte for byte, caching reads so each
// file is read at most once per size group.
func sameContents(fsys afero.Fs, a, b *candidate) (bool, *Failure) {
	for _, c := range []*candidate{a, b} {
		if c.contents != nil {
			continue
		}
		contents, err := afero.ReadFile(fsys, c.path)
		if err != nil {
			c.failed = true
			return false, &Failure{Path: c.path, Err: err}
		}
		c.contents = contents
	}
	return bytes.Equal(a.contents, b.contents), nil
}

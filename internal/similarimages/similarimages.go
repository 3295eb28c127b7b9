// Package similarimages finds images that look alike using perceptual
// hashes: visually similar images produce hashes with a small Hamming
// distance even when their bytes differ completely.
package similarimages

import (
	"context"
	"fmt"
	"image"
	"runtime"

	// Decoders for the common raster formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/corona10/goimagehash"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"
)

// Algorithm selects the perceptual hash function.
type Algorithm string

const (
	Average    Algorithm = "average"    // mean of pixel intensities
	Difference Algorithm = "difference" // gradient between neighboring pixels
	Perception Algorithm = "perception" // DCT-based, most robust to edits
)

// Options configures similarity detection.
type Options struct {
	// Algorithm is the perceptual hash to use.
	Algorithm Algorithm

	// Threshold is the largest Hamming distance still considered similar.
	Threshold int

	// Jobs bounds how many images are decoded and hashed concurrently.
	// 0 means one worker per CPU.
	Jobs int
}

// DefaultOptions returns a configuration that works decently well:
// the gradient hash with a moderately strict threshold.
func DefaultOptions() Options {
	return Options{Algorithm: Difference, Threshold: 10}
}

// Pair names two images whose hashes are within the threshold.
type Pair struct {
	A, B     string
	Distance int
}

// Failure records an image that could not be decoded or hashed.
type Failure struct {
	Path string
	Err  error
}

type hashed struct {
	path string
	hash *goimagehash.ImageHash
}

// Find reports all pairs of images in paths that are similar under opts.
// Unreadable or undecodable images are recorded and skipped. Pairs
// preserve input order.
func Find(ctx context.Context, fsys afero.Fs, paths []string, opts Options) ([]Pair, []Failure) {
	jobs := opts.Jobs
	if jobs < 1 {
		jobs = runtime.NumCPU()
	}

	// Phase one: decode and hash every image, in parallel. Results land in
	// an index-addressed slice so no ordering is lost to scheduling.
	hashes := make([]*hashed, len(paths))
	failures := make([]*Failure, len(paths))

	p := pool.New().WithMaxGoroutines(jobs).WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		p.Go(func(ctx context.Context) error {
			h, err := hashImage(fsys, path, opts.Algorithm)
			if err != nil {
				log.Info().Str("path", path).Err(err).Msg("skipping image")
				failures[i] = &Failure{Path: path, Err: err}
				return nil
			}
			hashes[i] = &hashed{path: path, hash: h}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		// Only context cancellation gets here; report it for every
		// image that never got hashed.
		for i, h := range hashes {
			if h == nil && failures[i] == nil {
				failures[i] = &Failure{Path: paths[i], Err: err}
			}
		}
	}

	// Phase two: pairwise distances over the surviving hashes.
	var pairs []Pair
	for i := range hashes {
		if hashes[i] == nil {
			continue
		}
		for j := i + 1; j < len(hashes); j++ {
			if hashes[j] == nil {
				continue
			}
			distance, err := hashes[i].hash.Distance(hashes[j].hash)
			if err != nil {
				// Hashes of the same kind and size never disagree; this
				// would be a programming error, not a data error.
				continue
			}
			if distance <= opts.Threshold {
				pairs = append(pairs, Pair{A: hashes[i].path, B: hashes[j].path, Distance: distance})
			}
		}
	}

	var failed []Failure
	for _, f := range failures {
		if f != nil {
			failed = append(failed, *f)
		}
	}
	return pairs, failed
}

func hashImage(fsys afero.Fs, path string, alg Algorithm) (*goimagehash.ImageHash, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	switch alg {
	case Average:
		return goimagehash.AverageHash(img)
	case Perception:
		return goimagehash.PerceptionHash(img)
	default:
		return goimagehash.DifferenceHash(img)
	}
}

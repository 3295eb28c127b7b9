package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/nnt0/fily/internal/similarimages"
)

var similarFlags struct {
	algorithm string
	threshold int
	jobs      int
}

var similarImagesCmd = &cobra.Command{
	Use:   "similar-images",
	Short: "Finds similar images",
	Long: `Finds visually similar images among the paths read from stdin and
prints each similar pair with its hash distance.

Images are compared with a perceptual hash. A lower --threshold means
the images have to be more alike; 0 only reports images that hash
identically.

Algorithms:
  average      mean pixel intensity, fastest
  difference   gradient between neighboring pixels (default)
  perception   DCT-based, most robust against edits`,
	Args: cobra.NoArgs,
	RunE: runSimilarImages,
}

func init() {
	defaults := similarimages.DefaultOptions()

	f := similarImagesCmd.Flags()
	f.StringVarP(&similarFlags.algorithm, "hash-alg", "a", string(defaults.Algorithm),
		"hash algorithm: average, difference, perception")
	f.IntVarP(&similarFlags.threshold, "threshold", "t", defaults.Threshold,
		"maximum hash distance for two images to count as similar")
	f.IntVarP(&similarFlags.jobs, "jobs", "j", defaults.Jobs,
		"maximum images decoded concurrently")

	rootCmd.AddCommand(similarImagesCmd)
}

func runSimilarImages(cmd *cobra.Command, args []string) error {
	alg := similarimages.Algorithm(similarFlags.algorithm)
	switch alg {
	case similarimages.Average, similarimages.Difference, similarimages.Perception:
	default:
		return fmt.Errorf("invalid --hash-alg %q: must be average, difference, or perception", similarFlags.algorithm)
	}
	if similarFlags.threshold < 0 {
		return fmt.Errorf("--threshold cannot be negative, got %d", similarFlags.threshold)
	}
	if similarFlags.jobs < 1 {
		return fmt.Errorf("--jobs must be at least 1, got %d", similarFlags.jobs)
	}

	paths, err := readPaths(cmd)
	if err != nil {
		return err
	}

	pairs, failures := similarimages.Find(cmd.Context(), afero.NewOsFs(), paths, similarimages.Options{
		Algorithm: alg,
		Threshold: similarFlags.threshold,
		Jobs:      similarFlags.jobs,
	})

	out := newOutput(cmd)
	for _, p := range pairs {
		out.PairDistance(p.A, p.B, p.Distance)
	}
	for _, f := range failures {
		out.Warningf("could not hash %s: %v", f.Path, f.Err)
	}
	return nil
}

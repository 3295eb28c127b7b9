package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/nnt0/fily/internal/duplicates"
)

var duplicatesFlags struct {
	hashes bool
	jobs   int
}

var duplicatesCmd = &cobra.Command{
	Use:   "duplicates",
	Short: "Finds duplicate files and prints the paths to them in pairs",
	Long: `Finds files with identical contents among the paths read from stdin
and prints each duplicate pair.

By default contents are compared byte by byte, which can never produce a
false positive. With --hashes each file is hashed once instead, which is
much faster for many files of the same size but compares hashes rather
than contents.`,
	Args: cobra.NoArgs,
	RunE: runDuplicates,
}

func init() {
	duplicatesCmd.Flags().BoolVar(&duplicatesFlags.hashes, "hashes", false,
		"compare file hashes instead of contents")
	duplicatesCmd.Flags().IntVarP(&duplicatesFlags.jobs, "jobs", "j", 8,
		"maximum concurrent file reads when hashing")

	rootCmd.AddCommand(duplicatesCmd)
}

func runDuplicates(cmd *cobra.Command, args []string) error {
	if duplicatesFlags.jobs < 1 {
		return fmt.Errorf("--jobs must be at least 1, got %d", duplicatesFlags.jobs)
	}

	paths, err := readPaths(cmd)
	if err != nil {
		return err
	}

	pairs, failures := duplicates.Find(cmd.Context(), afero.NewOsFs(), paths, duplicates.Options{
		Hashes: duplicatesFlags.hashes,
		Jobs:   duplicatesFlags.jobs,
	})

	out := newOutput(cmd)
	for _, p := range pairs {
		out.Pair(p.A, p.B)
	}
	for _, f := range failures {
		out.Warningf("could not compare %s: %v", f.Path, f.Err)
	}
	return nil
}

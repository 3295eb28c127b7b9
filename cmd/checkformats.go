package cmd

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/nnt0/fily/internal/imageformats"
)

var checkFormatsCmd = &cobra.Command{
	Use:   "check-image-formats",
	Short: "Finds images whose extension does not match their actual format",
	Long: `Checks the images read from stdin against their file extension and
prints every file whose extension disagrees with its content.

Files whose content is not a known image format are reported as
warnings. This can produce false positives on files that aren't images,
make sure to check the output.`,
	Args: cobra.NoArgs,
	RunE: runCheckFormats,
}

func init() {
	rootCmd.AddCommand(checkFormatsCmd)
}

func runCheckFormats(cmd *cobra.Command, args []string) error {
	paths, err := readPaths(cmd)
	if err != nil {
		return err
	}

	mismatches, failures := imageformats.Check(afero.NewOsFs(), paths)

	out := newOutput(cmd)
	for _, m := range mismatches {
		out.Mismatch(m.Path, m.Ext, m.ShouldBe)
	}
	for _, f := range failures {
		out.Warningf("could not check %s: %v", f.Path, f.Err)
	}
	return nil
}

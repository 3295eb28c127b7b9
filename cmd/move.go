package cmd

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/nnt0/fily/internal/fileops"
)

var moveTo string

var moveCmd = &cobra.Command{
	Use:   "move --to <directory>",
	Short: "Moves files and folders",
	Long: `Moves the paths read from stdin into a directory, keeping their names.
The directory is created if it does not exist.`,
	Args: cobra.NoArgs,
	RunE: runMove,
}

func init() {
	moveCmd.Flags().StringVarP(&moveTo, "to", "t", "",
		"directory to move everything into")
	moveCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(moveCmd)
}

func runMove(cmd *cobra.Command, args []string) error {
	paths, err := readPaths(cmd)
	if err != nil {
		return err
	}

	failures, err := fileops.Move(afero.NewOsFs(), moveTo, paths)
	if err != nil {
		return err
	}

	out := newOutput(cmd)
	for _, f := range failures {
		out.Warningf("could not move %s: %v", f.Path, f.Err)
	}
	out.Infof("moved %d of %d files into %s", len(paths)-len(failures), len(paths), moveTo)
	return nil
}

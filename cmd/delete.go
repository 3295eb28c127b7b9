package cmd

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/nnt0/fily/internal/fileops"
)

var deleteSecure bool

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Deletes files and folders",
	Long: `Deletes the paths read from stdin. Directories are removed with
everything in them.

With --secure each file is overwritten with zeroes before removal, so
its contents cannot be recovered from the disk. Secure deletion only
works on regular files.`,
	Args: cobra.NoArgs,
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVar(&deleteSecure, "secure", false,
		"overwrite file contents with zeroes before deleting")

	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	paths, err := readPaths(cmd)
	if err != nil {
		return err
	}

	fsys := afero.NewOsFs()
	out := newOutput(cmd)
	for _, path := range paths {
		var err error
		if deleteSecure {
			err = fileops.SecureDelete(fsys, path)
		} else {
			err = fileops.Delete(fsys, path)
		}
		if err != nil {
			out.Warningf("could not delete %s: %v", path, err)
		}
	}
	return nil
}

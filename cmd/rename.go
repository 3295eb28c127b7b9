package cmd

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/nnt0/fily/internal/rename"
)

var renameTemplate string

var renameCmd = &cobra.Command{
	Use:   "rename --template <template>",
	Short: "Renames files and folders",
	Long: `Renames the files read from stdin. The new name is produced from a
template: literal text with variables in braces.

  {filename}            the current name
  {filename_base}       the name without its extension
  {filename_extension}  the extension without the dot
  {filesize}            the size in bytes
  {incrementing_number} a counter, one step per renamed file

Options follow the template after a "|". The only one is
incrementing_number_starts_at=<n>.

Examples:
  fily find -c .jpeg . | fily rename --template "{filename_base}.jpg"
  ls | fily rename --template "img_{incrementing_number}|incrementing_number_starts_at=1"`,
	Args: cobra.NoArgs,
	RunE: runRename,
}

func init() {
	renameCmd.Flags().StringVarP(&renameTemplate, "template", "t", "",
		"template for the new filename")
	renameCmd.MarkFlagRequired("template")

	rootCmd.AddCommand(renameCmd)
}

func runRename(cmd *cobra.Command, args []string) error {
	t, err := rename.Parse(renameTemplate)
	if err != nil {
		return err
	}

	paths, err := readPaths(cmd)
	if err != nil {
		return err
	}

	out := newOutput(cmd)
	failures := rename.RenameAll(afero.NewOsFs(), paths, t)
	for _, f := range failures {
		out.Warningf("could not rename %s: %v", f.Path, f.Err)
	}
	out.Infof("renamed %d of %d files", len(paths)-len(failures), len(paths))
	return nil
}

// fily is a collection of file utilities: finding, renaming, moving,
// deleting, and deduplicating files, plus a couple of image helpers.
package main

import (
	"fmt"
	"os"

	"github.com/nnt0/fily/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"regexp"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/nnt0/fily/internal/find"
	"github.com/nnt0/fily/internal/timeparse"
	"github.com/nnt0/fily/internal/walk"
)

type findOptions struct {
	filenameExact    string
	filenameContains []string
	filenameRegex    []string
	filenameIgnore   []string
	filenameGlob     []string
	pathExact        string
	pathContains     []string

	sizeExact string
	sizeOver  string
	sizeUnder string

	modifiedAt     string
	modifiedBefore string
	modifiedAfter  string
	modifiedWithin string
	accessedAt     string
	accessedBefore string
	accessedAfter  string
	createdAt      string
	createdBefore  string
	createdAfter   string

	maxResults      int
	maxDepth        int
	minDepth        int
	ignore          string
	ignoreHidden    bool
	followSymlinks  bool
	outputSeparator string
}

var findFlags findOptions

// nowFunc is replaced in tests.
var nowFunc = time.Now

var findCmd = &cobra.Command{
	Use:   "find [flags] <path>...",
	Short: "Finds files and folders",
	Long: `Finds files and folders under the given paths.

All filters must match for a path to be reported. Filters that can be
given multiple times must all match too, except --filename-regex-ignore
which excludes anything it matches.

Sizes accept unit suffixes (500k, 1.5M, 2G). Timestamps accept unix
seconds or dates like "2024-05-01" and "2024-05-01 13:00:00".

Examples:
  fily find --filename-contains .log /var/log
  fily find --filename-glob "**/*.go" --filesize-over 10k .
  fily find --modified-after "2024-01-01" --ignore folders ~/documents
  fily find --modified-within 2days --max-results 10 .`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFind,
}

func init() {
	f := findCmd.Flags()
	f.StringVarP(&findFlags.filenameExact, "filename-exact", "e", "",
		"filename matches exactly")
	f.StringSliceVarP(&findFlags.filenameContains, "filename-contains", "c", nil,
		"filename contains the substring (can be repeated)")
	f.StringSliceVarP(&findFlags.filenameRegex, "filename-regex", "x", nil,
		"filename matches the regex (can be repeated)")
	f.StringSliceVarP(&findFlags.filenameIgnore, "filename-regex-ignore", "g", nil,
		"exclude filenames matching the regex (can be repeated)")
	f.StringSliceVar(&findFlags.filenameGlob, "filename-glob", nil,
		"filename matches the glob pattern (can be repeated)")
	f.StringVar(&findFlags.pathExact, "path-exact", "",
		"full path matches exactly")
	f.StringSliceVarP(&findFlags.pathContains, "path-contains", "n", nil,
		"full path contains the substring (can be repeated)")

	f.StringVarP(&findFlags.sizeExact, "filesize-exact", "s", "",
		"file size is exactly this")
	f.StringVarP(&findFlags.sizeOver, "filesize-over", "o", "",
		"file size is over this (exclusive)")
	f.StringVarP(&findFlags.sizeUnder, "filesize-under", "u", "",
		"file size is under this (exclusive)")

	f.StringVar(&findFlags.modifiedAt, "modified-at", "", "modified at exactly this time")
	f.StringVar(&findFlags.modifiedBefore, "modified-before", "", "modified before this time (exclusive)")
	f.StringVar(&findFlags.modifiedAfter, "modified-after", "", "modified after this time (exclusive)")
	f.StringVar(&findFlags.modifiedWithin, "modified-within", "", "modified within the last duration (e.g. 10h, 2days)")
	f.StringVar(&findFlags.accessedAt, "accessed-at", "", "accessed at exactly this time")
	f.StringVar(&findFlags.accessedBefore, "accessed-before", "", "accessed before this time (exclusive)")
	f.StringVar(&findFlags.accessedAfter, "accessed-after", "", "accessed after this time (exclusive)")
	f.StringVar(&findFlags.createdAt, "created-at", "", "created at exactly this time")
	f.StringVar(&findFlags.createdBefore, "created-before", "", "created before this time (exclusive)")
	f.StringVar(&findFlags.createdAfter, "created-after", "", "created after this time (exclusive)")

	f.IntVar(&findFlags.maxResults, "max-num-results", 0,
		"stop after this many matches (0 means unlimited)")
	f.IntVar(&findFlags.maxDepth, "max-search-depth", find.UnlimitedDepth,
		"how deep to descend below the starting paths (-1 means unlimited)")
	f.IntVar(&findFlags.minDepth, "min-depth-from-start", 0,
		"skip entries closer to the starting paths than this")
	f.StringVar(&findFlags.ignore, "ignore", "",
		"ignore \"files\" or \"folders\"")
	f.BoolVar(&findFlags.ignoreHidden, "ignore-hidden-files", false,
		"skip entries whose name starts with a dot")
	f.BoolVar(&findFlags.followSymlinks, "follow-symlinks", false,
		"follow symlinks while searching")
	f.StringVar(&findFlags.outputSeparator, "output-separator", "\n",
		"separator between printed paths")

	findCmd.MarkFlagsMutuallyExclusive("filename-exact", "filename-contains")
	findCmd.MarkFlagsMutuallyExclusive("filename-exact", "filename-regex")
	findCmd.MarkFlagsMutuallyExclusive("modified-at", "modified-within")

	rootCmd.AddCommand(findCmd)
}

// buildConditions turns the find flags into engine conditions.
func buildConditions(b *find.Builder) error {
	var all []find.Criteria

	if findFlags.filenameExact != "" {
		all = append(all, find.FilenameExact(findFlags.filenameExact))
	}
	for _, substr := range findFlags.filenameContains {
		all = append(all, find.FilenameContains(substr))
	}
	for _, expr := range findFlags.filenameRegex {
		re, err := regexp.Compile(expr)
		if err != nil {
			return fmt.Errorf("invalid --filename-regex %q: %w", expr, err)
		}
		all = append(all, find.FilenameRegex(re))
	}
	for _, pattern := range findFlags.filenameGlob {
		c, err := find.FilenameGlob(pattern)
		if err != nil {
			return fmt.Errorf("invalid --filename-glob %q: %w", pattern, err)
		}
		all = append(all, c)
	}
	if findFlags.pathExact != "" {
		all = append(all, find.PathExact(findFlags.pathExact))
	}
	for _, substr := range findFlags.pathContains {
		all = append(all, find.PathContains(substr))
	}

	sizes := []struct {
		flag  string
		value string
		make  func(uint64) find.Criteria
	}{
		{"--filesize-exact", findFlags.sizeExact, find.SizeExact},
		{"--filesize-over", findFlags.sizeOver, find.SizeOver},
		{"--filesize-under", findFlags.sizeUnder, find.SizeUnder},
	}
	for _, s := range sizes {
		if s.value == "" {
			continue
		}
		n, err := parseByteSize(s.value)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", s.flag, s.value, err)
		}
		all = append(all, s.make(uint64(n)))
	}

	times := []struct {
		flag  string
		value string
		make  func(int64) find.Criteria
	}{
		{"--modified-at", findFlags.modifiedAt, find.ModifiedAt},
		{"--modified-before", findFlags.modifiedBefore, find.ModifiedBefore},
		{"--modified-after", findFlags.modifiedAfter, find.ModifiedAfter},
		{"--accessed-at", findFlags.accessedAt, find.AccessedAt},
		{"--accessed-before", findFlags.accessedBefore, find.AccessedBefore},
		{"--accessed-after", findFlags.accessedAfter, find.AccessedAfter},
		{"--created-at", findFlags.createdAt, find.CreatedAt},
		{"--created-before", findFlags.createdBefore, find.CreatedBefore},
		{"--created-after", findFlags.createdAfter, find.CreatedAfter},
	}
	for _, tf := range times {
		if tf.value == "" {
			continue
		}
		at, err := timeparse.ParseTime(tf.value)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", tf.flag, tf.value, err)
		}
		all = append(all, tf.make(at.Unix()))
	}

	if findFlags.modifiedWithin != "" {
		d, err := timeparse.ParseDuration(findFlags.modifiedWithin)
		if err != nil {
			return fmt.Errorf("invalid --modified-within %q: %w", findFlags.modifiedWithin, err)
		}
		all = append(all, find.ModifiedAfter(nowFunc().Add(-d).Unix()))
	}

	if len(all) > 0 {
		b.AllOf(all...)
	}

	var ignores []find.Criteria
	for _, expr := range findFlags.filenameIgnore {
		re, err := regexp.Compile(expr)
		if err != nil {
			return fmt.Errorf("invalid --filename-regex-ignore %q: %w", expr, err)
		}
		ignores = append(ignores, find.FilenameRegex(re))
	}
	if len(ignores) > 0 {
		b.NoneOf(ignores...)
	}

	return nil
}

func runFind(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := find.NewBuilder()
	if err := buildConditions(b); err != nil {
		return err
	}

	switch findFlags.ignore {
	case "":
	case "files":
		b.Ignore(find.IgnoreFiles)
	case "folders":
		b.Ignore(find.IgnoreFolders)
	default:
		return fmt.Errorf("invalid --ignore %q: must be \"files\" or \"folders\"", findFlags.ignore)
	}

	b.MaxResults(findFlags.maxResults).
		MaxDepth(findFlags.maxDepth).
		MinDepth(findFlags.minDepth).
		IgnoreHidden(findFlags.ignoreHidden).
		FollowSymlinks(findFlags.followSymlinks)

	f := find.New(walk.New(afero.NewOsFs()))
	result, err := f.Find(ctx, args, b.Build())
	if err != nil {
		return err
	}

	out := newOutput(cmd)
	out.Paths(result.Matches, findFlags.outputSeparator)
	for _, we := range result.WalkErrors {
		out.Warningf("could not read %s: %v", we.Path, we.Err)
	}
	for _, ee := range result.EvalErrors {
		out.Warningf("could not evaluate %s: %v", ee.Path, ee.Err)
	}
	return nil
}

package cmd

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/nnt0/fily/internal/output"
)

// colorMode represents when to use colored output.
type colorMode string

const (
	colorAuto   colorMode = "auto"
	colorAlways colorMode = "always"
	colorNever  colorMode = "never"
)

// String is used both by fmt.Print and by Cobra in help text.
func (c *colorMode) String() string {
	return string(*c)
}

// Set must have pointer receiver to validate and set the value.
func (c *colorMode) Set(v string) error {
	switch v {
	case "auto", "always", "never":
		*c = colorMode(v)
		return nil
	default:
		return fmt.Errorf("must be one of \"auto\", \"always\", or \"never\"")
	}
}

// Type is only used in help text.
func (c *colorMode) Type() string {
	return "colorMode"
}

var (
	version = "dev"

	// Persistent flags.
	color          = colorAuto
	logLevel       string
	logFile        string
	inputSeparator string

	logSink io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "fily <command>",
	Short: "Does stuff with files",
	Long: `fily is a collection of file utilities.

Most commands read the paths to operate on from stdin, one path per line
(change the separator with --input-separator). Pair it with the find
command or any other tool that emits paths:

  fily find --filename-contains .log /var/log | fily delete
  ls *.jpeg | fily rename --template "{filename_base}.jpg"
  fily find --filesize-over 1M ~/downloads | fily duplicates --hashes`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logSink != nil {
			logSink.Close()
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.Var(&color, "color",
		"colorize output: auto, always, never")
	pf.StringVarP(&logLevel, "log-level", "l", "off",
		"log level: off, error, warn, info, debug, trace")
	pf.StringVar(&logFile, "log-file", "fily.log",
		"file to write logs to")
	pf.StringVarP(&inputSeparator, "input-separator", "p", "\n",
		"separator between paths read from stdin")
}

func Execute() error {
	return rootCmd.Execute()
}

// setupLogging configures the global zerolog logger. With the default
// "off" level nothing is written and the log file is never opened.
func setupLogging() error {
	if logLevel == "off" {
		zerolog.SetGlobalLevel(zerolog.Disabled)
		return nil
	}

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	logSink = f
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return nil
}

// colorize resolves the --color flag against the terminal.
func colorize() bool {
	switch color {
	case colorAlways:
		return true
	case colorNever:
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func newOutput(cmd *cobra.Command) *output.Output {
	return output.NewOutput(cmd.OutOrStdout(), cmd.ErrOrStderr(), colorize())
}

// readPaths reads the paths to operate on from stdin, split by the
// --input-separator flag. Empty segments are dropped so that a trailing
// newline does not produce a phantom path.
func readPaths(cmd *cobra.Command) ([]string, error) {
	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("reading paths from stdin: %w", err)
	}

	var paths []string
	for _, p := range strings.Split(string(raw), inputSeparator) {
		p = strings.TrimRight(p, "\r")
		if p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no paths on stdin")
	}
	return paths, nil
}

// parseByteSize parses a human-readable size string into bytes.
// Supports formats like "1M", "500k", "1.5G", "1024" (plain bytes).
// Units are case-insensitive and use binary (1024-based) multipliers.
func parseByteSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size string")
	}

	// Find where the unit starts (last non-digit character)
	i := len(s) - 1
	for i >= 0 && !unicode.IsDigit(rune(s[i])) && s[i] != '.' {
		i--
	}

	// Parse the number part
	numStr := s[:i+1]
	num, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", numStr, err)
	}
	if num < 0 {
		return 0, fmt.Errorf("size cannot be negative")
	}

	// Parse the unit suffix
	unit := strings.ToLower(strings.TrimSpace(s[i+1:]))
	var multiplier float64
	switch unit {
	case "", "b":
		multiplier = 1
	case "k", "kb", "kib":
		multiplier = 1024
	case "m", "mb", "mib":
		multiplier = 1024 * 1024
	case "g", "gb", "gib":
		multiplier = 1024 * 1024 * 1024
	case "t", "tb", "tib":
		multiplier = 1024 * 1024 * 1024 * 1024
	case "p", "pb", "pib":
		multiplier = 1024 * 1024 * 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unknown unit %q (supported: b, k, m, g, t, p)", unit)
	}

	result := num * multiplier
	if result > float64(math.MaxInt64) {
		return 0, fmt.Errorf("size too large (exceeds max int64)")
	}

	return int64(result), nil
}

package output

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/mgutz/ansi"
)

// Output handles all output formatting with optional color support.
type Output struct {
	mu     sync.Mutex
	stdout io.Writer
	stderr io.Writer

	cyan   func(string) string
	green  func(string) string
	white  func(string) string
	yellow func(string) string
	red    func(string) string
}

// NewOutput creates a new Output with optional color support.
func NewOutput(stdout, stderr io.Writer, colorize bool) *Output {
	color := func(name string) func(string) string {
		if colorize {
			return ansi.ColorFunc(name)
		}
		return ansi.ColorFunc("")
	}

	return &Output{
		stdout: stdout,
		stderr: stderr,
		cyan:   color("cyan"),
		green:  color("green+b"),
		white:  color("white"),
		yellow: color("yellow"),
		red:    color("red+b"),
	}
}

// Paths writes matched paths joined by sep, followed by a newline.
func (o *Output) Paths(paths []string, sep string) {
	if len(paths) == 0 {
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	colored := make([]string, len(paths))
	for i, p := range paths {
		colored[i] = o.green(p)
	}
	fmt.Fprintf(o.stdout, "%s\n", strings.Join(colored, sep))
}

// Pair writes a pair of related paths in the format: a == b.
func (o *Output) Pair(a, b string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.stdout, "%s %s %s\n", o.cyan(a), o.white("=="), o.cyan(b))
}

// PairDistance writes a pair of related paths with their distance.
func (o *Output) PairDistance(a, b string, distance int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.stdout, "%s %s %s %s\n",
		o.cyan(a), o.white("~~"), o.cyan(b),
		o.white(fmt.Sprintf("(distance %d)", distance)))
}

// Mismatch writes a path whose extension disagrees with its content.
func (o *Output) Mismatch(path, ext, shouldBe string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.stdout, "%s: %s %s %s\n",
		o.cyan(path), o.red(ext), o.white("should be"), o.green(shouldBe))
}

// Warningf writes a formatted warning message to stderr.
func (o *Output) Warningf(format string, args ...any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.stderr, o.yellow("Warning: ")+format+"\n", args...)
}

// Infof writes a formatted informational message to stderr.
func (o *Output) Infof(format string, args ...any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.stderr, format+"\n", args...)
}

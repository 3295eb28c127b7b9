// Package imageformats checks whether an image file's extension agrees
// with its actual content format, detected from magic numbers. The
// detection is a heuristic: a non-image file may still sniff as some
// format, and no correctness is guaranteed for such inputs.
package imageformats

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

var (
	// ErrUnknownFormat means the file's content matched no known image
	// format.
	ErrUnknownFormat = errors.New("content matches no known image format")
)

// Mismatch reports a file whose extension does not name its actual format.
type Mismatch struct {
	Path     string
	Ext      string // format implied by the extension ("" if none)
	ShouldBe string // format implied by the content
}

// Failure records a file that could not be checked.
type Failure struct {
	Path string
	Err  error
}

// extension aliases that name the same format as the sniffed extension.
var aliases = map[string]string{
	"jpeg": "jpg",
	"tif":  "tiff",
	"heif": "heic",
}

// Check sniffs each file's content and compares the detected image format
// against the one its extension claims. Files whose format cannot be
// determined are recorded as failures and skipped.
func Check(fsys afero.Fs, paths []string) ([]Mismatch, []Failure) {
	var mismatches []Mismatch
	var failures []Failure

	for _, path := range paths {
		actual, err := sniff(fsys, path)
		if err != nil {
			log.Info().Str("path", path).Err(err).Msg("skipping file")
			failures = append(failures, Failure{Path: path, Err: err})
			continue
		}

		ext := normalizeExt(filepath.Ext(path))
		if ext != actual {
			mismatches = append(mismatches, Mismatch{Path: path, Ext: ext, ShouldBe: actual})
		}
	}

	return mismatches, failures
}

// sniff reads the file header and returns the extension of the detected
// image format.
func sniff(fsys afero.Fs, path string) (string, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	// filetype needs at most 262 bytes to classify.
	head := make([]byte, 262)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}

	kind, err := filetype.Match(head[:n])
	if err != nil {
		return "", err
	}
	if kind == filetype.Unknown || kind.MIME.Type != "image" {
		return "", ErrUnknownFormat
	}
	return kind.Extension, nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if canonical, ok := aliases[ext]; ok {
		return canonical
	}
	return ext
}

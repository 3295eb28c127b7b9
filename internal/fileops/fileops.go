// Package fileops implements the bulk move and delete operations.
package fileops

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// ErrDestinationIsFile means the move destination exists but is a file.
var ErrDestinationIsFile = errors.New("destination is a file, not a directory")

// Failure records a file an operation could not process.
type Failure struct {
	Path string
	Err  error
}

// Move renames every file in paths into the dest directory, creating it if
// needed. A file that cannot be moved is recorded and skipped. The returned
// error covers destination problems only; per-file trouble never aborts the
// rest.
func Move(fsys afero.Fs, dest string, paths []string) ([]Failure, error) {
	info, err := fsys.Stat(dest)
	switch {
	case err == nil && !info.IsDir():
		return nil, ErrDestinationIsFile
	case err != nil:
		if err := fsys.MkdirAll(dest, 0o755); err != nil {
			return nil, fmt.Errorf("creating destination: %w", err)
		}
	}

	var failures []Failure
	for _, path := range paths {
		name := filepath.Base(path)
		if name == "." || name == string(filepath.Separator) {
			failures = append(failures, Failure{Path: path, Err: errors.New("path has no filename")})
			continue
		}
		target := filepath.Join(dest, name)
		if err := fsys.Rename(path, target); err != nil {
			failures = append(failures, Failure{Path: path, Err: err})
			continue
		}
		log.Info().Str("from", path).Str("to", target).Msg("moved")
	}
	return failures, nil
}

// Delete removes the file or directory at path. Directories are removed
// recursively. Symlinks are not followed; the link itself goes.
func Delete(fsys afero.Fs, path string) error {
	if err := fsys.RemoveAll(path); err != nil {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	log.Info().Str("path", path).Msg("deleted")
	return nil
}

// SecureDelete overwrites every byte of the file with zeroes before
// removing it. This makes recovery unlikely but is not a guarantee against
// it. Directories are rejected.
func SecureDelete(fsys afero.Fs, path string) error {
	info, err := fsys.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, secure delete handles files only", path)
	}

	if err := overwriteWithZeroes(fsys, path, info.Size()); err != nil {
		return fmt.Errorf("overwriting %s: %w", path, err)
	}
	if err := fsys.Remove(path); err != nil {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	log.Info().Str("path", path).Msg("securely deleted")
	return nil
}

func overwriteWithZeroes(fsys afero.Fs, path string, size int64) error {
	f, err := fsys.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	zeroes := make([]byte, 32*1024)
	for size > 0 {
		chunk := int64(len(zeroes))
		if size < chunk {
			chunk = size
		}
		if _, err := f.Write(zeroes[:chunk]); err != nil {
			return err
		}
		size -= chunk
	}

	return f.Sync()
}

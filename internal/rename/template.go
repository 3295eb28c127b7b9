// Package rename renames files after a filename template.
//
// A template is literal text with variables enclosed in braces:
//
//	{filename}            the current filename
//	{filename_base}       the filename without its extension
//	{filename_extension}  the extension without the dot ("" if none)
//	{filesize}            the file's size in bytes
//	{incrementing_number} a counter that advances by one per file
//
// Everything after the first '|' is an option. The only one is
// incrementing_number_starts_at=N, which may be negative:
//
//	{filename_base}_{incrementing_number}|incrementing_number_starts_at=1
package rename

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

var (
	// ErrEmptyVariable means the template contains "{}".
	ErrEmptyVariable = errors.New("template contains an empty variable")

	// ErrUnbalancedBraces means a '{' is never closed or a '}' never opened.
	ErrUnbalancedBraces = errors.New("template braces are unbalanced")

	// ErrNoFilename means a path to rename has no usable final component.
	ErrNoFilename = errors.New("path has no filename")
)

// UnknownVariableError names a template variable that does not exist.
type UnknownVariableError struct {
	Name string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown template variable %q", e.Name)
}

type variable int

const (
	varNone variable = iota
	varFilename
	varBase
	varExtension
	varSize
	varNumber
)

var variables = map[string]variable{
	"filename":            varFilename,
	"filename_base":       varBase,
	"filename_extension":  varExtension,
	"filesize":            varSize,
	"incrementing_number": varNumber,
}

type part struct {
	literal  string
	variable variable
}

// Template is a parsed filename template, reusable across files.
type Template struct {
	parts []part
	start int64
}

// Parse splits a raw template into its parts and options.
func Parse(raw string) (*Template, error) {
	text, optText, hasOpts := strings.Cut(raw, "|")

	t := &Template{}
	if hasOpts {
		if err := t.parseOptions(optText); err != nil {
			return nil, err
		}
	}

	for len(text) > 0 {
		open := strings.IndexByte(text, '{')
		if open < 0 {
			if strings.IndexByte(text, '}') >= 0 {
				return nil, ErrUnbalancedBraces
			}
			t.parts = append(t.parts, part{literal: text})
			break
		}
		if open > 0 {
			if strings.IndexByte(text[:open], '}') >= 0 {
				return nil, ErrUnbalancedBraces
			}
			t.parts = append(t.parts, part{literal: text[:open]})
		}

		end := strings.IndexByte(text[open:], '}')
		if end < 0 {
			return nil, ErrUnbalancedBraces
		}
		name := text[open+1 : open+end]
		if name == "" {
			return nil, ErrEmptyVariable
		}
		v, ok := variables[name]
		if !ok {
			return nil, &UnknownVariableError{Name: name}
		}
		t.parts = append(t.parts, part{variable: v})
		text = text[open+end+1:]
	}

	return t, nil
}

func (t *Template) parseOptions(text string) error {
	for _, opt := range strings.Split(text, "|") {
		key, value, hasValue := strings.Cut(strings.TrimSpace(opt), "=")
		switch key {
		case "incrementing_number_starts_at":
			if !hasValue {
				return fmt.Errorf("option %s needs a value", key)
			}
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("option %s: %w", key, err)
			}
			t.start = n
		case "":
			// Trailing separator; nothing to do.
		default:
			return fmt.Errorf("unknown template option %q", key)
		}
	}
	return nil
}

// expander fills in variables for one file after another, carrying the
// incrementing counter between calls.
type expander struct {
	fs      afero.Fs
	counter int64
}

func (x *expander) expand(t *Template, path string) (string, error) {
	var b strings.Builder
	for _, p := range t.parts {
		if p.variable == varNone {
			b.WriteString(p.literal)
			continue
		}
		s, err := x.variable(p.variable, path)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

func (x *expander) variable(v variable, path string) (string, error) {
	name := filepath.Base(path)
	if name == "." || name == string(filepath.Separator) {
		return "", ErrNoFilename
	}
	ext := filepath.Ext(name)

	switch v {
	case varFilename:
		return name, nil
	case varBase:
		return strings.TrimSuffix(name, ext), nil
	case varExtension:
		return strings.TrimPrefix(ext, "."), nil
	case varSize:
		info, err := x.fs.Stat(path)
		if err != nil {
			return "", fmt.Errorf("reading size: %w", err)
		}
		return strconv.FormatInt(info.Size(), 10), nil
	default: // varNumber
		n := x.counter
		x.counter++
		return strconv.FormatInt(n, 10), nil
	}
}

// Failure records why one file could not be renamed.
type Failure struct {
	Path string
	Err  error
}

// RenameAll renames every file to its expanded template, in place within
// its directory. A file that cannot be expanded or renamed is recorded and
// skipped; the rest continue.
func RenameAll(fsys afero.Fs, paths []string, t *Template) []Failure {
	x := &expander{fs: fsys, counter: t.start}

	var failures []Failure
	for _, path := range paths {
		name, err := x.expand(t, path)
		if err != nil {
			failures = append(failures, Failure{Path: path, Err: err})
			continue
		}
		dest := filepath.Join(filepath.Dir(path), name)
		if err := fsys.Rename(path, dest); err != nil {
			failures = append(failures, Failure{Path: path, Err: err})
			continue
		}
		log.Info().Str("from", path).Str("to", dest).Msg("renamed")
	}
	return failures
}

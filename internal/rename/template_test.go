package rename

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
)

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{name: "empty variable", raw: "prefix_{}", want: ErrEmptyVariable},
		{name: "unclosed brace", raw: "{filename", want: ErrUnbalancedBraces},
		{name: "stray closing brace", raw: "file}name", want: ErrUnbalancedBraces},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.raw); !errors.Is(err, tt.want) {
				t.Errorf("Parse(%q) error = %v, want %v", tt.raw, err, tt.want)
			}
		})
	}

	var unknown *UnknownVariableError
	if _, err := Parse("{nope}"); !errors.As(err, &unknown) || unknown.Name != "nope" {
		t.Errorf("Parse({nope}) error = %v, want UnknownVariableError", err)
	}

	if _, err := Parse("{filename}|incrementing_number_starts_at=abc"); err == nil {
		t.Error("Parse() accepted a non-numeric option value")
	}
	if _, err := Parse("{filename}|bogus_option=1"); err == nil {
		t.Error("Parse() accepted an unknown option")
	}
}

func TestExpand(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "/d/photo.jpeg", []byte("12345"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "literal only", raw: "fixed.txt", want: "fixed.txt"},
		{name: "filename", raw: "{filename}", want: "photo.jpeg"},
		{name: "base and extension", raw: "{filename_base}.old.{filename_extension}", want: "photo.old.jpeg"},
		{name: "size", raw: "{filename_base}_{filesize}b", want: "photo_5b"},
		{name: "number default start", raw: "{incrementing_number}", want: "0"},
		{name: "number custom start", raw: "{incrementing_number}|incrementing_number_starts_at=-3", want: "-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Parse(tt.raw)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.raw, err)
			}
			x := &expander{fs: fsys, counter: tmpl.start}
			got, err := x.expand(tmpl, "/d/photo.jpeg")
			if err != nil {
				t.Fatalf("expand() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("expand() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpandNoExtension(t *testing.T) {
	tmpl, err := Parse("{filename_base}|{filename_extension}|x")
	if err == nil {
		t.Fatal("Parse() accepted options that are not key=value")
	}

	tmpl, err = Parse("{filename_base}.{filename_extension}")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	x := &expander{fs: afero.NewMemMapFs()}
	got, err := x.expand(tmpl, "/d/README")
	if err != nil {
		t.Fatalf("expand() error = %v", err)
	}
	if got != "README." {
		t.Errorf("expand() = %q, want %q", got, "README.")
	}
}

func TestRenameAll(t *testing.T) {
	fsys := afero.NewMemMapFs()
	for _, p := range []string{"/d/a.txt", "/d/b.txt"} {
		if err := afero.WriteFile(fsys, p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	tmpl, err := Parse("file_{incrementing_number}.{filename_extension}|incrementing_number_starts_at=1")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	failures := RenameAll(fsys, []string{"/d/a.txt", "/d/b.txt", "/d/missing.txt"}, tmpl)

	for _, want := range []string{"/d/file_1.txt", "/d/file_2.txt"} {
		if ok, _ := afero.Exists(fsys, want); !ok {
			t.Errorf("expected %s to exist after rename", want)
		}
	}
	if len(failures) != 1 || failures[0].Path != "/d/missing.txt" {
		t.Errorf("failures = %v, want one for the missing file", failures)
	}
}

func TestRenameCounterSkipsFailures(t *testing.T) {
	// The counter advances when expansion succeeds, even if the rename
	// itself then fails. Pin that: expansion order drives the numbering.
	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "/d/a.txt", []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tmpl, err := Parse("n{incrementing_number}")
	if err != nil {
		t.Fatal(err)
	}

	failures := RenameAll(fsys, []string{"/d/missing.txt", "/d/a.txt"}, tmpl)
	if len(failures) != 1 {
		t.Fatalf("failures = %v, want one", failures)
	}
	if ok, _ := afero.Exists(fsys, "/d/n1"); !ok {
		t.Error("counter did not advance past the failed file")
	}
}

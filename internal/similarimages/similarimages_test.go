package similarimages

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/spf13/afero"
)

// writePNG renders a horizontal two-tone gradient and writes it as a PNG.
// The split point shifts the gradient, letting tests control similarity.
func writePNG(t *testing.T, fsys afero.Fs, path string, split int) {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if x < split {
				img.SetGray(x, y, color.Gray{Y: 32})
			} else {
				img.SetGray(x, y, color.Gray{Y: 224})
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fsys, path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

// writeNoisePNG renders a deterministic checkerboard-ish pattern far from
// any smooth gradient.
func writeNoisePNG(t *testing.T, fsys afero.Fs, path string) {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if (x/4+y/4)%2 == 0 {
				img.SetGray(x, y, color.Gray{Y: 0})
			} else {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fsys, path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFindSimilarPairs(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writePNG(t, fsys, "/img/a.png", 32)
	writePNG(t, fsys, "/img/b.png", 33) // nearly the same gradient
	writeNoisePNG(t, fsys, "/img/noise.png")

	for _, alg := range []Algorithm{Average, Difference, Perception} {
		t.Run(string(alg), func(t *testing.T) {
			opts := DefaultOptions()
			opts.Algorithm = alg

			pairs, failures := Find(context.Background(), fsys, []string{"/img/a.png", "/img/b.png", "/img/noise.png"}, opts)
			if len(failures) != 0 {
				t.Fatalf("failures = %v, want none", failures)
			}
			if len(pairs) != 1 || pairs[0].A != "/img/a.png" || pairs[0].B != "/img/b.png" {
				t.Errorf("pairs = %v, want only a.png and b.png", pairs)
			}
			if pairs != nil && pairs[0].Distance > opts.Threshold {
				t.Errorf("Distance = %d exceeds threshold %d", pairs[0].Distance, opts.Threshold)
			}
		})
	}
}

func TestFindIdenticalImages(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writePNG(t, fsys, "/img/a.png", 32)
	writePNG(t, fsys, "/img/b.png", 32)

	pairs, failures := Find(context.Background(), fsys, []string{"/img/a.png", "/img/b.png"}, DefaultOptions())
	if len(failures) != 0 {
		t.Fatalf("failures = %v, want none", failures)
	}
	if len(pairs) != 1 || pairs[0].Distance != 0 {
		t.Errorf("pairs = %v, want one pair at distance 0", pairs)
	}
}

func TestFindSkipsUndecodable(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writePNG(t, fsys, "/img/a.png", 32)
	writePNG(t, fsys, "/img/b.png", 32)
	if err := afero.WriteFile(fsys, "/img/not-an-image.png", []byte("plain text"), 0o644); err != nil {
		t.Fatal(err)
	}

	paths := []string{"/img/a.png", "/img/not-an-image.png", "/img/b.png", "/img/missing.png"}
	pairs, failures := Find(context.Background(), fsys, paths, DefaultOptions())

	if len(pairs) != 1 {
		t.Errorf("pairs = %v, want the decodable pair", pairs)
	}
	if len(failures) != 2 {
		t.Errorf("failures = %v, want two (undecodable and missing)", failures)
	}
}

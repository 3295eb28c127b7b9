package find

import (
	"context"
	"errors"
	"io/fs"
	"slices"
	"testing"
)

type walkStep struct {
	path  string
	entry Entry
	err   error
}

// fakeWalker replays a scripted sequence of entries per root.
type fakeWalker struct {
	steps   map[string][]walkStep
	walked  []string
	yielded int
}

func (w *fakeWalker) Walk(ctx context.Context, root string, opts WalkOptions, fn WalkFunc) error {
	w.walked = append(w.walked, root)
	for _, s := range w.steps[root] {
		w.yielded++
		switch err := fn(s.path, s.entry, s.err); {
		case errors.Is(err, fs.SkipAll):
			return nil
		case errors.Is(err, fs.SkipDir):
			// Scripted walks are flat; nothing to prune.
		case err != nil:
			return err
		}
	}
	return nil
}

func steps(entries ...Entry) []walkStep {
	s := make([]walkStep, len(entries))
	for i, e := range entries {
		s[i] = walkStep{path: e.Path(), entry: e}
	}
	return s
}

func TestFindMatchesInTraversalOrder(t *testing.T) {
	w := &fakeWalker{steps: map[string][]walkStep{
		"/x": steps(file("a.log", 10), file("b.txt", 20), file("c.log", 30)),
	}}

	opts := NewBuilder().AllOf(FilenameContains(".log")).Build()
	res, err := New(w).Find(context.Background(), []string{"/x"}, opts)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}

	want := []string{"/tmp/a.log", "/tmp/c.log"}
	if !slices.Equal(res.Matches, want) {
		t.Errorf("Matches = %v, want %v", res.Matches, want)
	}
	if len(res.EvalErrors) != 0 || len(res.WalkErrors) != 0 {
		t.Errorf("unexpected errors: eval=%v walk=%v", res.EvalErrors, res.WalkErrors)
	}
}

func TestFindResultCap(t *testing.T) {
	counting := &boolCriteria{result: true}
	w := &fakeWalker{steps: map[string][]walkStep{
		"/x": steps(file("a", 1), file("b", 2), file("c", 3)),
	}}

	opts := NewBuilder().Condition(Value(counting)).MaxResults(2).Build()
	res, err := New(w).Find(context.Background(), []string{"/x"}, opts)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}

	want := []string{"/tmp/a", "/tmp/b"}
	if !slices.Equal(res.Matches, want) {
		t.Errorf("Matches = %v, want exactly %v", res.Matches, want)
	}
	if counting.calls != 2 {
		t.Errorf("condition evaluated %d times, want 2 (no evaluation past the cap)", counting.calls)
	}
}

func TestFindCapStopsRemainingRoots(t *testing.T) {
	w := &fakeWalker{steps: map[string][]walkStep{
		"/first":  steps(file("a", 1), file("b", 2)),
		"/second": steps(file("c", 3)),
	}}

	opts := NewBuilder().MaxResults(2).Build()
	res, err := New(w).Find(context.Background(), []string{"/first", "/second"}, opts)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}

	if len(res.Matches) != 2 {
		t.Errorf("len(Matches) = %d, want 2", len(res.Matches))
	}
	if slices.Contains(w.walked, "/second") {
		t.Error("traversal continued into a root after the cap was reached")
	}
}

func TestFindRootOrderPreserved(t *testing.T) {
	w := &fakeWalker{steps: map[string][]walkStep{
		"/b": steps(file("b1", 1)),
		"/a": steps(file("a1", 1)),
	}}

	res, err := New(w).Find(context.Background(), []string{"/b", "/a"}, nil)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}

	want := []string{"/tmp/b1", "/tmp/a1"}
	if !slices.Equal(res.Matches, want) {
		t.Errorf("Matches = %v, want %v (root order first)", res.Matches, want)
	}
}

func TestFindIgnoreFilters(t *testing.T) {
	dir := &testEntry{path: "/x/sub", name: "sub", dir: true}
	hidden := &testEntry{path: "/x/.cache", name: ".cache"}
	plain := file("f.txt", 1)

	tests := []struct {
		name string
		opts *Options
		want []string
	}{
		{
			name: "ignore folders",
			opts: NewBuilder().Ignore(IgnoreFolders).Build(),
			want: []string{"/x/.cache", "/tmp/f.txt"},
		},
		{
			name: "ignore files",
			opts: NewBuilder().Ignore(IgnoreFiles).Build(),
			want: []string{"/x/sub"},
		},
		{
			name: "ignore hidden",
			opts: NewBuilder().IgnoreHidden(true).Build(),
			want: []string{"/x/sub", "/tmp/f.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &fakeWalker{steps: map[string][]walkStep{
				"/x": steps(dir, hidden, plain),
			}}
			res, err := New(w).Find(context.Background(), []string{"/x"}, tt.opts)
			if err != nil {
				t.Fatalf("Find() error = %v", err)
			}
			if !slices.Equal(res.Matches, tt.want) {
				t.Errorf("Matches = %v, want %v", res.Matches, tt.want)
			}
		})
	}
}

func TestFindIgnoreHiddenKeepsUnconvertibleNames(t *testing.T) {
	// A leading dot only hides a name representable as text; a name with
	// invalid bytes stays visible.
	garbled := &testEntry{path: "/x/.bad\xff", name: ".bad\xff"}
	hidden := &testEntry{path: "/x/.cache", name: ".cache"}

	w := &fakeWalker{steps: map[string][]walkStep{
		"/x": steps(hidden, garbled),
	}}
	res, err := New(w).Find(context.Background(), []string{"/x"}, NewBuilder().IgnoreHidden(true).Build())
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if !slices.Equal(res.Matches, []string{"/x/.bad\xff"}) {
		t.Errorf("Matches = %v, want only the unconvertible name", res.Matches)
	}
}

func TestFindFiltersRunBeforeConditions(t *testing.T) {
	w := &fakeWalker{steps: map[string][]walkStep{
		"/x": steps(&testEntry{path: "/x/.hidden", name: ".hidden"}),
	}}

	opts := NewBuilder().
		Condition(Value(&mustNotEvaluate{t: t})).
		IgnoreHidden(true).
		Build()
	if _, err := New(w).Find(context.Background(), []string{"/x"}, opts); err != nil {
		t.Fatalf("Find() error = %v", err)
	}
}

func TestFindErrorChannels(t *testing.T) {
	broken := &testEntry{path: "/x/broken", name: "broken", statErr: fs.ErrPermission}
	w := &fakeWalker{steps: map[string][]walkStep{
		"/x": {
			{path: "/x/unreadable", err: fs.ErrPermission},
			{path: broken.path, entry: broken},
			{path: "/tmp/ok", entry: file("ok", 200)},
		},
	}}

	opts := NewBuilder().AllOf(SizeOver(100)).Build()
	res, err := New(w).Find(context.Background(), []string{"/x"}, opts)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}

	if !slices.Equal(res.Matches, []string{"/tmp/ok"}) {
		t.Errorf("Matches = %v, want only the readable entry", res.Matches)
	}
	if len(res.WalkErrors) != 1 || res.WalkErrors[0].Path != "/x/unreadable" {
		t.Errorf("WalkErrors = %v, want one for /x/unreadable", res.WalkErrors)
	}
	if len(res.EvalErrors) != 1 || res.EvalErrors[0].Path != "/x/broken" {
		t.Errorf("EvalErrors = %v, want one for /x/broken", res.EvalErrors)
	}
	if !errors.Is(res.EvalErrors[0], fs.ErrPermission) {
		t.Errorf("EvalErrors[0] = %v, want wrapped fs.ErrPermission", res.EvalErrors[0])
	}
}

func TestFindErroringEntryNeverMatches(t *testing.T) {
	// The second condition errors after the first already matched.
	e := file("f", 500)
	w := &fakeWalker{steps: map[string][]walkStep{"/x": steps(e)}}

	opts := NewBuilder().
		AllOf(SizeOver(100)).
		AllOf(CreatedAt(0)). // unsupported on this synthetic entry
		Build()
	res, err := New(w).Find(context.Background(), []string{"/x"}, opts)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}

	if len(res.Matches) != 0 {
		t.Errorf("Matches = %v, want none: a partial match must not survive an error", res.Matches)
	}
	if len(res.EvalErrors) != 1 || !errors.Is(res.EvalErrors[0], ErrUnsupportedField) {
		t.Errorf("EvalErrors = %v, want one ErrUnsupportedField", res.EvalErrors)
	}
}

func TestFindDepthBoundsValidated(t *testing.T) {
	w := &fakeWalker{steps: map[string][]walkStep{}}

	opts := NewBuilder().MinDepth(3).MaxDepth(1).Build()
	if _, err := New(w).Find(context.Background(), []string{"/x"}, opts); err == nil {
		t.Error("Find() accepted min depth > max depth")
	}
	if len(w.walked) != 0 {
		t.Error("walk started despite invalid depth bounds")
	}

	// Unlimited max depth places no bound on min depth.
	opts = NewBuilder().MinDepth(3).Build()
	if _, err := New(w).Find(context.Background(), []string{"/x"}, opts); err != nil {
		t.Errorf("Find() error = %v, want nil with unlimited max depth", err)
	}
}

func TestFindIdempotent(t *testing.T) {
	build := func() *fakeWalker {
		return &fakeWalker{steps: map[string][]walkStep{
			"/x": steps(file("a", 1), file("b", 2)),
		}}
	}

	opts := NewBuilder().AllOf(SizeOver(0)).Build()
	first, err := New(build()).Find(context.Background(), []string{"/x"}, opts)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	second, err := New(build()).Find(context.Background(), []string{"/x"}, opts)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}

	if !slices.Equal(first.Matches, second.Matches) {
		t.Errorf("repeated query differed: %v vs %v", first.Matches, second.Matches)
	}
}

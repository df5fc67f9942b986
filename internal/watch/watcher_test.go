// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

const waitLimit = 5 * time.Second

// start runs a watcher on dir and returns a channel that receives each batch.
func start(t *testing.T, dir string, ignore ...string) <-chan []string {
	t.Helper()

	batches := make(chan []string, 16)
	w, err := New(Config{
		Dir:      dir,
		Ignore:   ignore,
		Debounce: 50 * time.Millisecond,
		OnChange: func(_ context.Context, changed []string) error {
			batches <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Run() error = %v", err)
		}
	})
	return batches
}

func write(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("<sprite/>"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

// collect gathers batches until the paths in want have all been seen.
func collect(t *testing.T, batches <-chan []string, want ...string) []string {
	t.Helper()

	var seen []string
	deadline := time.After(waitLimit)
	for {
		if !slices.ContainsFunc(want, func(p string) bool { return !slices.Contains(seen, p) }) {
			return seen
		}
		select {
		case b := <-batches:
			seen = append(seen, b...)
		case <-deadline:
			t.Fatalf("saw %v before timeout, want %v", seen, want)
		}
	}
}

func TestChangesAreBatched(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "Sprites"), 0o755); err != nil {
		t.Fatal(err)
	}
	batches := start(t, dir)

	write(t, filepath.Join(dir, "Sprites", "spr_a.xml"))
	write(t, filepath.Join(dir, "Sprites", "spr_b.xml"))

	collect(t, batches, "Sprites/spr_a.xml", "Sprites/spr_b.xml")
}

func TestIgnoredPathsDoNotTrigger(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	batches := start(t, dir, "notes/**")
	if err := os.Mkdir(filepath.Join(dir, "notes"), 0o755); err != nil {
		t.Fatal(err)
	}

	write(t, filepath.Join(dir, ".scr_init.gml.swp"))
	write(t, filepath.Join(dir, "scr_init.gml~"))
	write(t, filepath.Join(dir, "notes", "todo.txt"))
	write(t, filepath.Join(dir, "Constants.xml"))

	seen := collect(t, batches, "Constants.xml")
	for _, p := range seen {
		if p != "Constants.xml" && p != "notes" {
			t.Errorf("ignored path %q reported", p)
		}
	}
}

func TestNewDirectoriesAreWatched(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	batches := start(t, dir)

	group := filepath.Join(dir, "Objects", "Enemies")
	if err := os.MkdirAll(group, 0o755); err != nil {
		t.Fatal(err)
	}
	collect(t, batches, "Objects")

	write(t, filepath.Join(group, "obj_bat.xml"))
	collect(t, batches, "Objects/Enemies/obj_bat.xml")
}

func TestHandlerErrorKeepsWatching(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	batches := make(chan []string, 16)
	w, err := New(Config{
		Dir:      dir,
		Debounce: 20 * time.Millisecond,
		OnChange: func(_ context.Context, changed []string) error {
			batches <- changed
			return errors.New("dangling reference")
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	write(t, filepath.Join(dir, "a.xml"))
	collect(t, batches, "a.xml")
	write(t, filepath.Join(dir, "b.xml"))
	collect(t, batches, "b.xml")
}

func TestRunTwice(t *testing.T) {
	t.Parallel()

	w, err := New(Config{Dir: t.TempDir(), OnChange: func(context.Context, []string) error { return nil }})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.Run(ctx); err != nil {
		t.Fatalf("Run() on canceled context error = %v", err)
	}
	if err := w.Run(ctx); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second Run() error = %v, want ErrAlreadyRunning", err)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "game.gmk")
	write(t, file)
	noop := func(context.Context, []string) error { return nil }

	tests := []struct {
		name string
		cfg  Config
	}{
		{"no handler", Config{Dir: t.TempDir()}},
		{"missing directory", Config{Dir: filepath.Join(t.TempDir(), "gone"), OnChange: noop}},
		{"file", Config{Dir: file, OnChange: noop}},
		{"bad pattern", Config{Dir: t.TempDir(), Ignore: []string{"[unclosed"}, OnChange: noop}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := New(tt.cfg); err == nil {
				t.Fatal("New() succeeded")
			}
		})
	}
}

func TestDefaultIgnores(t *testing.T) {
	t.Parallel()

	w := &Watcher{ignores: defaultIgnores}
	tests := []struct {
		rel  string
		want bool
	}{
		{".git", true},
		{".git/HEAD", true},
		{"Scripts/.scr_init.gml.swp", true},
		{"Scripts/scr_init.gml~", true},
		{"Rooms/4913", true},
		{".game.gmk.12345.tmp", true},
		{"Scripts/scr_init.gml", false},
		{"Project.toml", false},
		{"Included Files/_index.xml", false},
	}
	for _, tt := range tests {
		if got := w.ignored(tt.rel); got != tt.want {
			t.Errorf("ignored(%q) = %v, want %v", tt.rel, got, tt.want)
		}
	}
}

// SPDX-License-Identifier: MPL-2.0

package restree

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/gmksplit/gmksplit/internal/issue"
	"github.com/gmksplit/gmksplit/pkg/gmfile"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
}

func names(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}

func TestWalkIsPreOrderAndRestartable(t *testing.T) {
	t.Parallel()

	root := NewRoot()
	objects := root.AddChild("Objects", StatusPrimary, gmfile.KindObject)
	g := objects.AddChild("Enemies", StatusGroup, gmfile.KindObject)
	g.AddLeaf(&gmfile.Object{Header: gmfile.Header{Name: "obj_bat"}})
	objects.AddLeaf(&gmfile.Object{Header: gmfile.Header{Name: "obj_player"}})

	want := []string{"Objects", "Enemies", "obj_bat", "obj_player"}
	for range 2 {
		var got []string
		for n := range root.Walk() {
			got = append(got, n.Name)
		}
		if !slices.Equal(got, want) {
			t.Errorf("Walk() = %v, want %v", got, want)
		}
	}

	var first []string
	for n := range root.Walk() {
		first = append(first, n.Name)
		if len(first) == 2 {
			break
		}
	}
	if !slices.Equal(first, want[:2]) {
		t.Errorf("early break yielded %v", first)
	}

	res := root.Resources(gmfile.KindObject)
	if len(res) != 2 || res[0].Hdr().Name != "obj_bat" {
		t.Errorf("Resources() = %v", res)
	}
	if got := g.Children()[0].GroupPath(); !slices.Equal(got, []string{"Enemies"}) {
		t.Errorf("GroupPath() = %v", got)
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()

	a := gmfile.NewArchive()
	a.Sounds = []*gmfile.Sound{{Header: gmfile.Header{Name: "snd_b"}}, {Header: gmfile.Header{Name: "snd_a"}}}
	root := Default(a)

	want := []string{"Sprites", "Sounds", "Backgrounds", "Paths", "Scripts", "Fonts",
		"Time Lines", "Objects", "Rooms", "Game Information", "Extension Packages"}
	if got := names(root.Children()); !slices.Equal(got, want) {
		t.Errorf("root children = %v, want %v", got, want)
	}
	if got := names(root.KindRoot(gmfile.KindSound).Children()); !slices.Equal(got, []string{"snd_b", "snd_a"}) {
		t.Errorf("sounds = %v, want archive order", got)
	}
}

func TestFromDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, filepath.Join(dir, "Objects", "obj_b.xml"))
	touch(t, filepath.Join(dir, "Objects", "obj_a.xml"))
	touch(t, filepath.Join(dir, "Objects", "Enemies", "obj_bat.xml"))
	touch(t, filepath.Join(dir, "Objects", "Enemies", "obj_bat.png"))
	touch(t, filepath.Join(dir, "Objects", "Empty", "notes.txt"))
	touch(t, filepath.Join(dir, "Objects", ".git", "obj_hidden.xml"))
	touch(t, filepath.Join(dir, "Sprites", "spr.0.png"))
	touch(t, filepath.Join(dir, "Unknown", "thing.xml"))

	root, err := FromDirectory(dir)
	if err != nil {
		t.Fatalf("FromDirectory() error = %v", err)
	}

	objects := root.KindRoot(gmfile.KindObject)
	if got := names(objects.Children()); !slices.Equal(got, []string{"Enemies", "obj_a", "obj_b"}) {
		t.Errorf("objects = %v", got)
	}
	bat := objects.Child("Enemies").Children()[0]
	if !bat.IsLeaf() || bat.Kind != gmfile.KindObject || bat.Path != filepath.Join(dir, "Objects", "Enemies", "obj_bat.xml") {
		t.Errorf("leaf = %+v", bat)
	}
	if n := len(root.KindRoot(gmfile.KindSprite).Children()); n != 0 {
		t.Errorf("sprites root has %d children, want 0", n)
	}
	if root.Child("Unknown") != nil {
		t.Error("unknown top-level directory was scanned")
	}
}

func TestOrderFileRoundTrip(t *testing.T) {
	t.Parallel()

	root := NewRoot()
	rooms := root.AddChild("Rooms", StatusPrimary, gmfile.KindRoom)
	rooms.AddLeaf(&gmfile.Room{Header: gmfile.Header{Name: "rm_title"}})
	rooms.AddLeaf(&gmfile.Room{Header: gmfile.Header{Name: "rm_level"}})
	rooms.AddChild("Unused", StatusGroup, gmfile.KindRoom)

	data, needed, err := rooms.OrderFile()
	if err != nil || !needed {
		t.Fatalf("OrderFile() = needed %v, err %v", needed, err)
	}

	dir := t.TempDir()
	touch(t, filepath.Join(dir, "Rooms", "rm_level.xml"))
	touch(t, filepath.Join(dir, "Rooms", "rm_title.xml"))
	touch(t, filepath.Join(dir, "Rooms", "rm_new.xml"))
	if err := os.MkdirAll(filepath.Join(dir, "Rooms", "Unused"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Rooms", OrderFileName), data, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := FromDirectory(dir)
	if err != nil {
		t.Fatalf("FromDirectory() error = %v", err)
	}
	children := got.KindRoot(gmfile.KindRoom).Children()
	want := []string{"rm_title", "rm_level", "Unused", "rm_new"}
	if !slices.Equal(names(children), want) {
		t.Errorf("rooms = %v, want %v", names(children), want)
	}
	if !children[2].Declared || children[2].IsLeaf() {
		t.Error("declared empty group was not kept as a group")
	}
}

func TestOrderFileNotNeeded(t *testing.T) {
	t.Parallel()

	root := NewRoot()
	scripts := root.AddChild("Scripts", StatusPrimary, gmfile.KindScript)
	scripts.AddChild("Util", StatusGroup, gmfile.KindScript).AddLeaf(&gmfile.Script{Header: gmfile.Header{Name: "scr_clamp"}})
	scripts.AddLeaf(&gmfile.Script{Header: gmfile.Header{Name: "scr_a"}})

	if _, needed, err := scripts.OrderFile(); err != nil || needed {
		t.Errorf("OrderFile() needed = %v, err = %v; want lexical order to need none", needed, err)
	}
}

func TestBadOrderFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, filepath.Join(dir, "Fonts", "fnt.xml"))
	if err := os.WriteFile(filepath.Join(dir, "Fonts", OrderFileName), []byte(`<order><folder name="x"/></order>`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := FromDirectory(dir); !errors.Is(err, issue.ErrMalformedData) {
		t.Errorf("FromDirectory() error = %v, want MalformedData", err)
	}
}

func TestFromDirectorySkipsForeignXML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(rel, content string) {
		t.Helper()
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("Objects/obj_a.xml", `<?xml version="1.0"?><object><visible>true</visible></object>`)
	write("Objects/notes.xml", `<?xml version="1.0"?><!-- editor notes --><notes>todo</notes>`)
	write("Objects/Docs/readme.xml", `<readme/>`)
	write("Objects/obj_sprite.xml", `<sprite/>`)
	write("Objects/obj_broken.xml", `not xml at all`)

	root, err := FromDirectory(dir)
	if err != nil {
		t.Fatalf("FromDirectory() error = %v", err)
	}

	// A resource of the wrong kind and an unparsable file stay, so reading
	// them reports the problem.
	want := []string{"obj_a", "obj_broken", "obj_sprite"}
	if got := names(root.KindRoot(gmfile.KindObject).Children()); !slices.Equal(got, want) {
		t.Errorf("objects = %v, want %v", got, want)
	}
	wantSkipped := []string{
		filepath.Join(dir, "Objects", "Docs", "readme.xml"),
		filepath.Join(dir, "Objects", "notes.xml"),
	}
	if !slices.Equal(root.Skipped, wantSkipped) {
		t.Errorf("Skipped = %v, want %v", root.Skipped, wantSkipped)
	}
}

// SPDX-License-Identifier: MPL-2.0

package container

import (
	"bytes"
	"errors"
	"slices"
	"testing"

	"github.com/gmksplit/gmksplit/internal/issue"
	"github.com/gmksplit/gmksplit/internal/restree"
	"github.com/gmksplit/gmksplit/internal/testutil"
	"github.com/gmksplit/gmksplit/pkg/gmfile"
)

func treeNames(root *restree.Node) []string {
	var names []string
	for n := range root.Walk() {
		names = append(names, n.Name)
	}
	return names
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		t.Run(c.String(), func(t *testing.T) {
			t.Parallel()

			a, tree := testutil.SampleArchive()
			data, err := Encode(a, tree, c)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}

			got, gotTree, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			again, err := Encode(got, gotTree, c)
			if err != nil {
				t.Fatalf("Encode() of decoded archive error = %v", err)
			}
			if !bytes.Equal(data, again) {
				t.Error("re-encoding a decoded archive changed the bytes")
			}

			if !slices.Equal(treeNames(tree), treeNames(gotTree)) {
				t.Errorf("tree = %v, want %v", treeNames(gotTree), treeNames(tree))
			}
			if got.Objects[2].Parent.IsSet() || got.Objects[1].Parent.ID() != 0 {
				t.Errorf("object parents = %v, %v", got.Objects[1].Parent.ID(), got.Objects[2].Parent.ID())
			}
			if string(got.Sprites[0].Subimages[1]) != "\x89PNG player 1" {
				t.Errorf("subimage = %q", got.Sprites[0].Subimages[1])
			}
		})
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	t.Parallel()

	a1, tree1 := testutil.SampleArchive()
	a2, tree2 := testutil.SampleArchive()
	d1, err := Encode(a1, tree1, CompressionZstd)
	if err != nil {
		t.Fatal(err)
	}
	d2, err := Encode(a2, tree2, CompressionZstd)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(d1, d2) {
		t.Error("equal archives encoded to different bytes")
	}
}

func TestDecodeRejectsDamage(t *testing.T) {
	t.Parallel()

	a, tree := testutil.SampleArchive()
	data, err := Encode(a, tree, CompressionNone)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		mutate func([]byte) []byte
	}{
		{"flipped body byte", func(d []byte) []byte { d[headerSize+3] ^= 0xFF; return d }},
		{"truncated", func(d []byte) []byte { return d[:len(d)-1] }},
		{"bad magic", func(d []byte) []byte { d[0] = 'X'; return d }},
		{"too short", func(d []byte) []byte { return d[:10] }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			damaged := tt.mutate(slices.Clone(data))
			if _, _, err := Decode(damaged); !errors.Is(err, issue.ErrMalformedData) {
				t.Errorf("Decode() error = %v, want MalformedData", err)
			}
		})
	}
}

func TestDecodeWithoutTree(t *testing.T) {
	t.Parallel()

	a, _ := testutil.SampleArchive()
	data, err := Encode(a, nil, CompressionLZ4)
	if err != nil {
		t.Fatal(err)
	}
	got, tree, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	objects := tree.KindRoot(gmfile.KindObject)
	if objects == nil || len(objects.Children()) != len(got.Objects) {
		t.Fatalf("default tree does not list every object")
	}
	for i, c := range objects.Children() {
		if c.Res != got.Objects[i] {
			t.Errorf("object leaf %d = %q, want %q", i, c.Name, got.Objects[i].Name)
		}
	}
	if tree.Child("Game Information") == nil || tree.Child("Extension Packages") == nil {
		t.Error("default tree lacks the secondary roots")
	}
}

func TestDecodeAddsResourcesMissingFromTree(t *testing.T) {
	t.Parallel()

	a, _ := testutil.SampleArchive()
	tree := restree.NewRoot()
	tree.AddChild(gmfile.KindObject.RootName(), restree.StatusPrimary, gmfile.KindObject).AddLeaf(a.Objects[2])

	data, err := Encode(a, tree, CompressionNone)
	if err != nil {
		t.Fatal(err)
	}
	got, gotTree, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	var names []string
	for _, c := range gotTree.KindRoot(gmfile.KindObject).Children() {
		names = append(names, c.Name)
	}
	want := []string{"obj_player", "obj_solid", "obj_wall"}
	if !slices.Equal(names, want) {
		t.Errorf("object leaves = %v, want %v", names, want)
	}
	if len(gotTree.KindRoot(gmfile.KindSprite).Children()) != len(got.Sprites) {
		t.Error("sprites missing from the decoded tree")
	}
}

func TestEncodeRejectsForeignLeaf(t *testing.T) {
	t.Parallel()

	a, _ := testutil.SampleArchive()
	tree := restree.NewRoot()
	stray := &gmfile.Script{Header: gmfile.Header{ID: 9, Name: "stray"}}
	tree.AddChild(gmfile.KindScript.RootName(), restree.StatusPrimary, gmfile.KindScript).AddLeaf(stray)

	if _, err := Encode(a, tree, CompressionNone); !errors.Is(err, issue.ErrInternal) {
		t.Errorf("Encode() error = %v, want Internal", err)
	}
}

func TestParseCompression(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Compression
		wantErr bool
	}{
		{"none", CompressionNone, false},
		{"LZ4", CompressionLZ4, false},
		{" zstd ", CompressionZstd, false},
		{"gzip", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseCompression(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseCompression(%q) = %v, %v", tt.in, got, err)
		}
	}
}

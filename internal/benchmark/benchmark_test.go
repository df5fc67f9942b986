// SPDX-License-Identifier: MPL-2.0

package benchmark

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gmksplit/gmksplit/internal/config"
	"github.com/gmksplit/gmksplit/internal/reconcile"
	"github.com/gmksplit/gmksplit/internal/restree"
	"github.com/gmksplit/gmksplit/internal/splitter"
	"github.com/gmksplit/gmksplit/pkg/gmfile"
	"github.com/gmksplit/gmksplit/pkg/gmfile/container"
)

// largeArchive builds a project with n sprites, n objects and n/10 rooms. Every
// object refers to a sprite and most to a parent, and every room places
// instances of the objects, so reference resolution is exercised.
func largeArchive(n int) (*gmfile.Archive, *restree.Node) {
	a := gmfile.NewArchive()
	code := strings.Repeat("x = x + 1;\r\n", 20)

	for i := range n {
		a.Sprites = append(a.Sprites, &gmfile.Sprite{
			Header:    gmfile.Header{ID: gmfile.ID(i), Name: fmt.Sprintf("spr_%04d", i)},
			Preload:   true,
			Subimages: [][]byte{[]byte(strings.Repeat("p", 512))},
		})
		obj := &gmfile.Object{
			Header:  gmfile.Header{ID: gmfile.ID(i), Name: fmt.Sprintf("obj_%04d", i)},
			Sprite:  gmfile.RefID(gmfile.ID(i)),
			Visible: true,
			Events: []gmfile.Event{{
				Type: gmfile.EventStep,
				Actions: []gmfile.Action{{
					LibID:     1,
					ActionID:  603,
					Arguments: []gmfile.Argument{{Kind: gmfile.ArgExpression, Value: code}},
				}},
			}},
		}
		if i > 0 && i%4 != 0 {
			obj.Parent = gmfile.RefID(gmfile.ID(i - 1))
		}
		a.Objects = append(a.Objects, obj)
	}
	for r := range max(n/10, 1) {
		room := &gmfile.Room{
			Header:       gmfile.Header{ID: gmfile.ID(r), Name: fmt.Sprintf("rm_%03d", r)},
			Width:        640,
			Height:       480,
			Speed:        30,
			CreationCode: code,
		}
		for i := range n {
			a.LastInstanceID++
			room.Instances = append(room.Instances, gmfile.Instance{
				ID:     a.LastInstanceID,
				X:      i * 32 % 640,
				Y:      i * 32 / 640 * 32,
				Object: gmfile.RefID(gmfile.ID(i)),
			})
		}
		a.Rooms = append(a.Rooms, room)
	}
	return a, restree.Default(a)
}

func benchOptions() splitter.Options {
	opts := splitter.DefaultOptions()
	opts.Policy = reconcile.PolicyAll
	return opts
}

// BenchmarkContainerEncode benchmarks encoding per compression.
func BenchmarkContainerEncode(b *testing.B) {
	a, tree := largeArchive(200)
	for _, c := range []container.Compression{container.CompressionNone, container.CompressionLZ4, container.CompressionZstd} {
		b.Run(c.String(), func(b *testing.B) {
			for b.Loop() {
				if _, err := container.Encode(a, tree, c); err != nil {
					b.Fatalf("Encode failed: %v", err)
				}
			}
		})
	}
}

// BenchmarkContainerDecode benchmarks decoding per compression.
func BenchmarkContainerDecode(b *testing.B) {
	a, tree := largeArchive(200)
	for _, c := range []container.Compression{container.CompressionNone, container.CompressionLZ4, container.CompressionZstd} {
		data, err := container.Encode(a, tree, c)
		if err != nil {
			b.Fatalf("Encode failed: %v", err)
		}
		b.Run(c.String(), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			for b.Loop() {
				if _, _, err := container.Decode(data); err != nil {
					b.Fatalf("Decode failed: %v", err)
				}
			}
		})
	}
}

// BenchmarkDecompose benchmarks writing an archive as a directory tree.
func BenchmarkDecompose(b *testing.B) {
	a, tree := largeArchive(200)
	s := splitter.New(benchOptions(), nil)
	root := b.TempDir()

	i := 0
	for b.Loop() {
		dir := filepath.Join(root, fmt.Sprintf("run%d", i))
		i++
		if err := s.DecomposeArchive(context.Background(), a, tree, dir); err != nil {
			b.Fatalf("DecomposeArchive failed: %v", err)
		}
	}
}

// BenchmarkCompose benchmarks reading a directory tree back into an archive,
// including reference resolution and identifier reconciliation.
func BenchmarkCompose(b *testing.B) {
	a, tree := largeArchive(200)
	s := splitter.New(benchOptions(), nil)
	dir := filepath.Join(b.TempDir(), "project")
	if err := s.DecomposeArchive(context.Background(), a, tree, dir); err != nil {
		b.Fatalf("DecomposeArchive failed: %v", err)
	}

	for b.Loop() {
		if _, _, err := s.ComposeArchive(context.Background(), dir); err != nil {
			b.Fatalf("ComposeArchive failed: %v", err)
		}
	}
}

// BenchmarkConfigLoad benchmarks CUE validation and the Viper merge.
func BenchmarkConfigLoad(b *testing.B) {
	dir := b.TempDir()
	cfgPath := filepath.Join(dir, "config.cue")
	if err := os.WriteFile(cfgPath, []byte(config.GenerateCUE(config.DefaultConfig())), 0o644); err != nil {
		b.Fatalf("Failed to write config: %v", err)
	}
	provider := config.NewProvider()

	for b.Loop() {
		if _, _, err := provider.Load(context.Background(), config.LoadOptions{ConfigFilePath: cfgPath}); err != nil {
			b.Fatalf("Load failed: %v", err)
		}
	}
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/gmksplit/gmksplit/internal/testutil"
	"github.com/gmksplit/gmksplit/pkg/gmfile/container"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"gmksplit": Main,
	}))
}

// TestScripts runs the end-to-end CLI scripts in testdata/script.
func TestScripts(t *testing.T) {
	t.Parallel()

	testscript.Run(t, testscript.Params{
		Dir: filepath.Join("testdata", "script"),
		Setup: func(env *testscript.Env) error {
			env.Setenv("XDG_CONFIG_HOME", filepath.Join(env.WorkDir, "xdg"))
			env.Setenv("NO_COLOR", "1")
			return nil
		},
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			"mkarchive": mkarchive,
		},
	})
}

// mkarchive writes the sample archive to a file:
//
//	mkarchive <path> [none|lz4|zstd]
func mkarchive(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("unsupported: ! mkarchive")
	}
	if len(args) < 1 || len(args) > 2 {
		ts.Fatalf("usage: mkarchive <path> [compression]")
	}
	c := container.CompressionZstd
	if len(args) == 2 {
		var err error
		c, err = container.ParseCompression(args[1])
		ts.Check(err)
	}
	a, tree := testutil.SampleArchive()
	data, err := container.Encode(a, tree, c)
	ts.Check(err)
	ts.Check(os.WriteFile(ts.MkAbs(args[0]), data, 0o644))
}

// SPDX-License-Identifier: MPL-2.0

package fsname

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/gmksplit/gmksplit/internal/issue"
)

func TestToFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		ok   bool
	}{
		{"plain", "spr_player", true},
		{"spaces inside", "Player Sprite", true},
		{"unicode", "Spieler_ß", true},
		{"dot inside", "v1.2", true},
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"slash", "a/b", false},
		{"backslash", `a\b`, false},
		{"colon", "a:b", false},
		{"question mark", "what?", false},
		{"star", "a*", false},
		{"pipe", "a|b", false},
		{"quote", `"x"`, false},
		{"angle", "<x>", false},
		{"control", "a\tb", false},
		{"dot", ".", false},
		{"dotdot", "..", false},
		{"hidden", ".git", false},
		{"trailing dot", "name.", false},
		{"trailing space", "name ", false},
		{"device", "CON", false},
		{"device lower case with extension", "nul.txt", false},
		{"device prefix is fine", "CONSOLE", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ToFilename(tt.in)
			if tt.ok {
				if err != nil {
					t.Fatalf("ToFilename(%q) error: %v", tt.in, err)
				}
				if got != tt.in {
					t.Errorf("ToFilename(%q) = %q, want the name unchanged", tt.in, got)
				}
				return
			}
			if !errors.Is(err, issue.ErrInvalidName) {
				t.Errorf("ToFilename(%q) error = %v, want InvalidName", tt.in, err)
			}
			if IsGoodFilename(tt.in) {
				t.Errorf("IsGoodFilename(%q) = true", tt.in)
			}
		})
	}
}

func TestToFilename_Deterministic(t *testing.T) {
	t.Parallel()

	for range 3 {
		_, err1 := ToFilename("a:b")
		_, err2 := ToFilename("a:b")
		if err1.Error() != err2.Error() {
			t.Fatalf("errors differ: %v vs %v", err1, err2)
		}
	}
}

func TestPathSet_Claim(t *testing.T) {
	t.Parallel()

	root := filepath.Join("out", "game")
	set := NewPathSet(root)

	if err := set.Claim(filepath.Join(root, "Sprites", "Test.xml"), `sprite "Test"`); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if err := set.Claim(filepath.Join(root, "Sprites", "Other.xml"), `sprite "Other"`); err != nil {
		t.Fatalf("distinct claim: %v", err)
	}

	err := set.Claim(filepath.Join(root, "Sprites", "TEST.xml"), `sprite "TEST"`)
	if !errors.Is(err, issue.ErrPathCollision) {
		t.Fatalf("case-folded claim error = %v, want PathCollision", err)
	}
	var ce *issue.ConvertError
	if !errors.As(err, &ce) || ce.Path != "Sprites/TEST.xml" {
		t.Errorf("collision path = %+v, want Sprites/TEST.xml", ce)
	}
	if set.Len() != 2 {
		t.Errorf("Len() = %d, want 2", set.Len())
	}
}

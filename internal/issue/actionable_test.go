// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "compose archive"},
			expected: "compose archive",
		},
		{
			name:     "operation with resource",
			err:      &ActionableError{Operation: "compose archive", Resource: "game-src"},
			expected: "compose archive game-src",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "decompose archive",
				Resource:  "game.gmk",
				Cause:     errors.New("checksum mismatch"),
			},
			expected: "decompose archive game.gmk: checksum mismatch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	cause := Wrap(IOFailure, fmt.Errorf("open: %w", fs.ErrPermission)).
		WithResource("sprite", "spr_player").
		WithID(3).
		WithPath("Sprites/spr_player.xml")
	err := NewErrorContext().
		WithOperation("decompose archive").
		WithResource("game.gmk").
		Wrap(cause).
		Build()

	if err.Kind != IOFailure {
		t.Errorf("Kind = %v, want IOFailure", err.Kind)
	}

	short := err.Format(false)
	if !strings.Contains(short, "• Check permissions") {
		t.Errorf("Format(false) missing default suggestion: %q", short)
	}
	if strings.Contains(short, "Details:") || strings.Contains(short, "Caused by:") {
		t.Errorf("Format(false) should be brief: %q", short)
	}

	long := err.Format(true)
	for _, want := range []string{
		"kind:     IOFailure",
		`resource: sprite "spr_player" (id 3)`,
		"file:     Sprites/spr_player.xml",
		"1. open: permission denied",
		"2. permission denied",
	} {
		if !strings.Contains(long, want) {
			t.Errorf("Format(true) missing %q:\n%s", want, long)
		}
	}
	if strings.Contains(long, "i/o failure") {
		t.Errorf("Format(true) lists the kind sentinel as a cause:\n%s", long)
	}

	if !errors.Is(err, ErrIOFailure) || !errors.Is(err, fs.ErrPermission) {
		t.Error("ActionableError should unwrap to its cause")
	}
}

func TestErrorContext_BuildWithoutOperation(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if NewErrorContext().BuildError() != nil {
		t.Error("BuildError() without operation should return nil")
	}
	if WrapWithOperation(nil, "x") != nil {
		t.Error("WrapWithOperation(nil) should return nil")
	}
}

func TestErrorContext_Suggestions(t *testing.T) {
	t.Parallel()

	explicit := NewErrorContext().
		WithOperation("compose archive").
		WithSuggestions("one", "two").
		WithSuggestion("three").
		Wrap(New(DuplicateIdentifier, "id 4")).
		Build()
	if len(explicit.Suggestions) != 3 {
		t.Errorf("len(Suggestions) = %d, want 3", len(explicit.Suggestions))
	}

	defaults := WrapWithOperation(New(DuplicateIdentifier, "id 4"), "compose archive")
	if len(defaults.Suggestions) != 2 || !strings.Contains(defaults.Suggestions[1], "--preserve-ids none") {
		t.Errorf("Suggestions = %v, want the DuplicateIdentifier defaults", defaults.Suggestions)
	}

	plain := WrapWithOperation(errors.New("boom"), "compose archive")
	if plain.Kind != 0 || len(plain.Suggestions) != 0 {
		t.Errorf("plain error got kind %v and suggestions %v", plain.Kind, plain.Suggestions)
	}
}

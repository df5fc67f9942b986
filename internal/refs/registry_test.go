// SPDX-License-Identifier: MPL-2.0

package refs

import (
	"errors"
	"strings"
	"testing"

	"github.com/gmksplit/gmksplit/internal/issue"
	"github.com/gmksplit/gmksplit/pkg/gmfile"
)

func source(name, field string) Source {
	return Source{Kind: gmfile.KindObject, Name: name, Field: field}
}

func TestRegistry_DeferThenDeclare(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	obj := &gmfile.Object{Header: gmfile.Header{ID: 0, Name: "Obj_Player"}}
	spr := &gmfile.Sprite{Header: gmfile.Header{ID: 7, Name: "Player"}}

	r.Defer(gmfile.KindSprite, "Player", source("Obj_Player", "sprite"), func(target gmfile.Resource) {
		obj.Sprite = gmfile.RefTo(target)
	})
	if obj.Sprite.IsSet() {
		t.Fatal("callback ran before the target was declared")
	}
	if len(r.Unresolved()) != 1 {
		t.Fatalf("Unresolved() = %v, want one entry", r.Unresolved())
	}

	if err := r.Declare(spr); err != nil {
		t.Fatalf("Declare() error = %v", err)
	}
	if obj.Sprite.ID() != 7 {
		t.Errorf("obj.Sprite.ID() = %d, want 7", obj.Sprite.ID())
	}
	if err := r.AssertResolved(); err != nil {
		t.Errorf("AssertResolved() = %v", err)
	}

	spr.ID = 2
	if obj.Sprite.ID() != 2 {
		t.Errorf("bound reference did not follow renumbering: got %d", obj.Sprite.ID())
	}
}

func TestRegistry_DeclareThenDefer(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	parent := &gmfile.Object{Header: gmfile.Header{ID: 3, Name: "Obj_Base"}}
	if err := r.Declare(parent); err != nil {
		t.Fatalf("Declare() error = %v", err)
	}

	called := false
	r.Defer(gmfile.KindObject, "Obj_Base", source("Obj_Child", "parent"), func(target gmfile.Resource) {
		called = target == parent
	})
	if !called {
		t.Error("callback for an already declared target should run immediately")
	}
	if got, ok := r.Lookup(gmfile.KindObject, "Obj_Base"); !ok || got != parent {
		t.Error("Lookup() did not return the declared resource")
	}
}

func TestRegistry_KindsAreSeparate(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Defer(gmfile.KindObject, "Player", source("Obj_A", "parent"), func(gmfile.Resource) {
		t.Error("object reference resolved by a sprite of the same name")
	})
	if err := r.Declare(&gmfile.Sprite{Header: gmfile.Header{Name: "Player"}}); err != nil {
		t.Fatalf("Declare() error = %v", err)
	}

	err := r.AssertResolved()
	if !errors.Is(err, issue.ErrDanglingReference) {
		t.Fatalf("AssertResolved() = %v, want DanglingReference", err)
	}
	if !strings.Contains(err.Error(), `object "Obj_A"`) || !strings.Contains(err.Error(), `missing object "Player"`) {
		t.Errorf("error does not name source and target: %v", err)
	}
}

func TestRegistry_DuplicateDeclaration(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	first := &gmfile.Script{Header: gmfile.Header{ID: 0, Name: "scr_init"}}
	second := &gmfile.Script{Header: gmfile.Header{ID: 1, Name: "scr_init"}}

	var got gmfile.Resource
	r.Defer(gmfile.KindScript, "scr_init", source("Obj_A", "action 0 argument 0"), func(target gmfile.Resource) {
		got = target
	})
	if err := r.Declare(first); err != nil {
		t.Fatalf("Declare(first) error = %v", err)
	}

	err := r.Declare(second)
	if !errors.Is(err, issue.ErrPathCollision) {
		t.Fatalf("Declare(second) error = %v, want PathCollision", err)
	}
	for _, want := range []string{`"scr_init"`, "(id 0)"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
	if got != first {
		t.Error("reference should stay bound to the first declared resource")
	}
	if res, _ := r.Lookup(gmfile.KindScript, "scr_init"); res != first {
		t.Error("a rejected declaration replaced the first one")
	}

	// The same name in another kind is not a duplicate.
	if err := r.Declare(&gmfile.Sprite{Header: gmfile.Header{Name: "scr_init"}}); err != nil {
		t.Errorf("Declare() of a sprite error = %v", err)
	}
}

func TestRegistry_AssertResolvedCountsRemainder(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	noop := func(gmfile.Resource) {}
	r.Defer(gmfile.KindSprite, "a", source("Obj_1", "sprite"), noop)
	r.Defer(gmfile.KindSprite, "a", source("Obj_2", "sprite"), noop)
	r.Defer(gmfile.KindRoom, "b", source("Obj_3", "action 1 argument 0"), noop)

	pending := r.Unresolved()
	if len(pending) != 3 {
		t.Fatalf("len(Unresolved()) = %d, want 3", len(pending))
	}
	if pending[2].Target.Kind != gmfile.KindRoom {
		t.Errorf("Unresolved() order = %v", pending)
	}

	err := r.AssertResolved()
	if !strings.Contains(err.Error(), "and 2 more") {
		t.Errorf("error should count the remaining references: %v", err)
	}
}

// SPDX-License-Identifier: MPL-2.0

package gmfile

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
)

func TestRef(t *testing.T) {
	t.Parallel()

	target := &Object{Header: Header{ID: 4, Name: "obj"}}

	tests := []struct {
		name   string
		ref    Ref
		wantID ID
		isSet  bool
	}{
		{"zero value", Ref{}, NoID, false},
		{"negative raw id", RefID(-1), NoID, false},
		{"raw id", RefID(7), 7, true},
		{"bound", RefTo(target), 4, true},
		{"bound to nil", RefTo(nil), NoID, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.ref.ID(); got != tt.wantID {
				t.Errorf("ID() = %d, want %d", got, tt.wantID)
			}
			if got := tt.ref.IsSet(); got != tt.isSet {
				t.Errorf("IsSet() = %v, want %v", got, tt.isSet)
			}
		})
	}
}

func TestRefFollowsRenumbering(t *testing.T) {
	t.Parallel()

	target := &Sprite{Header: Header{ID: NoID, Name: "spr"}}
	ref := RefTo(target)
	target.ID = 12
	if ref.ID() != 12 {
		t.Errorf("ID() = %d after renumbering, want 12", ref.ID())
	}
}

func TestRefCBOR(t *testing.T) {
	t.Parallel()

	for _, ref := range []Ref{{}, RefID(3), RefTo(&Room{Header: Header{ID: 9}})} {
		data, err := cbor.Marshal(ref)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		var got Ref
		if err := cbor.Unmarshal(data, &got); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if got.ID() != ref.ID() || got.IsSet() != ref.IsSet() {
			t.Errorf("round trip of %d gave %d", ref.ID(), got.ID())
		}
	}
}

func TestArchiveResources(t *testing.T) {
	t.Parallel()

	a := NewArchive()
	for _, k := range TreeKinds {
		res := []Resource{New(k, "a"), New(k, "b")}
		if err := a.SetResources(k, res); err != nil {
			t.Fatalf("SetResources(%s) error = %v", k, err)
		}
		got := a.Resources(k)
		if len(got) != 2 || got[1].Hdr().Name != "b" || got[0].Kind() != k {
			t.Errorf("Resources(%s) = %v", k, got)
		}
	}

	if err := a.SetResources(KindSprite, []Resource{New(KindSound, "x")}); err == nil {
		t.Error("SetResources accepted a sound in the sprite list")
	}
	if err := a.SetResources(KindConstants, nil); err == nil {
		t.Error("SetResources accepted a non-tree kind")
	}
	if err := a.SetResources(KindFont, nil); err != nil || a.Fonts != nil {
		t.Errorf("SetResources(empty) = %v, fonts %v", err, a.Fonts)
	}
}

func TestArchiveResolve(t *testing.T) {
	t.Parallel()

	a := NewArchive()
	s := &Sprite{Header: Header{ID: 3, Name: "spr"}}
	a.Sprites = []*Sprite{s}

	if got := a.Resolve(KindSprite, RefID(3)); got != s {
		t.Errorf("Resolve(raw 3) = %v", got)
	}
	if got := a.Resolve(KindSprite, RefID(4)); got != nil {
		t.Errorf("Resolve(raw 4) = %v, want nil", got)
	}
	other := &Sprite{Header: Header{ID: 8}}
	if got := a.Resolve(KindSprite, RefTo(other)); got != other {
		t.Errorf("Resolve(bound) = %v, want bound target", got)
	}
}

func TestKindNames(t *testing.T) {
	t.Parallel()

	for _, k := range TreeKinds {
		if got, ok := KindByName(k.String()); !ok || got != k {
			t.Errorf("KindByName(%q) = %v, %v", k.String(), got, ok)
		}
		if got, ok := KindByRootName(k.RootName()); !ok || got != k {
			t.Errorf("KindByRootName(%q) = %v, %v", k.RootName(), got, ok)
		}
		if !k.IsTreeKind() {
			t.Errorf("%s is not a tree kind", k)
		}
	}
	if KindGameInfo.IsTreeKind() {
		t.Error("game information is a tree kind")
	}
	if KindTimeline.RootName() != "Time Lines" {
		t.Errorf("timeline root = %q", KindTimeline.RootName())
	}
}

func TestActionNames(t *testing.T) {
	t.Parallel()

	if et, ok := ParseEventType("collision"); !ok || et != EventCollision {
		t.Errorf("ParseEventType(collision) = %v, %v", et, ok)
	}
	if _, ok := ParseEventType("teleport"); ok {
		t.Error("ParseEventType accepted an unknown name")
	}
	if k, ok := ArgObject.ResourceKind(); !ok || k != KindObject {
		t.Errorf("ArgObject.ResourceKind() = %v, %v", k, ok)
	}
	if _, ok := ArgColor.ResourceKind(); ok {
		t.Error("colour arguments do not reference resources")
	}
	if ak, ok := ParseArgKind(ArgFontString.String()); !ok || ak != ArgFontString {
		t.Errorf("ParseArgKind(%q) = %v, %v", ArgFontString.String(), ak, ok)
	}
}

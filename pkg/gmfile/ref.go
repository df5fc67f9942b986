// SPDX-License-Identifier: MPL-2.0

package gmfile

import "github.com/fxamacker/cbor/v2"

// NoID marks an identifier that is absent or not yet assigned.
const NoID ID = -1

type (
	// ID is a per-kind resource identifier.
	ID int

	// Ref is a reference from one resource field to another resource.
	// The zero value is the empty reference.
	Ref struct {
		id     ID
		target Resource
		set    bool
	}
)

// RefID returns a reference to the raw identifier id. Negative ids yield the
// empty reference.
func RefID(id ID) Ref {
	if id < 0 {
		return Ref{}
	}
	return Ref{id: id, set: true}
}

// RefTo returns a reference bound to target.
func RefTo(target Resource) Ref {
	if target == nil {
		return Ref{}
	}
	return Ref{target: target, set: true}
}

// IsSet reports whether the reference points anywhere.
func (r Ref) IsSet() bool { return r.set }

// ID returns the identifier of the referenced resource, or NoID.
// A bound reference reads the target's current identifier.
func (r Ref) ID() ID {
	switch {
	case !r.set:
		return NoID
	case r.target != nil:
		return r.target.Hdr().ID
	default:
		return r.id
	}
}

// Target returns the bound target, or nil for raw and empty references.
func (r Ref) Target() Resource { return r.target }

// MarshalCBOR encodes the reference as its identifier (-1 when empty).
func (r Ref) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(int64(r.ID()))
}

// UnmarshalCBOR decodes an identifier written by MarshalCBOR.
func (r *Ref) UnmarshalCBOR(data []byte) error {
	var v int64
	if err := cbor.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = RefID(ID(v))
	return nil
}

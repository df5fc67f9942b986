// SPDX-License-Identifier: MPL-2.0

package format

import (
	"encoding/xml"

	"github.com/gmksplit/gmksplit/pkg/gmfile"
)

type xmlObject struct {
	XMLName    xml.Name   `xml:"object"`
	ID         *int       `xml:"id,attr,omitempty"`
	Sprite     string     `xml:"sprite"`
	Solid      bool       `xml:"solid"`
	Visible    bool       `xml:"visible"`
	Depth      int        `xml:"depth"`
	Persistent bool       `xml:"persistent"`
	Parent     string     `xml:"parent"`
	Mask       string     `xml:"mask"`
	Events     []xmlEvent `xml:"events>event"`
}

func encodeObject(e *encoder, o *gmfile.Object) (*xmlObject, error) {
	sprite, err := e.ref(gmfile.KindSprite, o.Sprite, "sprite")
	if err != nil {
		return nil, err
	}
	parent, err := e.ref(gmfile.KindObject, o.Parent, "parent")
	if err != nil {
		return nil, err
	}
	mask, err := e.ref(gmfile.KindSprite, o.Mask, "mask")
	if err != nil {
		return nil, err
	}
	events, err := encodeEvents(e, o.Events)
	if err != nil {
		return nil, err
	}
	return &xmlObject{
		ID:         e.id(),
		Sprite:     sprite,
		Solid:      o.Solid,
		Visible:    o.Visible,
		Depth:      o.Depth,
		Persistent: o.Persistent,
		Parent:     parent,
		Mask:       mask,
		Events:     events,
	}, nil
}

func decodeObject(d *decoder, x *xmlObject, o *gmfile.Object) error {
	if err := d.root(x.XMLName, x.ID); err != nil {
		return err
	}
	d.ref(gmfile.KindSprite, x.Sprite, "sprite", func(r gmfile.Ref) { o.Sprite = r })
	o.Solid = x.Solid
	o.Visible = x.Visible
	o.Depth = x.Depth
	o.Persistent = x.Persistent
	d.ref(gmfile.KindObject, x.Parent, "parent", func(r gmfile.Ref) { o.Parent = r })
	d.ref(gmfile.KindSprite, x.Mask, "mask", func(r gmfile.Ref) { o.Mask = r })

	events, err := decodeEvents(d, x.Events)
	if err != nil {
		return err
	}
	o.Events = events
	return nil
}

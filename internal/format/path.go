// SPDX-License-Identifier: MPL-2.0

package format

import (
	"encoding/xml"

	"github.com/gmksplit/gmksplit/pkg/gmfile"
)

type (
	xmlPath struct {
		XMLName   xml.Name       `xml:"path"`
		ID        *int           `xml:"id,attr,omitempty"`
		Smooth    bool           `xml:"smooth"`
		Closed    bool           `xml:"closed"`
		Precision int            `xml:"precision"`
		Room      string         `xml:"backgroundRoom"`
		Snap      xmlPoint       `xml:"snap"`
		Points    []xmlPathPoint `xml:"points>point"`
	}

	xmlPathPoint struct {
		X     float64 `xml:"x,attr"`
		Y     float64 `xml:"y,attr"`
		Speed float64 `xml:"speed,attr"`
	}
)

func encodePath(e *encoder, p *gmfile.Path) (*xmlPath, error) {
	room, err := e.ref(gmfile.KindRoom, p.BackgroundRoom, "background room")
	if err != nil {
		return nil, err
	}
	x := &xmlPath{
		ID:        e.id(),
		Smooth:    p.Smooth,
		Closed:    p.Closed,
		Precision: p.Precision,
		Room:      room,
		Snap:      xmlPoint{X: p.SnapX, Y: p.SnapY},
	}
	for _, pt := range p.Points {
		x.Points = append(x.Points, xmlPathPoint(pt))
	}
	return x, nil
}

func decodePath(d *decoder, x *xmlPath, p *gmfile.Path) error {
	if err := d.root(x.XMLName, x.ID); err != nil {
		return err
	}
	p.Smooth = x.Smooth
	p.Closed = x.Closed
	p.Precision = x.Precision
	d.ref(gmfile.KindRoom, x.Room, "background room", func(r gmfile.Ref) { p.BackgroundRoom = r })
	p.SnapX, p.SnapY = x.Snap.X, x.Snap.Y
	for _, pt := range x.Points {
		p.Points = append(p.Points, gmfile.PathPoint(pt))
	}
	return nil
}

// SPDX-License-Identifier: MPL-2.0

package format

import (
	"encoding/xml"
	"fmt"

	"github.com/gmksplit/gmksplit/pkg/gmfile"
)

// defaultView is the geometry of a view that was never configured.
var defaultView = gmfile.View{
	ViewW: 640, ViewH: 480,
	PortW: 640, PortH: 480,
	HBorder: 32, VBorder: 32,
	HSpeed: -1, VSpeed: -1,
}

type (
	xmlRoom struct {
		XMLName             xml.Name            `xml:"room"`
		ID                  *int                `xml:"id,attr,omitempty"`
		Caption             string              `xml:"caption"`
		Width               int                 `xml:"width"`
		Height              int                 `xml:"height"`
		Speed               int                 `xml:"speed"`
		Persistent          bool                `xml:"persistent"`
		BackgroundColor     uint32              `xml:"backgroundColor"`
		DrawBackgroundColor bool                `xml:"drawBackgroundColor"`
		CreationCode        Text                `xml:"creationCode"`
		Backgrounds         []xmlRoomBackground `xml:"backgrounds>background"`
		EnableViews         bool                `xml:"enableViews"`
		Views               []xmlView           `xml:"views>view"`
		Instances           []xmlInstance       `xml:"instances>instance"`
		Tiles               []xmlTile           `xml:"tiles>tile"`
	}

	// Zero-valued attributes of room parts are left out; a missing
	// attribute reads back as zero.
	xmlRoomBackground struct {
		Visible    bool   `xml:"visible,attr"`
		Foreground bool   `xml:"foreground,attr,omitempty"`
		Background string `xml:"image,attr,omitempty"`
		X          int    `xml:"x,attr,omitempty"`
		Y          int    `xml:"y,attr,omitempty"`
		TileH      bool   `xml:"tileH,attr,omitempty"`
		TileV      bool   `xml:"tileV,attr,omitempty"`
		HSpeed     int    `xml:"hSpeed,attr,omitempty"`
		VSpeed     int    `xml:"vSpeed,attr,omitempty"`
		Stretch    bool   `xml:"stretch,attr,omitempty"`
	}

	// View geometry is absent only when it was omitted as disabled, in which
	// case it reads back as defaultView.
	xmlView struct {
		Visible bool   `xml:"visible,attr"`
		ViewX   *int   `xml:"viewX,attr,omitempty"`
		ViewY   *int   `xml:"viewY,attr,omitempty"`
		ViewW   *int   `xml:"viewW,attr,omitempty"`
		ViewH   *int   `xml:"viewH,attr,omitempty"`
		PortX   *int   `xml:"portX,attr,omitempty"`
		PortY   *int   `xml:"portY,attr,omitempty"`
		PortW   *int   `xml:"portW,attr,omitempty"`
		PortH   *int   `xml:"portH,attr,omitempty"`
		HBorder *int   `xml:"hBorder,attr,omitempty"`
		VBorder *int   `xml:"vBorder,attr,omitempty"`
		HSpeed  *int   `xml:"hSpeed,attr,omitempty"`
		VSpeed  *int   `xml:"vSpeed,attr,omitempty"`
		Follow  string `xml:"follow,attr,omitempty"`
	}

	xmlInstance struct {
		ID     int    `xml:"id,attr"`
		X      int    `xml:"x,attr"`
		Y      int    `xml:"y,attr"`
		Object string `xml:"object,attr"`
		Locked bool   `xml:"locked,attr,omitempty"`
		Code   Text   `xml:"code,omitempty"`
	}

	xmlTile struct {
		ID         int    `xml:"id,attr"`
		X          int    `xml:"x,attr"`
		Y          int    `xml:"y,attr"`
		Background string `xml:"background,attr"`
		TileX      int    `xml:"tileX,attr"`
		TileY      int    `xml:"tileY,attr"`
		Width      int    `xml:"width,attr"`
		Height     int    `xml:"height,attr"`
		Depth      int    `xml:"depth,attr"`
		Locked     bool   `xml:"locked,attr,omitempty"`
	}
)

func encodeRoom(e *encoder, r *gmfile.Room) (*xmlRoom, error) {
	x := &xmlRoom{
		ID:                  e.id(),
		Caption:             r.Caption,
		Width:               r.Width,
		Height:              r.Height,
		Speed:               r.Speed,
		Persistent:          r.Persistent,
		BackgroundColor:     r.BackgroundColor,
		DrawBackgroundColor: r.DrawBackgroundColor,
		CreationCode:        e.code(r.CreationCode),
		EnableViews:         r.EnableViews,
	}

	for i, b := range r.Backgrounds {
		name, err := e.ref(gmfile.KindBackground, b.Background, fmt.Sprintf("background layer %d", i))
		if err != nil {
			return nil, err
		}
		x.Backgrounds = append(x.Backgrounds, xmlRoomBackground{
			Visible:    b.Visible,
			Foreground: b.Foreground,
			Background: name,
			X:          b.X,
			Y:          b.Y,
			TileH:      b.TileH,
			TileV:      b.TileV,
			HSpeed:     b.HSpeed,
			VSpeed:     b.VSpeed,
			Stretch:    b.Stretch,
		})
	}

	for i, v := range r.Views {
		follow, err := e.ref(gmfile.KindObject, v.Follow, fmt.Sprintf("view %d follow", i))
		if err != nil {
			return nil, err
		}
		x.Views = append(x.Views, encodeView(e, v, follow))
	}

	for _, in := range r.Instances {
		obj, err := e.ref(gmfile.KindObject, in.Object, fmt.Sprintf("instance %d object", in.ID))
		if err != nil {
			return nil, err
		}
		x.Instances = append(x.Instances, xmlInstance{
			ID:     in.ID,
			X:      in.X,
			Y:      in.Y,
			Object: obj,
			Locked: in.Locked,
			Code:   e.code(in.CreationCode),
		})
	}

	for _, t := range r.Tiles {
		bg, err := e.ref(gmfile.KindBackground, t.Background, fmt.Sprintf("tile %d background", t.ID))
		if err != nil {
			return nil, err
		}
		x.Tiles = append(x.Tiles, xmlTile{
			ID:         t.ID,
			X:          t.X,
			Y:          t.Y,
			Background: bg,
			TileX:      t.TileX,
			TileY:      t.TileY,
			Width:      t.Width,
			Height:     t.Height,
			Depth:      t.Depth,
			Locked:     t.Locked,
		})
	}
	return x, nil
}

func encodeView(e *encoder, v gmfile.View, follow string) xmlView {
	geometry := v
	geometry.Visible = false
	geometry.Follow = gmfile.Ref{}
	omit := e.opts().OmitDisabledFields && !v.Visible && follow == "" && geometry == defaultView

	return xmlView{
		Visible: v.Visible,
		ViewX:   omitted(omit, v.ViewX),
		ViewY:   omitted(omit, v.ViewY),
		ViewW:   omitted(omit, v.ViewW),
		ViewH:   omitted(omit, v.ViewH),
		PortX:   omitted(omit, v.PortX),
		PortY:   omitted(omit, v.PortY),
		PortW:   omitted(omit, v.PortW),
		PortH:   omitted(omit, v.PortH),
		HBorder: omitted(omit, v.HBorder),
		VBorder: omitted(omit, v.VBorder),
		HSpeed:  omitted(omit, v.HSpeed),
		VSpeed:  omitted(omit, v.VSpeed),
		Follow:  follow,
	}
}

func decodeRoom(d *decoder, x *xmlRoom, r *gmfile.Room) error {
	if err := d.root(x.XMLName, x.ID); err != nil {
		return err
	}
	r.Caption = x.Caption
	r.Width = x.Width
	r.Height = x.Height
	r.Speed = x.Speed
	r.Persistent = x.Persistent
	r.BackgroundColor = x.BackgroundColor
	r.DrawBackgroundColor = x.DrawBackgroundColor
	r.CreationCode = d.code(x.CreationCode)
	r.EnableViews = x.EnableViews

	if len(x.Backgrounds) > 0 {
		r.Backgrounds = make([]gmfile.RoomBackground, len(x.Backgrounds))
	}
	for i, xb := range x.Backgrounds {
		b := &r.Backgrounds[i]
		*b = gmfile.RoomBackground{
			Visible:    xb.Visible,
			Foreground: xb.Foreground,
			X:          xb.X,
			Y:          xb.Y,
			TileH:      xb.TileH,
			TileV:      xb.TileV,
			HSpeed:     xb.HSpeed,
			VSpeed:     xb.VSpeed,
			Stretch:    xb.Stretch,
		}
		d.ref(gmfile.KindBackground, xb.Background, fmt.Sprintf("background layer %d", i),
			func(ref gmfile.Ref) { b.Background = ref })
	}

	if len(x.Views) > 0 {
		r.Views = make([]gmfile.View, len(x.Views))
	}
	for i, xv := range x.Views {
		v := &r.Views[i]
		*v = gmfile.View{
			Visible: xv.Visible,
			ViewX:   deref(xv.ViewX, defaultView.ViewX),
			ViewY:   deref(xv.ViewY, defaultView.ViewY),
			ViewW:   deref(xv.ViewW, defaultView.ViewW),
			ViewH:   deref(xv.ViewH, defaultView.ViewH),
			PortX:   deref(xv.PortX, defaultView.PortX),
			PortY:   deref(xv.PortY, defaultView.PortY),
			PortW:   deref(xv.PortW, defaultView.PortW),
			PortH:   deref(xv.PortH, defaultView.PortH),
			HBorder: deref(xv.HBorder, defaultView.HBorder),
			VBorder: deref(xv.VBorder, defaultView.VBorder),
			HSpeed:  deref(xv.HSpeed, defaultView.HSpeed),
			VSpeed:  deref(xv.VSpeed, defaultView.VSpeed),
		}
		d.ref(gmfile.KindObject, xv.Follow, fmt.Sprintf("view %d follow", i),
			func(ref gmfile.Ref) { v.Follow = ref })
	}

	if len(x.Instances) > 0 {
		r.Instances = make([]gmfile.Instance, len(x.Instances))
	}
	for i, xi := range x.Instances {
		in := &r.Instances[i]
		*in = gmfile.Instance{
			ID:           xi.ID,
			X:            xi.X,
			Y:            xi.Y,
			CreationCode: d.code(xi.Code),
			Locked:       xi.Locked,
		}
		d.ref(gmfile.KindObject, xi.Object, fmt.Sprintf("instance %d object", xi.ID),
			func(ref gmfile.Ref) { in.Object = ref })
	}

	if len(x.Tiles) > 0 {
		r.Tiles = make([]gmfile.Tile, len(x.Tiles))
	}
	for i, xt := range x.Tiles {
		t := &r.Tiles[i]
		*t = gmfile.Tile{
			ID:     xt.ID,
			X:      xt.X,
			Y:      xt.Y,
			TileX:  xt.TileX,
			TileY:  xt.TileY,
			Width:  xt.Width,
			Height: xt.Height,
			Depth:  xt.Depth,
			Locked: xt.Locked,
		}
		d.ref(gmfile.KindBackground, xt.Background, fmt.Sprintf("tile %d background", xt.ID),
			func(ref gmfile.Ref) { t.Background = ref })
	}
	return nil
}

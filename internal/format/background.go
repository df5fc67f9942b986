// SPDX-License-Identifier: MPL-2.0

package format

import (
	"encoding/xml"

	"github.com/gmksplit/gmksplit/pkg/gmfile"
)

const (
	imageSuffix = ".png"

	defaultTileSize = 16
)

type (
	xmlBackground struct {
		XMLName     xml.Name   `xml:"background"`
		ID          *int       `xml:"id,attr,omitempty"`
		Transparent bool       `xml:"transparent"`
		Smooth      bool       `xml:"smooth"`
		Preload     bool       `xml:"preload"`
		Tileset     xmlTileset `xml:"tileset"`
	}

	xmlTileset struct {
		Enabled bool `xml:"enabled,attr"`
		Width   *int `xml:"width,attr,omitempty"`
		Height  *int `xml:"height,attr,omitempty"`
		HOffset *int `xml:"hOffset,attr,omitempty"`
		VOffset *int `xml:"vOffset,attr,omitempty"`
		HSep    *int `xml:"hSep,attr,omitempty"`
		VSep    *int `xml:"vSep,attr,omitempty"`
	}
)

func defaultTileGeometry(b *gmfile.Background) bool {
	return b.TileWidth == defaultTileSize && b.TileHeight == defaultTileSize &&
		b.HOffset == 0 && b.VOffset == 0 && b.HSep == 0 && b.VSep == 0
}

func encodeBackground(e *encoder, b *gmfile.Background) (*xmlBackground, error) {
	omit := e.opts().OmitDisabledFields && !b.Tileset && defaultTileGeometry(b)
	if len(b.Image) > 0 {
		e.blob(imageSuffix, b.Image)
	}
	return &xmlBackground{
		ID:          e.id(),
		Transparent: b.Transparent,
		Smooth:      b.Smooth,
		Preload:     b.Preload,
		Tileset: xmlTileset{
			Enabled: b.Tileset,
			Width:   omitted(omit, b.TileWidth),
			Height:  omitted(omit, b.TileHeight),
			HOffset: omitted(omit, b.HOffset),
			VOffset: omitted(omit, b.VOffset),
			HSep:    omitted(omit, b.HSep),
			VSep:    omitted(omit, b.VSep),
		},
	}, nil
}

func decodeBackground(d *decoder, x *xmlBackground, b *gmfile.Background) error {
	if err := d.root(x.XMLName, x.ID); err != nil {
		return err
	}
	b.Transparent = x.Transparent
	b.Smooth = x.Smooth
	b.Preload = x.Preload
	b.Tileset = x.Tileset.Enabled
	b.TileWidth = deref(x.Tileset.Width, defaultTileSize)
	b.TileHeight = deref(x.Tileset.Height, defaultTileSize)
	b.HOffset = deref(x.Tileset.HOffset, 0)
	b.VOffset = deref(x.Tileset.VOffset, 0)
	b.HSep = deref(x.Tileset.HSep, 0)
	b.VSep = deref(x.Tileset.VSep, 0)

	img, err := d.optionalBlob(imageSuffix)
	if err != nil {
		return err
	}
	if len(img) > 0 {
		b.Image = img
	}
	return nil
}

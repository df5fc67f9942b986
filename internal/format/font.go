// SPDX-License-Identifier: MPL-2.0

package format

import (
	"encoding/xml"

	"github.com/gmksplit/gmksplit/pkg/gmfile"
)

type (
	xmlFont struct {
		XMLName  xml.Name     `xml:"font"`
		ID       *int         `xml:"id,attr,omitempty"`
		FontName string       `xml:"fontName"`
		Size     int          `xml:"size"`
		Bold     bool         `xml:"bold"`
		Italic   bool         `xml:"italic"`
		Range    xmlCharRange `xml:"range"`
	}

	xmlCharRange struct {
		Min int `xml:"min,attr"`
		Max int `xml:"max,attr"`
	}
)

func encodeFont(e *encoder, f *gmfile.Font) (*xmlFont, error) {
	return &xmlFont{
		ID:       e.id(),
		FontName: f.FontName,
		Size:     f.Size,
		Bold:     f.Bold,
		Italic:   f.Italic,
		Range:    xmlCharRange{Min: f.RangeMin, Max: f.RangeMax},
	}, nil
}

func decodeFont(d *decoder, x *xmlFont, f *gmfile.Font) error {
	if err := d.root(x.XMLName, x.ID); err != nil {
		return err
	}
	f.FontName = x.FontName
	f.Size = x.Size
	f.Bold = x.Bold
	f.Italic = x.Italic
	f.RangeMin, f.RangeMax = x.Range.Min, x.Range.Max
	return nil
}

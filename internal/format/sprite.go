// SPDX-License-Identifier: MPL-2.0

package format

import (
	"encoding/xml"
	"fmt"

	"github.com/gmksplit/gmksplit/internal/issue"
	"github.com/gmksplit/gmksplit/pkg/gmfile"
)

var bboxModeNames = []string{"automatic", "full", "manual"}

type (
	xmlSprite struct {
		XMLName          xml.Name `xml:"sprite"`
		ID               *int     `xml:"id,attr,omitempty"`
		Origin           xmlPoint `xml:"origin"`
		Transparent      bool     `xml:"transparent"`
		Smooth           bool     `xml:"smooth"`
		Preload          bool     `xml:"preload"`
		BBox             xmlBBox  `xml:"bbox"`
		PreciseCollision bool     `xml:"preciseCollision"`
		SeparateMasks    bool     `xml:"separateMasks"`
		Subimages        int      `xml:"subimages"`
	}

	xmlPoint struct {
		X int `xml:"x,attr"`
		Y int `xml:"y,attr"`
	}

	xmlBBox struct {
		Mode   string `xml:"mode,attr"`
		Left   *int   `xml:"left,attr,omitempty"`
		Right  *int   `xml:"right,attr,omitempty"`
		Top    *int   `xml:"top,attr,omitempty"`
		Bottom *int   `xml:"bottom,attr,omitempty"`
	}
)

// subimageSuffix names the sibling file of subimage i.
func subimageSuffix(i int) string { return fmt.Sprintf(".%d.png", i) }

func encodeSprite(e *encoder, s *gmfile.Sprite) (*xmlSprite, error) {
	if int(s.BBoxMode) >= len(bboxModeNames) {
		return nil, issue.New(issue.MalformedData, "unknown bounding box mode %d", s.BBoxMode)
	}
	omit := e.opts().OmitDisabledFields && s.BBoxMode != gmfile.BBoxManual && s.BBox == (gmfile.Rect{})
	x := &xmlSprite{
		ID:          e.id(),
		Origin:      xmlPoint{X: s.OriginX, Y: s.OriginY},
		Transparent: s.Transparent,
		Smooth:      s.Smooth,
		Preload:     s.Preload,
		BBox: xmlBBox{
			Mode:   bboxModeNames[s.BBoxMode],
			Left:   omitted(omit, s.BBox.Left),
			Right:  omitted(omit, s.BBox.Right),
			Top:    omitted(omit, s.BBox.Top),
			Bottom: omitted(omit, s.BBox.Bottom),
		},
		PreciseCollision: s.PreciseCollision,
		SeparateMasks:    s.SeparateMasks,
		Subimages:        len(s.Subimages),
	}
	for i, img := range s.Subimages {
		e.blob(subimageSuffix(i), img)
	}
	return x, nil
}

func decodeSprite(d *decoder, x *xmlSprite, s *gmfile.Sprite) error {
	if err := d.root(x.XMLName, x.ID); err != nil {
		return err
	}
	mode, ok := parseName(bboxModeNames, x.BBox.Mode)
	if !ok {
		return issue.New(issue.MalformedData, "unknown bounding box mode %q", x.BBox.Mode)
	}
	if x.Subimages < 0 {
		return issue.New(issue.MalformedData, "negative subimage count %d", x.Subimages)
	}

	s.OriginX, s.OriginY = x.Origin.X, x.Origin.Y
	s.Transparent = x.Transparent
	s.Smooth = x.Smooth
	s.Preload = x.Preload
	s.BBoxMode = gmfile.BBoxMode(mode)
	s.BBox = gmfile.Rect{
		Left:   deref(x.BBox.Left, 0),
		Right:  deref(x.BBox.Right, 0),
		Top:    deref(x.BBox.Top, 0),
		Bottom: deref(x.BBox.Bottom, 0),
	}
	s.PreciseCollision = x.PreciseCollision
	s.SeparateMasks = x.SeparateMasks

	if x.Subimages > 0 {
		s.Subimages = make([][]byte, x.Subimages)
	}
	for i := range s.Subimages {
		img, err := d.blob(subimageSuffix(i))
		if err != nil {
			return err
		}
		s.Subimages[i] = img
	}
	return nil
}

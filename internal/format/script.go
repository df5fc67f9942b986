// SPDX-License-Identifier: MPL-2.0

package format

import (
	"encoding/xml"

	"github.com/gmksplit/gmksplit/pkg/gmfile"
)

// codeSuffix is the extension of script code files.
const codeSuffix = ".gml"

// xmlScript only carries the identifier; the code lives in <Name>.gml.
type xmlScript struct {
	XMLName xml.Name `xml:"script"`
	ID      *int     `xml:"id,attr,omitempty"`
}

func encodeScript(e *encoder, s *gmfile.Script) (*xmlScript, error) {
	e.blob(codeSuffix, []byte(e.code(s.Code)))
	return &xmlScript{ID: e.id()}, nil
}

func decodeScript(d *decoder, x *xmlScript, s *gmfile.Script) error {
	if err := d.root(x.XMLName, x.ID); err != nil {
		return err
	}
	code, err := d.blob(codeSuffix)
	if err != nil {
		return err
	}
	s.Code = d.code(Text(code))
	return nil
}

// SPDX-License-Identifier: MPL-2.0

package format

import (
	"encoding/xml"
	"fmt"

	"github.com/gmksplit/gmksplit/pkg/gmfile"
)

type (
	xmlTimeline struct {
		XMLName xml.Name    `xml:"timeline"`
		ID      *int        `xml:"id,attr,omitempty"`
		Moments []xmlMoment `xml:"moment"`
	}

	xmlMoment struct {
		Step    int         `xml:"step,attr"`
		Actions []xmlAction `xml:"action"`
	}
)

func encodeTimeline(e *encoder, t *gmfile.Timeline) (*xmlTimeline, error) {
	x := &xmlTimeline{ID: e.id()}
	for _, m := range t.Moments {
		actions, err := encodeActions(e, fmt.Sprintf("step %d", m.Step), m.Actions)
		if err != nil {
			return nil, err
		}
		x.Moments = append(x.Moments, xmlMoment{Step: m.Step, Actions: actions})
	}
	return x, nil
}

func decodeTimeline(d *decoder, x *xmlTimeline, t *gmfile.Timeline) error {
	if err := d.root(x.XMLName, x.ID); err != nil {
		return err
	}
	if len(x.Moments) == 0 {
		return nil
	}
	t.Moments = make([]gmfile.Moment, len(x.Moments))
	for i, xm := range x.Moments {
		actions, err := decodeActions(d, fmt.Sprintf("step %d", xm.Step), xm.Actions)
		if err != nil {
			return err
		}
		t.Moments[i] = gmfile.Moment{Step: xm.Step, Actions: actions}
	}
	return nil
}

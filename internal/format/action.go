// SPDX-License-Identifier: MPL-2.0

package format

import (
	"encoding/xml"
	"fmt"

	"github.com/gmksplit/gmksplit/internal/issue"
	"github.com/gmksplit/gmksplit/pkg/gmfile"
)

var appliesToNames = []string{"self", "other", "object"}

type (
	xmlAction struct {
		Lib       int           `xml:"lib,attr"`
		ID        int           `xml:"id,attr"`
		AppliesTo string        `xml:"appliesTo,attr"`
		Object    string        `xml:"object,attr,omitempty"`
		Relative  bool          `xml:"relative,attr"`
		Not       bool          `xml:"not,attr"`
		Arguments []xmlArgument `xml:"argument"`
	}

	xmlArgument struct {
		Kind  string `xml:"kind,attr"`
		Value Text   `xml:",chardata"`
	}

	xmlEvent struct {
		Type    string      `xml:"type,attr"`
		Num     int         `xml:"num,attr"`
		With    string      `xml:"with,attr,omitempty"`
		Actions []xmlAction `xml:"action"`
	}
)

// MarshalXML keeps newlines in argument values literal.
func (a xmlArgument) MarshalXML(enc *xml.Encoder, start xml.StartElement) error {
	start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "kind"}, Value: a.Kind})
	return a.Value.MarshalXML(enc, start)
}

func encodeActions(e *encoder, where string, actions []gmfile.Action) ([]xmlAction, error) {
	if len(actions) == 0 {
		return nil, nil
	}
	out := make([]xmlAction, len(actions))
	for i, a := range actions {
		field := fmt.Sprintf("%s action %d", where, i)
		if int(a.AppliesTo) >= len(appliesToNames) {
			return nil, issue.New(issue.MalformedData, "%s applies to unknown target %d", field, a.AppliesTo)
		}
		x := xmlAction{
			Lib:       a.LibID,
			ID:        a.ActionID,
			AppliesTo: appliesToNames[a.AppliesTo],
			Relative:  a.Relative,
			Not:       a.Not,
		}
		if a.AppliesTo == gmfile.AppliesObject {
			name, err := e.ref(gmfile.KindObject, a.AppliesObject, field+" applies to")
			if err != nil {
				return nil, err
			}
			x.Object = name
		}
		for j, arg := range a.Arguments {
			xa := xmlArgument{Kind: arg.Kind.String()}
			if k, ok := arg.Kind.ResourceKind(); ok {
				name, err := e.ref(k, arg.Ref, fmt.Sprintf("%s argument %d", field, j))
				if err != nil {
					return nil, err
				}
				xa.Value = Text(name)
			} else {
				xa.Value = e.code(arg.Value)
			}
			x.Arguments = append(x.Arguments, xa)
		}
		out[i] = x
	}
	return out, nil
}

func decodeActions(d *decoder, where string, xs []xmlAction) ([]gmfile.Action, error) {
	if len(xs) == 0 {
		return nil, nil
	}
	out := make([]gmfile.Action, len(xs))
	for i, x := range xs {
		field := fmt.Sprintf("%s action %d", where, i)
		a := &out[i]
		a.LibID = x.Lib
		a.ActionID = x.ID
		a.Relative = x.Relative
		a.Not = x.Not

		applies, ok := parseName(appliesToNames, x.AppliesTo)
		if !ok {
			return nil, issue.New(issue.MalformedData, "%s applies to unknown target %q", field, x.AppliesTo)
		}
		a.AppliesTo = gmfile.AppliesTo(applies)
		if a.AppliesTo == gmfile.AppliesObject {
			if x.Object == "" {
				return nil, issue.New(issue.MalformedData, "%s applies to an object but names none", field)
			}
			d.ref(gmfile.KindObject, x.Object, field+" applies to", func(r gmfile.Ref) { a.AppliesObject = r })
		}

		if len(x.Arguments) > 0 {
			a.Arguments = make([]gmfile.Argument, len(x.Arguments))
		}
		for j, xa := range x.Arguments {
			arg := &a.Arguments[j]
			kind, ok := gmfile.ParseArgKind(xa.Kind)
			if !ok {
				return nil, issue.New(issue.MalformedData, "%s argument %d has unknown kind %q", field, j, xa.Kind)
			}
			arg.Kind = kind
			if k, ok := kind.ResourceKind(); ok {
				d.ref(k, string(xa.Value), fmt.Sprintf("%s argument %d", field, j), func(r gmfile.Ref) { arg.Ref = r })
			} else {
				arg.Value = d.code(xa.Value)
			}
		}
	}
	return out, nil
}

func encodeEvents(e *encoder, events []gmfile.Event) ([]xmlEvent, error) {
	if len(events) == 0 {
		return nil, nil
	}
	out := make([]xmlEvent, len(events))
	for i, ev := range events {
		where := fmt.Sprintf("%s event %d", ev.Type, ev.Num)
		x := xmlEvent{Type: ev.Type.String(), Num: ev.Num}
		if ev.Type == gmfile.EventCollision {
			name, err := e.ref(gmfile.KindObject, ev.Other, where+" collides with")
			if err != nil {
				return nil, err
			}
			x.With = name
		}
		actions, err := encodeActions(e, where, ev.Actions)
		if err != nil {
			return nil, err
		}
		x.Actions = actions
		out[i] = x
	}
	return out, nil
}

func decodeEvents(d *decoder, xs []xmlEvent) ([]gmfile.Event, error) {
	if len(xs) == 0 {
		return nil, nil
	}
	out := make([]gmfile.Event, len(xs))
	for i, x := range xs {
		ev := &out[i]
		t, ok := gmfile.ParseEventType(x.Type)
		if !ok {
			return nil, issue.New(issue.MalformedData, "event %d has unknown type %q", i, x.Type)
		}
		ev.Type = t
		ev.Num = x.Num
		where := fmt.Sprintf("%s event %d", t, x.Num)
		if t == gmfile.EventCollision {
			d.ref(gmfile.KindObject, x.With, where+" collides with", func(r gmfile.Ref) { ev.Other = r })
		}
		actions, err := decodeActions(d, where, x.Actions)
		if err != nil {
			return nil, err
		}
		ev.Actions = actions
	}
	return out, nil
}

func parseName(names []string, s string) (int, bool) {
	for i, n := range names {
		if n == s {
			return i, true
		}
	}
	return 0, false
}

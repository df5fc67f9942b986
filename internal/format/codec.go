// SPDX-License-Identifier: MPL-2.0

package format

import (
	"encoding/xml"
	"os"
	"strings"

	"github.com/gmksplit/gmksplit/internal/issue"
	"github.com/gmksplit/gmksplit/internal/refs"
	"github.com/gmksplit/gmksplit/pkg/gmfile"
)

type (
	// Text is character data written with literal newlines, so that code
	// stays readable and diffs line by line. Carriage returns are escaped.
	Text string

	// encoder carries the state of writing one resource.
	encoder struct {
		set     *Set
		archive *gmfile.Archive
		res     gmfile.Resource
		// base is the resource path without extension.
		base  string
		files []file
	}

	// decoder carries the state of reading one resource.
	decoder struct {
		set  *Set
		reg  *refs.Registry
		res  gmfile.Resource
		path string
		base string
	}
)

// MarshalXML writes t as a single character data token. Unlike the default
// string encoding, newlines are not turned into character references.
func (t Text) MarshalXML(enc *xml.Encoder, start xml.StartElement) error {
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if t != "" {
		if err := enc.EncodeToken(xml.CharData(t)); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func (e *encoder) opts() Options { return e.set.opts }

// id returns the identifier to write, or nil when the policy drops it.
func (e *encoder) id() *int {
	h := e.res.Hdr()
	if h.ID == gmfile.NoID || !e.set.opts.Policy.Preserves(e.res.Kind()) {
		return nil
	}
	id := int(h.ID)
	return &id
}

// ref returns the name of the resource r points at, or "" for an empty
// reference.
func (e *encoder) ref(k gmfile.Kind, r gmfile.Ref, field string) (string, error) {
	if !r.IsSet() {
		return "", nil
	}
	target := e.archive.Resolve(k, r)
	if target == nil {
		return "", issue.New(issue.DanglingReference, "%s refers to missing %s (id %d)", field, k, r.ID())
	}
	return target.Hdr().Name, nil
}

// code prepares source code for writing.
func (e *encoder) code(s string) Text {
	if e.set.opts.ConvertLineEndings {
		s = strings.ReplaceAll(s, "\r\n", "\n")
	}
	return Text(s)
}

// blob queues a sibling file <base><suffix>.
func (e *encoder) blob(suffix string, data []byte) {
	e.files = append(e.files, file{path: e.base + suffix, data: data})
}

func (d *decoder) opts() Options { return d.set.opts }

// root checks the document element and takes over an optional identifier.
func (d *decoder) root(name xml.Name, id *int) error {
	want := d.res.Kind().String()
	if name.Local != want {
		return issue.New(issue.MalformedData, "root element is <%s>, want <%s>", name.Local, want)
	}
	if id == nil {
		return nil
	}
	if *id < 0 {
		return issue.New(issue.MalformedData, "negative id %d", *id)
	}
	d.res.Hdr().ID = gmfile.ID(*id)
	return nil
}

// ref defers binding a reference field until the target named name is read.
func (d *decoder) ref(k gmfile.Kind, name, field string, set func(gmfile.Ref)) {
	if name == "" {
		return
	}
	h := d.res.Hdr()
	src := refs.Source{Kind: d.res.Kind(), Name: h.Name, Field: field}
	d.reg.Defer(k, name, src, func(target gmfile.Resource) {
		set(gmfile.RefTo(target))
	})
}

// code restores source code after reading.
func (d *decoder) code(t Text) string {
	s := string(t)
	if d.set.opts.ConvertLineEndings {
		s = strings.ReplaceAll(s, "\r\n", "\n")
		s = strings.ReplaceAll(s, "\n", "\r\n")
	}
	return s
}

// blob reads the sibling file <base><suffix>, which must exist.
func (d *decoder) blob(suffix string) ([]byte, error) {
	p := d.base + suffix
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, issue.Wrap(issue.IOFailure, err).WithPath(p)
	}
	return data, nil
}

// optionalBlob reads the sibling file <base><suffix> if it exists.
func (d *decoder) optionalBlob(suffix string) ([]byte, error) {
	data, _, err := readBlob(d.base + suffix)
	return data, err
}

func omitted(omit bool, v int) *int {
	if omit {
		return nil
	}
	return &v
}

func deref(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// SPDX-License-Identifier: MPL-2.0

package format

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gmksplit/gmksplit/internal/fsname"
	"github.com/gmksplit/gmksplit/internal/issue"
	"github.com/gmksplit/gmksplit/internal/reconcile"
	"github.com/gmksplit/gmksplit/internal/refs"
	"github.com/gmksplit/gmksplit/internal/restree"
	"github.com/gmksplit/gmksplit/pkg/gmfile"
)

const (
	filePerm = 0o644
	dirPerm  = 0o755
)

type (
	// Format converts values of type T between memory and disk.
	//
	// Write serializes one value below dir. Read parses it back, deferring
	// every cross-resource reference to the registry. AddResToTree records a
	// read value in the resource tree. AddAll is called exactly once per kind
	// with every value of that kind, after all reading is done.
	Format[T any] interface {
		Write(dir string, v T, a *gmfile.Archive) error
		Read(path, name string, reg *refs.Registry) (T, error)
		AddResToTree(v T, parent *restree.Node)
		AddAll(vs []T, a *gmfile.Archive, ctx *reconcile.Context) error
	}

	// Options are the process-wide switches shared by all formats.
	Options struct {
		// ConvertLineEndings writes code with \n and reads it back with \r\n.
		ConvertLineEndings bool
		// OmitDisabledFields leaves out field groups that are switched off and
		// hold their default values.
		OmitDisabledFields bool
		// Policy decides which kinds get an id attribute.
		Policy reconcile.Policy
	}

	// Set holds one Format per kind for a single operation.
	Set struct {
		opts    Options
		paths   *fsname.PathSet
		formats map[gmfile.Kind]Format[gmfile.Resource]

		Constants  *ConstantsFormat
		Extensions *ExtensionsFormat
		Includes   *IncludesFormat
		GameInfo   *GameInfoFormat
	}

	// resourceFormat implements Format for one tree kind. R is the concrete
	// resource type and X its XML document type.
	resourceFormat[R gmfile.Resource, X any] struct {
		kind   gmfile.Kind
		set    *Set
		encode func(e *encoder, r R) (*X, error)
		decode func(d *decoder, x *X, r R) error
	}

	// file is one file a format is about to write.
	file struct {
		path string
		data []byte
	}
)

// NewSet creates the formats for one operation. paths records every written
// path for collision detection and may be nil when only reading.
func NewSet(opts Options, paths *fsname.PathSet) *Set {
	s := &Set{opts: opts, paths: paths}
	s.formats = map[gmfile.Kind]Format[gmfile.Resource]{
		gmfile.KindSprite:     newResourceFormat(s, gmfile.KindSprite, encodeSprite, decodeSprite),
		gmfile.KindSound:      newResourceFormat(s, gmfile.KindSound, encodeSound, decodeSound),
		gmfile.KindBackground: newResourceFormat(s, gmfile.KindBackground, encodeBackground, decodeBackground),
		gmfile.KindPath:       newResourceFormat(s, gmfile.KindPath, encodePath, decodePath),
		gmfile.KindScript:     newResourceFormat(s, gmfile.KindScript, encodeScript, decodeScript),
		gmfile.KindFont:       newResourceFormat(s, gmfile.KindFont, encodeFont, decodeFont),
		gmfile.KindTimeline:   newResourceFormat(s, gmfile.KindTimeline, encodeTimeline, decodeTimeline),
		gmfile.KindObject:     newResourceFormat(s, gmfile.KindObject, encodeObject, decodeObject),
		gmfile.KindRoom:       newResourceFormat(s, gmfile.KindRoom, encodeRoom, decodeRoom),
	}
	s.Constants = &ConstantsFormat{set: s}
	s.Extensions = &ExtensionsFormat{set: s}
	s.Includes = &IncludesFormat{set: s}
	s.GameInfo = &GameInfoFormat{set: s}
	return s
}

// For returns the format of tree kind k.
func (s *Set) For(k gmfile.Kind) (Format[gmfile.Resource], bool) {
	f, ok := s.formats[k]
	return f, ok
}

// Options returns the options the set was created with.
func (s *Set) Options() Options { return s.opts }

// Claim records path in the collision set. It is a no-op when reading.
func (s *Set) Claim(path, owner string) error {
	if s.paths == nil {
		return nil
	}
	return s.paths.Claim(path, owner)
}

// writeFiles claims every path before writing any, so that a collision leaves
// nothing of the resource on disk.
func (s *Set) writeFiles(owner string, files []file) error {
	for _, f := range files {
		if err := s.Claim(f.path, owner); err != nil {
			return err
		}
	}
	for _, f := range files {
		if err := os.WriteFile(f.path, f.data, filePerm); err != nil {
			return issue.Wrap(issue.IOFailure, err).WithPath(f.path)
		}
	}
	return nil
}

func newResourceFormat[R gmfile.Resource, X any](
	s *Set,
	k gmfile.Kind,
	encode func(*encoder, R) (*X, error),
	decode func(*decoder, *X, R) error,
) *resourceFormat[R, X] {
	return &resourceFormat[R, X]{kind: k, set: s, encode: encode, decode: decode}
}

// Write writes <dir>/<Name>.xml and the resource's sibling files.
func (f *resourceFormat[R, X]) Write(dir string, res gmfile.Resource, a *gmfile.Archive) error {
	r, ok := res.(R)
	if !ok {
		return issue.New(issue.Internal, "%s format given a %s", f.kind, res.Kind())
	}
	h := res.Hdr()

	name, err := fsname.ToFilename(h.Name)
	if err != nil {
		return resourceError(err, res)
	}

	e := &encoder{set: f.set, archive: a, res: res, base: filepath.Join(dir, name)}
	x, err := f.encode(e, r)
	if err != nil {
		return resourceError(err, res)
	}
	data, err := marshal(x)
	if err != nil {
		return resourceError(issue.Wrap(issue.Internal, err), res)
	}

	files := append([]file{{path: e.base + restree.ResourceExt, data: data}}, e.files...)
	if err := f.set.writeFiles(describe(res), files); err != nil {
		return resourceError(err, res)
	}
	return nil
}

// Read parses the resource stored at path. name is the resource name derived
// from the file name.
func (f *resourceFormat[R, X]) Read(path, name string, reg *refs.Registry) (gmfile.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, issue.Wrap(issue.IOFailure, err).WithResource(f.kind.String(), name).WithPath(path)
	}

	var x X
	if err := xml.Unmarshal(data, &x); err != nil {
		return nil, issue.Wrap(issue.MalformedData, err).WithResource(f.kind.String(), name).WithPath(path)
	}

	r, ok := gmfile.New(f.kind, name).(R)
	if !ok {
		return nil, issue.New(issue.Internal, "no constructor for %s", f.kind)
	}
	d := &decoder{
		set:  f.set,
		reg:  reg,
		res:  r,
		path: path,
		base: path[:len(path)-len(restree.ResourceExt)],
	}
	if err := f.decode(d, &x, r); err != nil {
		return nil, resourceError(err, r, path)
	}
	return r, nil
}

// AddResToTree appends a leaf for res to parent.
func (f *resourceFormat[R, X]) AddResToTree(res gmfile.Resource, parent *restree.Node) {
	parent.AddLeaf(res)
}

// AddAll reconciles identifiers of every resource of the kind and stores them
// in the archive in the given order.
func (f *resourceFormat[R, X]) AddAll(resources []gmfile.Resource, a *gmfile.Archive, ctx *reconcile.Context) error {
	if err := ctx.Assign(f.kind, resources); err != nil {
		return err
	}
	if err := a.SetResources(f.kind, resources); err != nil {
		return issue.Wrap(issue.Internal, err)
	}
	return nil
}

// marshal renders a document with two-space indentation, an XML declaration
// and a trailing newline.
func marshal(v any) ([]byte, error) {
	data, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(xml.Header)+len(data)+1)
	out = append(out, xml.Header...)
	out = append(out, data...)
	return append(out, '\n'), nil
}

func describe(res gmfile.Resource) string {
	return fmt.Sprintf("%s %q", res.Kind(), res.Hdr().Name)
}

// resourceError attaches resource context to err, keeping any context that
// is already there.
func resourceError(err error, res gmfile.Resource, path ...string) error {
	var ce *issue.ConvertError
	if !errors.As(err, &ce) {
		ce = issue.Wrap(issue.Internal, err)
	}
	if ce.ResourceKind == "" {
		ce.ResourceKind = res.Kind().String()
		ce.Name = res.Hdr().Name
		if res.Hdr().ID != gmfile.NoID {
			ce.WithID(int(res.Hdr().ID))
		}
	}
	if ce.Path == "" && len(path) > 0 {
		ce.Path = path[0]
	}
	return ce
}

// readBlob reads a sibling file. Missing files are reported as not found.
func readBlob(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, issue.Wrap(issue.IOFailure, err).WithPath(path)
	}
	return data, true, nil
}

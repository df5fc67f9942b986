// SPDX-License-Identifier: MPL-2.0

package splitter

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/gmksplit/gmksplit/internal/dag"
	"github.com/gmksplit/gmksplit/internal/format"
	"github.com/gmksplit/gmksplit/internal/fsname"
	"github.com/gmksplit/gmksplit/internal/issue"
	"github.com/gmksplit/gmksplit/internal/reconcile"
	"github.com/gmksplit/gmksplit/internal/refs"
	"github.com/gmksplit/gmksplit/internal/restree"
	"github.com/gmksplit/gmksplit/pkg/gmfile"
	"github.com/gmksplit/gmksplit/pkg/gmfile/container"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// supportedVersions are the archive versions whose content is fully modelled.
var supportedVersions = []int{800, 810}

type (
	// Options are fixed for the duration of one conversion.
	Options struct {
		// ConvertLineEndings writes code with \n and reads it back with \r\n.
		ConvertLineEndings bool
		// OmitDisabledFields leaves out switched-off field groups that hold
		// their defaults.
		OmitDisabledFields bool
		// Policy decides which identifiers survive composition.
		Policy reconcile.Policy
		// Compression is used for archives written by Compose.
		Compression container.Compression
	}

	// Splitter runs conversions. The zero value uses PolicyNone, no
	// compression and no logging.
	Splitter struct {
		Options Options
		Logger  *log.Logger
	}
)

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		ConvertLineEndings: true,
		OmitDisabledFields: true,
		Policy:             reconcile.PolicyObjects,
		Compression:        container.CompressionZstd,
	}
}

// New creates a Splitter. A nil logger discards output.
func New(opts Options, logger *log.Logger) *Splitter {
	return &Splitter{Options: opts, Logger: logger}
}

func (s *Splitter) log() *log.Logger {
	if s.Logger == nil {
		return log.New(io.Discard)
	}
	return s.Logger
}

func (s *Splitter) formatOptions() format.Options {
	policy := s.Options.Policy
	if policy == "" {
		policy = reconcile.PolicyNone
	}
	return format.Options{
		ConvertLineEndings: s.Options.ConvertLineEndings,
		OmitDisabledFields: s.Options.OmitDisabledFields,
		Policy:             policy,
	}
}

// Decompose reads the archive file at archivePath and writes it below dir,
// which must not exist yet.
func (s *Splitter) Decompose(ctx context.Context, archivePath, dir string) error {
	if err := requireFile(archivePath); err != nil {
		return err
	}
	if err := requireAbsent(dir); err != nil {
		return err
	}

	data, err := os.ReadFile(archivePath)
	if err != nil {
		return issue.Wrap(issue.IOFailure, err).WithPath(archivePath)
	}
	a, tree, err := container.Decode(data)
	if err != nil {
		var ce *issue.ConvertError
		if errors.As(err, &ce) && ce.Path == "" {
			ce.Path = archivePath
		}
		return err
	}
	s.log().Debug("archive decoded", "path", archivePath, "version", a.Version, "bytes", len(data))
	return s.DecomposeArchive(ctx, a, tree, dir)
}

// DecomposeArchive writes an in-memory archive below dir, which must not
// exist yet. A nil tree uses the default layout.
func (s *Splitter) DecomposeArchive(ctx context.Context, a *gmfile.Archive, tree *restree.Node, dir string) error {
	if err := requireAbsent(dir); err != nil {
		return err
	}
	if tree == nil {
		tree = restree.Default(a)
	}
	policy := s.formatOptions().Policy
	if err := policy.Validate(); err != nil {
		return issue.Wrap(issue.PreconditionFailed, err)
	}
	if !isSupported(a.Version) {
		s.log().Warn("archive version is not supported, output may be incomplete", "version", a.Version)
	}
	if err := checkUniqueNames(tree); err != nil {
		return err
	}

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return issue.Wrap(issue.IOFailure, err).WithPath(dir)
	}
	set := format.NewSet(s.formatOptions(), fsname.NewPathSet(dir))

	for _, k := range gmfile.TreeKinds {
		if err := ctx.Err(); err != nil {
			return err
		}
		kindRoot := tree.KindRoot(k)
		if kindRoot == nil || len(kindRoot.Children()) == 0 {
			continue
		}
		f, _ := set.For(k)
		n, err := writeGroup(set, f, kindRoot, filepath.Join(dir, k.RootName()), a)
		if err != nil {
			return err
		}
		s.log().Debug("wrote resources", "kind", k.RootName(), "count", n)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := set.GameInfo.Write(dir, &a.GameInfo, a); err != nil {
		return err
	}
	if err := set.Extensions.Write(dir, a.Packages, a); err != nil {
		return err
	}
	m, err := encodeManifest(a)
	if err != nil {
		return err
	}
	if err := set.WriteFile(filepath.Join(dir, ManifestFile), "project manifest", m); err != nil {
		return err
	}
	if err := set.Constants.Write(dir, a.Constants, a); err != nil {
		return err
	}
	if err := set.Includes.Write(dir, a.Includes, a); err != nil {
		return err
	}

	s.log().Info("project written", "dir", dir)
	return nil
}

// writeGroup writes the children of group into path and returns the number
// of resources written.
func writeGroup(set *format.Set, f format.Format[gmfile.Resource], group *restree.Node, path string, a *gmfile.Archive) (int, error) {
	owner := group.Kind.String() + " group " + group.Name
	if err := set.CreateDir(path, owner); err != nil {
		return 0, err
	}
	// Reserve the order file so no resource can take its name.
	orderPath := filepath.Join(path, restree.OrderFileName)
	if err := set.Claim(orderPath, "order file of "+owner); err != nil {
		return 0, err
	}

	written := 0
	for _, child := range group.Children() {
		if child.IsLeaf() {
			if child.Res == nil {
				return written, issue.New(issue.Internal, "tree leaf %q has no resource", child.Name)
			}
			if err := f.Write(path, child.Res, a); err != nil {
				return written, err
			}
			written++
			continue
		}

		name, err := fsname.ToFilename(child.Name)
		if err != nil {
			var ce *issue.ConvertError
			if errors.As(err, &ce) {
				ce.WithResource(child.Kind.String()+" group", child.Name)
			}
			return written, err
		}
		n, err := writeGroup(set, f, child, filepath.Join(path, name), a)
		written += n
		if err != nil {
			return written, err
		}
	}

	data, needed, err := group.OrderFile()
	if err != nil {
		return written, err
	}
	if needed {
		if err := os.WriteFile(orderPath, data, filePerm); err != nil {
			return written, issue.Wrap(issue.IOFailure, err).WithPath(orderPath)
		}
	}
	return written, nil
}

// Compose reads the project below dir and writes it as an archive file to
// archivePath, which must not exist yet.
func (s *Splitter) Compose(ctx context.Context, dir, archivePath string) error {
	if err := requireDir(dir); err != nil {
		return err
	}
	if err := requireAbsent(archivePath); err != nil {
		return err
	}

	a, tree, err := s.ComposeArchive(ctx, dir)
	if err != nil {
		return err
	}
	data, err := container.Encode(a, tree, s.Options.Compression)
	if err != nil {
		return err
	}

	out, err := os.OpenFile(archivePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return issue.New(issue.PreconditionFailed, "destination already exists").WithPath(archivePath)
		}
		return issue.Wrap(issue.IOFailure, err).WithPath(archivePath)
	}
	if _, err := out.Write(data); err != nil {
		_ = out.Close()
		return issue.Wrap(issue.IOFailure, err).WithPath(archivePath)
	}
	if err := out.Close(); err != nil {
		return issue.Wrap(issue.IOFailure, err).WithPath(archivePath)
	}

	s.log().Info("archive written", "path", archivePath, "bytes", len(data), "compression", s.Options.Compression)
	return nil
}

// Recompose is Compose for an archive that may already exist. The new archive
// is written next to archivePath and renamed over it, so a failed conversion
// leaves the previous archive untouched.
func (s *Splitter) Recompose(ctx context.Context, dir, archivePath string) error {
	if err := requireDir(dir); err != nil {
		return err
	}
	if info, err := os.Stat(archivePath); err == nil && info.IsDir() {
		return issue.New(issue.PreconditionFailed, "destination is a directory").WithPath(archivePath)
	}

	a, tree, err := s.ComposeArchive(ctx, dir)
	if err != nil {
		return err
	}
	data, err := container.Encode(a, tree, s.Options.Compression)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(archivePath), "."+filepath.Base(archivePath)+".*.tmp")
	if err != nil {
		return issue.Wrap(issue.IOFailure, err).WithPath(archivePath)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return issue.Wrap(issue.IOFailure, err).WithPath(tmpPath)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return issue.Wrap(issue.IOFailure, err).WithPath(tmpPath)
	}
	if err := os.Chmod(tmpPath, filePerm); err != nil {
		_ = os.Remove(tmpPath)
		return issue.Wrap(issue.IOFailure, err).WithPath(tmpPath)
	}
	if err := os.Rename(tmpPath, archivePath); err != nil {
		_ = os.Remove(tmpPath)
		return issue.Wrap(issue.IOFailure, err).WithPath(archivePath)
	}

	s.log().Info("archive replaced", "path", archivePath, "bytes", len(data), "compression", s.Options.Compression)
	return nil
}

// ComposeArchive reads the project below dir into memory.
func (s *Splitter) ComposeArchive(ctx context.Context, dir string) (*gmfile.Archive, *restree.Node, error) {
	if err := requireDir(dir); err != nil {
		return nil, nil, err
	}
	policy := s.formatOptions().Policy
	if err := policy.Validate(); err != nil {
		return nil, nil, issue.Wrap(issue.PreconditionFailed, err)
	}

	a := gmfile.NewArchive()
	found, err := readManifest(dir, a)
	if err != nil {
		return nil, nil, err
	}
	if !found {
		s.log().Debug("no manifest, using defaults", "version", a.Version)
	} else if !isSupported(a.Version) {
		s.log().Warn("manifest names an unsupported archive version", "version", a.Version)
	}

	scanned, err := restree.FromDirectory(dir)
	if err != nil {
		return nil, nil, err
	}
	for _, path := range scanned.Skipped {
		s.log().Debug("skipping file that is not a resource", "path", path)
	}

	set := format.NewSet(s.formatOptions(), nil)
	reg := refs.NewRegistry()
	tree := restree.NewRoot()

	for _, k := range gmfile.TreeKinds {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		f, _ := set.For(k)
		dst := tree.AddChild(k.RootName(), restree.StatusPrimary, k)
		if src := scanned.KindRoot(k); src != nil {
			if err := readGroup(f, reg, src, dst, make(map[string]string)); err != nil {
				return nil, nil, err
			}
		}
		s.log().Debug("read resources", "kind", k.RootName(), "count", len(dst.Resources(k)))
	}
	restree.AddSecondaryRoots(tree)

	if err := reg.AssertResolved(); err != nil {
		return nil, nil, err
	}
	if err := checkParents(tree); err != nil {
		return nil, nil, err
	}

	rctx := reconcile.NewContext(policy)
	for _, k := range gmfile.TreeKinds {
		f, _ := set.For(k)
		if err := f.AddAll(tree.Resources(k), a, rctx); err != nil {
			return nil, nil, err
		}
	}
	fixCounters(a)

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if err := readSingletons(set, dir, a, rctx); err != nil {
		return nil, nil, err
	}
	return a, tree, nil
}

// readGroup reads every leaf below src and mirrors src's structure in dst.
// Each resource is declared to the registry right after it is read.
func readGroup(f format.Format[gmfile.Resource], reg *refs.Registry, src, dst *restree.Node, paths map[string]string) error {
	for _, child := range src.Children() {
		if !child.IsLeaf() {
			g := dst.AddChild(child.Name, restree.StatusGroup, child.Kind)
			g.Declared = child.Declared
			if err := readGroup(f, reg, child, g, paths); err != nil {
				return err
			}
			continue
		}
		res, err := f.Read(child.Path, child.Name, reg)
		if err != nil {
			return err
		}
		name := res.Hdr().Name
		if err := reg.Declare(res); err != nil {
			var ce *issue.ConvertError
			if errors.As(err, &ce) {
				ce.WithPath(child.Path)
				ce.Detail += ", read from " + paths[name]
			}
			return err
		}
		paths[name] = child.Path
		f.AddResToTree(res, dst)
	}
	return nil
}

// checkUniqueNames rejects two resources of one kind with the same name in
// any groups. Files refer to each other by name, so such a project could not
// be composed back.
func checkUniqueNames(tree *restree.Node) error {
	for _, k := range gmfile.TreeKinds {
		kindRoot := tree.KindRoot(k)
		if kindRoot == nil {
			continue
		}
		seen := make(map[string]*restree.Node)
		for n := range kindRoot.Walk() {
			if !n.IsLeaf() || n.Res == nil {
				continue
			}
			hdr := n.Res.Hdr()
			prev, ok := seen[hdr.Name]
			if !ok {
				seen[hdr.Name] = n
				continue
			}
			return issue.New(issue.PathCollision, "name already used by the %s with id %d in %s",
				k, prev.Res.Hdr().ID, groupLabel(k, prev)).
				WithResource(k.String(), hdr.Name).
				WithID(int(hdr.ID))
		}
	}
	return nil
}

// groupLabel renders the group of a leaf as a slash path from its kind root.
func groupLabel(k gmfile.Kind, n *restree.Node) string {
	return strings.Join(append([]string{k.RootName()}, n.GroupPath()...), "/")
}

func readSingletons(set *format.Set, dir string, a *gmfile.Archive, rctx *reconcile.Context) error {
	gi, err := set.GameInfo.Read(dir, format.GameInfoFile, nil)
	if err != nil {
		return err
	}
	if err := set.GameInfo.AddAll([]*gmfile.GameInfo{gi}, a, rctx); err != nil {
		return err
	}

	pkgs, err := set.Extensions.Read(dir, format.ExtensionsFile, nil)
	if err != nil {
		return err
	}
	if err := set.Extensions.AddAll([][]string{pkgs}, a, rctx); err != nil {
		return err
	}

	consts, err := set.Constants.Read(dir, format.ConstantsFile, nil)
	if err != nil {
		return err
	}
	if err := set.Constants.AddAll([][]gmfile.Constant{consts}, a, rctx); err != nil {
		return err
	}

	includes, err := set.Includes.Read(dir, format.IncludesDir, nil)
	if err != nil {
		return err
	}
	return set.Includes.AddAll([][]*gmfile.Include{includes}, a, rctx)
}

// checkParents rejects object parent chains that form a loop.
func checkParents(tree *restree.Node) error {
	var objects []*gmfile.Object
	for _, r := range tree.Resources(gmfile.KindObject) {
		if o, ok := r.(*gmfile.Object); ok {
			objects = append(objects, o)
		}
	}
	_, err := dag.ParentOrder(objects)
	return err
}

// fixCounters keeps the instance and tile counters above every id in use.
func fixCounters(a *gmfile.Archive) {
	for _, r := range a.Rooms {
		for _, in := range r.Instances {
			a.LastInstanceID = max(a.LastInstanceID, in.ID)
		}
		for _, t := range r.Tiles {
			a.LastTileID = max(a.LastTileID, t.ID)
		}
	}
}

func isSupported(version int) bool {
	return slices.Contains(supportedVersions, version)
}

func requireFile(path string) error {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return issue.New(issue.PreconditionFailed, "source does not exist").WithPath(path)
	case err != nil:
		return issue.Wrap(issue.IOFailure, err).WithPath(path)
	case info.IsDir():
		return issue.New(issue.PreconditionFailed, "source is a directory, expected an archive file").WithPath(path)
	}
	return nil
}

func requireDir(path string) error {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return issue.New(issue.PreconditionFailed, "source does not exist").WithPath(path)
	case err != nil:
		return issue.Wrap(issue.IOFailure, err).WithPath(path)
	case !info.IsDir():
		return issue.New(issue.PreconditionFailed, "source is not a directory").WithPath(path)
	}
	return nil
}

func requireAbsent(path string) error {
	_, err := os.Lstat(path)
	switch {
	case err == nil:
		return issue.New(issue.PreconditionFailed, "destination already exists").WithPath(path)
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return issue.Wrap(issue.IOFailure, err).WithPath(path)
	}
}

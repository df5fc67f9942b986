// SPDX-License-Identifier: MPL-2.0

package restree

import (
	"encoding/xml"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gmksplit/gmksplit/internal/issue"
	"github.com/gmksplit/gmksplit/pkg/gmfile"
)

const (
	// OrderFileName is the per-directory file listing children in declared order.
	OrderFileName = "_order.xml"
	// ResourceExt is the extension of resource files.
	ResourceExt = ".xml"

	orderGroup    = "group"
	orderResource = "resource"
)

type (
	orderEntry struct {
		XMLName xml.Name
		Name    string `xml:"name,attr"`
	}

	orderFile struct {
		XMLName xml.Name     `xml:"order"`
		Entries []orderEntry `xml:",any"`
	}

	arranged struct {
		entry    fs.DirEntry
		declared bool
	}
)

// FromDirectory builds a tree from a decomposed project directory.
//
// Each per-kind root directory is walked recursively. Files ending in .xml
// become leaves with Path set, sub-directories become groups. Other files,
// hidden entries and directories without any resource file are skipped,
// unless a directory is listed in its parent's order file. An .xml file whose
// document element names no resource kind is skipped and listed in the
// root's Skipped. Children follow
// the parent's order file first and lexical order after that.
func FromDirectory(dir string) (*Node, error) {
	root := NewRoot()
	for _, k := range gmfile.TreeKinds {
		kindRoot := root.AddChild(k.RootName(), StatusPrimary, k)
		kindDir := filepath.Join(dir, k.RootName())

		info, err := os.Stat(kindDir)
		if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.IsDir()) {
			continue
		}
		if err != nil {
			return nil, issue.Wrap(issue.IOFailure, err).WithPath(kindDir)
		}
		if err := scanGroup(kindRoot, kindDir, &root.Skipped); err != nil {
			return nil, err
		}
	}
	AddSecondaryRoots(root)
	return root, nil
}

func scanGroup(group *Node, dir string, skipped *[]string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return issue.Wrap(issue.IOFailure, err).WithPath(dir)
	}

	order, err := readOrder(dir)
	if err != nil {
		return err
	}

	for _, a := range arrange(entries, order) {
		name := a.entry.Name()
		switch {
		case strings.HasPrefix(name, "."):
			continue
		case a.entry.IsDir():
			child := group.AddChild(name, StatusGroup, group.Kind)
			child.Declared = a.declared
			if err := scanGroup(child, filepath.Join(dir, name), skipped); err != nil {
				return err
			}
			if !child.retained() {
				group.children = group.children[:len(group.children)-1]
			}
		case strings.HasSuffix(name, ResourceExt) && name != OrderFileName:
			path := filepath.Join(dir, name)
			if !isResourceFile(path) {
				*skipped = append(*skipped, path)
				continue
			}
			leaf := group.AddChild(strings.TrimSuffix(name, ResourceExt), StatusSecondary, group.Kind)
			leaf.Path = path
		}
	}
	return nil
}

// isResourceFile reports whether the document element of the file at path
// names a resource kind. Files that cannot be opened or parsed count as
// resources, so reading them reports the real problem.
func isResourceFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	dec := xml.NewDecoder(f)
	for {
		tok, err := dec.Token()
		if err != nil {
			return true
		}
		if start, ok := tok.(xml.StartElement); ok {
			return slices.ContainsFunc(gmfile.TreeKinds, func(k gmfile.Kind) bool {
				return k.String() == start.Name.Local
			})
		}
	}
}

// retained reports whether a scanned group holds a leaf or a declared group.
func (n *Node) retained() bool {
	if n.Declared {
		return true
	}
	for d := range n.Walk() {
		if d.IsLeaf() || d.Declared {
			return true
		}
	}
	return false
}

func readOrder(dir string) ([]orderEntry, error) {
	path := filepath.Join(dir, OrderFileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, issue.Wrap(issue.IOFailure, err).WithPath(path)
	}

	var of orderFile
	if err := xml.Unmarshal(data, &of); err != nil {
		return nil, issue.Wrap(issue.MalformedData, err).WithPath(path)
	}
	for _, e := range of.Entries {
		if e.XMLName.Local != orderGroup && e.XMLName.Local != orderResource {
			return nil, issue.New(issue.MalformedData, "unknown order entry <%s>", e.XMLName.Local).WithPath(path)
		}
	}
	return of.Entries, nil
}

// arrange puts directory entries listed in the order file first, in listed
// order, followed by the rest in the lexical order os.ReadDir returns.
func arrange(entries []fs.DirEntry, order []orderEntry) []arranged {
	used := make([]bool, len(entries))
	out := make([]arranged, 0, len(entries))

	for _, o := range order {
		for i, e := range entries {
			if used[i] || !matches(e, o) {
				continue
			}
			used[i] = true
			out = append(out, arranged{entry: e, declared: o.XMLName.Local == orderGroup})
			break
		}
	}
	for i, e := range entries {
		if !used[i] {
			out = append(out, arranged{entry: e})
		}
	}
	return out
}

func matches(e fs.DirEntry, o orderEntry) bool {
	if o.XMLName.Local == orderGroup {
		return e.IsDir() && e.Name() == o.Name
	}
	return !e.IsDir() && e.Name() == o.Name+ResourceExt
}

// DiskName returns the directory entry name a child is stored under.
func (n *Node) DiskName() string {
	if n.IsLeaf() {
		return n.Name + ResourceExt
	}
	return n.Name
}

// OrderFile returns the content of the order file for group n, and false when
// none is needed because the children are already in lexical order and no
// child group is empty.
func (n *Node) OrderFile() ([]byte, bool, error) {
	names := make([]string, len(n.children))
	needed := false
	for i, c := range n.children {
		names[i] = c.DiskName()
		if !c.IsLeaf() && !c.HasLeaves() {
			needed = true
		}
	}
	if !needed && slices.IsSorted(names) {
		return nil, false, nil
	}

	of := orderFile{Entries: make([]orderEntry, len(n.children))}
	for i, c := range n.children {
		tag := orderResource
		if !c.IsLeaf() {
			tag = orderGroup
		}
		of.Entries[i] = orderEntry{XMLName: xml.Name{Local: tag}, Name: c.Name}
	}
	data, err := xml.MarshalIndent(of, "", "  ")
	if err != nil {
		return nil, false, issue.Wrap(issue.Internal, err)
	}
	out := append([]byte(xml.Header), data...)
	return append(out, '\n'), true, nil
}

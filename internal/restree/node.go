// SPDX-License-Identifier: MPL-2.0

package restree

import (
	"iter"

	"github.com/gmksplit/gmksplit/pkg/gmfile"
)

const (
	// StatusPrimary marks the root and the fixed per-kind root nodes.
	StatusPrimary Status = iota + 1
	// StatusGroup marks a user folder.
	StatusGroup
	// StatusSecondary marks a leaf.
	StatusSecondary
)

type (
	// Status distinguishes roots, groups and leaves.
	Status uint8

	// Node is one entry of the resource tree. Groups (primary and group
	// status) hold ordered children; leaves hold a kind and, once bound, a
	// resource.
	Node struct {
		Name   string
		Status Status
		Kind   gmfile.Kind
		// Res is the bound resource of a tree-kind leaf.
		Res gmfile.Resource
		// Path is the source file of a leaf found by FromDirectory.
		Path string
		// Declared is set on groups listed in their parent's order file.
		// Declared groups survive composition even when empty.
		Declared bool
		// Skipped lists the .xml files FromDirectory ignored. Set on the
		// root only.
		Skipped []string

		parent   *Node
		children []*Node
	}
)

// NewRoot returns an empty root node.
func NewRoot() *Node {
	return &Node{Name: "Root", Status: StatusPrimary}
}

// AddChild appends a new child node and returns it.
func (n *Node) AddChild(name string, status Status, kind gmfile.Kind) *Node {
	child := &Node{Name: name, Status: status, Kind: kind, parent: n}
	n.children = append(n.children, child)
	return child
}

// AddLeaf appends a leaf bound to res, named after it.
func (n *Node) AddLeaf(res gmfile.Resource) *Node {
	child := n.AddChild(res.Hdr().Name, StatusSecondary, res.Kind())
	child.Res = res
	return child
}

// Parent returns the parent node, nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the children in insertion order. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// IsLeaf reports whether the node is a leaf.
func (n *Node) IsLeaf() bool { return n.Status == StatusSecondary }

// Child returns the first child called name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// KindRoot returns the per-kind root node for k, or nil.
func (n *Node) KindRoot(k gmfile.Kind) *Node {
	for _, c := range n.children {
		if c.Status == StatusPrimary && c.Kind == k {
			return c
		}
	}
	return nil
}

// GroupPath returns the names of the groups between the kind root and n,
// excluding both.
func (n *Node) GroupPath() []string {
	var path []string
	for p := n.parent; p != nil && p.Status == StatusGroup; p = p.parent {
		path = append([]string{p.Name}, path...)
	}
	return path
}

// Walk yields every descendant of n depth-first in pre-order. The sequence
// can be iterated any number of times.
func (n *Node) Walk() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		n.walk(yield)
	}
}

func (n *Node) walk(yield func(*Node) bool) bool {
	for _, c := range n.children {
		if !yield(c) || !c.walk(yield) {
			return false
		}
	}
	return true
}

// Resources returns the bound resources of kind k in tree order.
func (n *Node) Resources(k gmfile.Kind) []gmfile.Resource {
	var out []gmfile.Resource
	for node := range n.Walk() {
		if node.IsLeaf() && node.Kind == k && node.Res != nil {
			out = append(out, node.Res)
		}
	}
	return out
}

// HasLeaves reports whether any descendant is a leaf.
func (n *Node) HasLeaves() bool {
	for node := range n.Walk() {
		if node.IsLeaf() {
			return true
		}
	}
	return false
}

// Default builds the fixed root layout of an archive that carries no tree:
// one primary node per tree kind holding its resources in archive order,
// followed by the game information and extension package leaves.
func Default(a *gmfile.Archive) *Node {
	root := NewRoot()
	for _, k := range gmfile.TreeKinds {
		kindRoot := root.AddChild(k.RootName(), StatusPrimary, k)
		for _, r := range a.Resources(k) {
			kindRoot.AddLeaf(r)
		}
	}
	AddSecondaryRoots(root)
	return root
}

// AddSecondaryRoots appends the game information and extension package
// leaves to root.
func AddSecondaryRoots(root *Node) {
	root.AddChild(gmfile.KindGameInfo.RootName(), StatusSecondary, gmfile.KindGameInfo)
	root.AddChild(gmfile.KindExtensions.RootName(), StatusSecondary, gmfile.KindExtensions)
}

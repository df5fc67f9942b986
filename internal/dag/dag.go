// SPDX-License-Identifier: MPL-2.0

// Package dag orders resources that depend on each other and detects cycles.
// Composition uses it to reject object parent chains that loop back on
// themselves, which the game runtime would follow forever.
package dag

import (
	"fmt"
	"strings"

	"github.com/gmksplit/gmksplit/internal/issue"
	"github.com/gmksplit/gmksplit/pkg/gmfile"
)

type (
	// CycleError reports nodes that take part in, or hang below, a cycle.
	CycleError struct {
		Cycle []string
	}

	// Graph is a directed graph over string keys. An edge from A to B means
	// A comes before B.
	Graph struct {
		adjacency map[string][]string
		// nodes keeps insertion order so results are deterministic.
		nodes   []string
		nodeSet map[string]bool
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle through %s", strings.Join(e.Cycle, " -> "))
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		adjacency: make(map[string][]string),
		nodeSet:   make(map[string]bool),
	}
}

// AddNode adds a node. Adding a node twice is a no-op.
func (g *Graph) AddNode(name string) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// AddEdge adds the edge from -> to, adding missing nodes.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	g.adjacency[from] = append(g.adjacency[from], to)
}

// TopologicalSort orders the nodes with Kahn's algorithm. Nodes that become
// ready together keep their insertion order. It returns a CycleError when
// the graph is not acyclic.
func (g *Graph) TopologicalSort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make(map[string]int, len(g.nodes))
	for _, neighbors := range g.adjacency {
		for _, n := range neighbors {
			inDegree[n]++
		}
	}

	var queue []string
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	result := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, n := range g.adjacency[node] {
			inDegree[n]--
			if inDegree[n] == 0 {
				queue = append(queue, n)
			}
		}
	}

	if len(result) == len(g.nodes) {
		return result, nil
	}
	var stuck []string
	for _, node := range g.nodes {
		if inDegree[node] > 0 {
			stuck = append(stuck, node)
		}
	}
	return nil, &CycleError{Cycle: stuck}
}

// ParentOrder returns object names ordered so that every parent precedes its
// children. Parents are read through their bound references; objects without
// a parent, or whose parent is outside objects, start a chain.
//
// A loop in the parent chains fails with a MalformedData error naming the
// objects involved.
func ParentOrder(objects []*gmfile.Object) ([]string, error) {
	g := New()
	known := make(map[gmfile.Resource]bool, len(objects))
	for _, o := range objects {
		known[o] = true
		g.AddNode(o.Name)
	}
	for _, o := range objects {
		parent, ok := o.Parent.Target().(*gmfile.Object)
		if !ok || !known[parent] {
			continue
		}
		g.AddEdge(parent.Name, o.Name)
	}

	order, err := g.TopologicalSort()
	if err != nil {
		return nil, issue.Wrap(issue.MalformedData, err).WithResource(gmfile.KindObject.String(), firstOf(err))
	}
	return order, nil
}

func firstOf(err error) string {
	if ce, ok := err.(*CycleError); ok && len(ce.Cycle) > 0 {
		return ce.Cycle[0]
	}
	return ""
}

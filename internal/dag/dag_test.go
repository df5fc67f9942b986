// SPDX-License-Identifier: MPL-2.0

package dag

import (
	"errors"
	"slices"
	"testing"

	"github.com/gmksplit/gmksplit/internal/issue"
	"github.com/gmksplit/gmksplit/pkg/gmfile"
)

func TestTopologicalSort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		edges [][2]string
		nodes []string
		want  []string
	}{
		{name: "empty", want: nil},
		{name: "single node", nodes: []string{"A"}, want: []string{"A"}},
		{name: "chain", edges: [][2]string{{"A", "B"}, {"B", "C"}}, want: []string{"A", "B", "C"}},
		{
			name:  "diamond",
			edges: [][2]string{{"A", "B"}, {"A", "C"}, {"B", "D"}, {"C", "D"}},
			want:  []string{"A", "B", "C", "D"},
		},
		{
			name:  "independent nodes keep insertion order",
			nodes: []string{"Z", "Y", "X"},
			want:  []string{"Z", "Y", "X"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := New()
			for _, n := range tt.nodes {
				g.AddNode(n)
			}
			for _, e := range tt.edges {
				g.AddEdge(e[0], e[1])
			}
			got, err := g.TopologicalSort()
			if err != nil {
				t.Fatalf("TopologicalSort() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("TopologicalSort() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTopologicalSort_Cycle(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddEdge("A", "B")
	g.AddEdge("B", "C")
	g.AddEdge("C", "A")
	g.AddNode("D")

	_, err := g.TopologicalSort()
	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("TopologicalSort() error = %v, want CycleError", err)
	}
	if !slices.Equal(ce.Cycle, []string{"A", "B", "C"}) {
		t.Errorf("Cycle = %v, want [A B C]", ce.Cycle)
	}
}

func TestParentOrder(t *testing.T) {
	t.Parallel()

	base := &gmfile.Object{Header: gmfile.Header{Name: "obj_base"}}
	enemy := &gmfile.Object{Header: gmfile.Header{Name: "obj_enemy"}, Parent: gmfile.RefTo(base)}
	boss := &gmfile.Object{Header: gmfile.Header{Name: "obj_boss"}, Parent: gmfile.RefTo(enemy)}
	loose := &gmfile.Object{Header: gmfile.Header{Name: "obj_loose"}, Parent: gmfile.RefID(40)}

	got, err := ParentOrder([]*gmfile.Object{boss, loose, enemy, base})
	if err != nil {
		t.Fatalf("ParentOrder() error = %v", err)
	}
	want := []string{"obj_loose", "obj_base", "obj_enemy", "obj_boss"}
	if !slices.Equal(got, want) {
		t.Errorf("ParentOrder() = %v, want %v", got, want)
	}
}

func TestParentOrder_Loop(t *testing.T) {
	t.Parallel()

	a := &gmfile.Object{Header: gmfile.Header{Name: "obj_a"}}
	b := &gmfile.Object{Header: gmfile.Header{Name: "obj_b"}, Parent: gmfile.RefTo(a)}
	a.Parent = gmfile.RefTo(b)
	self := &gmfile.Object{Header: gmfile.Header{Name: "obj_self"}}
	self.Parent = gmfile.RefTo(self)

	tests := []struct {
		name    string
		objects []*gmfile.Object
	}{
		{"two objects", []*gmfile.Object{a, b}},
		{"own parent", []*gmfile.Object{self}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParentOrder(tt.objects)
			if !errors.Is(err, issue.ErrMalformedData) {
				t.Fatalf("ParentOrder() error = %v, want MalformedData", err)
			}
			var ce *CycleError
			if !errors.As(err, &ce) {
				t.Errorf("error %v does not carry the cycle", err)
			}
		})
	}
}

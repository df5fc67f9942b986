// SPDX-License-Identifier: MPL-2.0

// Package refs records references between resources that cannot be resolved
// while files are being read.
//
// Resources are read in directory order, not dependency order, so an object
// may name a parent object or a sprite that has not been read yet. Readers
// call Defer for every reference field; the orchestrator calls Declare for
// every resource once it has been read, which runs the waiting callbacks.
// After all kinds are read, AssertResolved reports whatever is left over.
package refs

import (
	"fmt"
	"strings"

	"github.com/gmksplit/gmksplit/internal/issue"
	"github.com/gmksplit/gmksplit/pkg/gmfile"
)

type (
	// Key identifies a reference target. References are stored by name on disk.
	Key struct {
		Kind gmfile.Kind
		Name string
	}

	// Source describes the resource holding a reference.
	Source struct {
		Kind gmfile.Kind
		Name string
		// Field names the referencing field, e.g. "parent" or "instance 3 object".
		Field string
	}

	// Callback receives the target once it is declared.
	Callback func(target gmfile.Resource)

	// Pending is a reference that has not been resolved.
	Pending struct {
		Target Key
		Source Source
	}

	waiter struct {
		source Source
		fn     Callback
	}

	// Registry holds deferred references for one composition run.
	// The zero value is not usable; use NewRegistry.
	Registry struct {
		declared map[Key]gmfile.Resource
		waiting  map[Key][]waiter
		// order keeps keys in first-deferred order for deterministic reports.
		order []Key
	}
)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		declared: make(map[Key]gmfile.Resource),
		waiting:  make(map[Key][]waiter),
	}
}

// Defer registers fn to run once a resource of kind k called name is known.
// If it is already known, fn runs immediately.
func (r *Registry) Defer(k gmfile.Kind, name string, source Source, fn Callback) {
	key := Key{Kind: k, Name: name}
	if target, ok := r.declared[key]; ok {
		fn(target)
		return
	}
	if _, ok := r.waiting[key]; !ok {
		r.order = append(r.order, key)
	}
	r.waiting[key] = append(r.waiting[key], waiter{source: source, fn: fn})
}

// Declare makes res known, running and clearing every callback waiting on
// it. References are by name, so a second resource of the same kind and name
// is a PathCollision and leaves the first declaration in place.
func (r *Registry) Declare(res gmfile.Resource) error {
	key := Key{Kind: res.Kind(), Name: res.Hdr().Name}
	if prev, ok := r.declared[key]; ok {
		err := issue.New(issue.PathCollision, "name already taken by another %s", key.Kind).
			WithResource(key.Kind.String(), key.Name)
		if id := prev.Hdr().ID; id != gmfile.NoID {
			err.Detail += fmt.Sprintf(" (id %d)", id)
		}
		return err
	}
	r.declared[key] = res

	waiters := r.waiting[key]
	delete(r.waiting, key)
	for _, w := range waiters {
		w.fn(res)
	}
	return nil
}

// Lookup returns the declared resource for (k, name).
func (r *Registry) Lookup(k gmfile.Kind, name string) (gmfile.Resource, bool) {
	res, ok := r.declared[Key{Kind: k, Name: name}]
	return res, ok
}

// Unresolved returns every pending reference in the order targets were first deferred.
func (r *Registry) Unresolved() []Pending {
	var out []Pending
	for _, key := range r.order {
		for _, w := range r.waiting[key] {
			out = append(out, Pending{Target: key, Source: w.source})
		}
	}
	return out
}

// AssertResolved returns a DanglingReference error naming the first unresolved
// reference's source and target, and how many more there are.
func (r *Registry) AssertResolved() error {
	pending := r.Unresolved()
	if len(pending) == 0 {
		return nil
	}

	first := pending[0]
	var detail strings.Builder
	fmt.Fprintf(&detail, "%s refers to missing %s %q", first.Source.Field, first.Target.Kind, first.Target.Name)
	if len(pending) > 1 {
		fmt.Fprintf(&detail, " (and %d more unresolved references)", len(pending)-1)
	}
	return issue.New(issue.DanglingReference, "%s", detail.String()).
		WithResource(first.Source.Kind.String(), first.Source.Name)
}

// SPDX-License-Identifier: MPL-2.0

// Package reconcile decides which resource identifiers survive composition.
//
// A Policy is chosen once per run. A Context applies it kind by kind after
// all resources have been read: preserved kinds keep the identifiers written
// in their files, every other kind is renumbered in tree order. Renumbering is
// a pure function of tree order, so composing unchanged input twice gives the
// same identifiers.
package reconcile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gmksplit/gmksplit/internal/issue"
	"github.com/gmksplit/gmksplit/pkg/gmfile"
)

const (
	// PolicyNone renumbers every kind.
	PolicyNone Policy = "none"
	// PolicyObjects preserves object identifiers and renumbers every other kind.
	PolicyObjects Policy = "objects"
	// PolicyAll preserves every identifier.
	PolicyAll Policy = "all"
)

// ErrInvalidPolicy is the sentinel error wrapped by InvalidPolicyError.
var ErrInvalidPolicy = errors.New("invalid identifier preservation policy")

type (
	// Policy selects which kinds keep their identifiers.
	Policy string

	// InvalidPolicyError is returned when a Policy value is not recognized.
	InvalidPolicyError struct {
		Value Policy
	}

	// Context applies a Policy during one composition run.
	Context struct {
		policy   Policy
		assigned map[gmfile.Kind]bool
	}
)

// Error implements the error interface.
func (e *InvalidPolicyError) Error() string {
	return fmt.Sprintf("invalid identifier preservation policy %q (valid: none, objects, all)", e.Value)
}

// Unwrap returns ErrInvalidPolicy for errors.Is() compatibility.
func (e *InvalidPolicyError) Unwrap() error { return ErrInvalidPolicy }

// ParsePolicy parses a policy name case-insensitively.
func ParsePolicy(s string) (Policy, error) {
	p := Policy(strings.ToLower(strings.TrimSpace(s)))
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

// Validate returns an error if the policy is not recognized.
func (p Policy) Validate() error {
	switch p {
	case PolicyNone, PolicyObjects, PolicyAll:
		return nil
	default:
		return &InvalidPolicyError{Value: p}
	}
}

// String returns the policy name.
func (p Policy) String() string { return string(p) }

// Preserves reports whether identifiers of kind k are kept.
func (p Policy) Preserves(k gmfile.Kind) bool {
	switch p {
	case PolicyAll:
		return true
	case PolicyObjects:
		return k == gmfile.KindObject
	default:
		return false
	}
}

// NewContext creates the reconciliation context for one run.
func NewContext(p Policy) *Context {
	return &Context{policy: p, assigned: make(map[gmfile.Kind]bool)}
}

// Policy returns the policy the context applies.
func (c *Context) Policy() Policy { return c.policy }

// Assign sets the final identifier of every resource of kind k, given in
// tree order. Renumbered kinds get 0..n-1. Preserved kinds keep identifiers
// read from files; resources without one get fresh identifiers above the
// highest kept one, in tree order. Two resources keeping the same identifier
// fail with DuplicateIdentifier. Assign may be called once per kind.
func (c *Context) Assign(k gmfile.Kind, resources []gmfile.Resource) error {
	if c.assigned[k] {
		return issue.New(issue.Internal, "identifiers of kind %s assigned twice", k)
	}
	c.assigned[k] = true

	if !c.policy.Preserves(k) {
		for i, r := range resources {
			r.Hdr().ID = gmfile.ID(i)
		}
		return nil
	}

	owners := make(map[gmfile.ID]gmfile.Resource, len(resources))
	next := gmfile.ID(0)
	for _, r := range resources {
		id := r.Hdr().ID
		if id == gmfile.NoID {
			continue
		}
		if prev, ok := owners[id]; ok {
			return issue.New(issue.DuplicateIdentifier, "identifier also used by %s %q", k, prev.Hdr().Name).
				WithResource(k.String(), r.Hdr().Name).
				WithID(int(id))
		}
		owners[id] = r
		if id >= next {
			next = id + 1
		}
	}
	for _, r := range resources {
		if r.Hdr().ID == gmfile.NoID {
			r.Hdr().ID = next
			next++
		}
	}
	return nil
}

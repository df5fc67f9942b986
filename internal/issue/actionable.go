// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

// defaultSuggestions are used by Build when the caller supplies none.
var defaultSuggestions = map[Kind][]string{
	InvalidName: {
		"Rename the resource in the editor and convert again",
	},
	PathCollision: {
		"Give the resources names that differ in more than letter case",
	},
	MalformedData: {
		"Check the named file against one written by a fresh decompose",
	},
	DanglingReference: {
		"Restore the missing resource file or remove the reference",
	},
	DuplicateIdentifier: {
		"Remove the id attribute from one of the files",
		"Convert with --preserve-ids none to renumber everything",
	},
	IOFailure: {
		"Check permissions of the source and destination",
	},
	PreconditionFailed: {
		"Pick a destination that does not exist yet",
		"Make sure exactly one path ends in .gmk or .gm81",
	},
}

type (
	// ActionableError is what the CLI shows when a command fails: the
	// operation, the path it was working on, the kind of conversion failure
	// and what the user can try next.
	//
	//	err := issue.NewErrorContext().
	//		WithOperation("decompose archive").
	//		WithResource("game.gmk").
	//		Wrap(cause).
	//		BuildError()
	ActionableError struct {
		Operation   string
		Resource    string
		Kind        Kind
		Suggestions []string
		Cause       error
	}

	// ErrorContext builds an ActionableError.
	ErrorContext struct {
		operation   string
		resource    string
		suggestions []string
		cause       error
	}
)

// NewErrorContext creates a new ErrorContext builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// WrapWithOperation wraps err for operation, with the default suggestions for
// its kind. Returns nil when err is nil.
func WrapWithOperation(err error, operation string) *ActionableError {
	if err == nil {
		return nil
	}
	return NewErrorContext().WithOperation(operation).Wrap(err).Build()
}

// Error is the one-line form:
//
//	decompose archive game.gmk: InvalidName: sprite "a:b": reserved character
func (e *ActionableError) Error() string {
	msg := e.Operation
	if e.Resource != "" {
		msg += " " + e.Resource
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format returns Error followed by the suggestions. Verbose output adds the
// conversion details and the chain of causes.
func (e *ActionableError) Format(verbose bool) string {
	var msg strings.Builder
	msg.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n")
		for _, s := range e.Suggestions {
			msg.WriteString("\n  • ")
			msg.WriteString(s)
		}
	}
	if !verbose {
		return msg.String()
	}

	var ce *ConvertError
	if errors.As(e.Cause, &ce) {
		msg.WriteString("\n\nDetails:")
		fmt.Fprintf(&msg, "\n  kind:     %s", ce.Kind)
		if ce.Name != "" {
			fmt.Fprintf(&msg, "\n  resource: %s %q", ce.ResourceKind, ce.Name)
			if ce.HasID {
				fmt.Fprintf(&msg, " (id %d)", ce.ID)
			}
		}
		if ce.Path != "" {
			fmt.Fprintf(&msg, "\n  file:     %s", ce.Path)
		}
	}

	if chain := causes(e.Cause); len(chain) > 1 {
		msg.WriteString("\n\nCaused by:")
		for i, err := range chain[1:] {
			fmt.Fprintf(&msg, "\n  %d. %s", i+1, err)
		}
	}
	return msg.String()
}

// causes lists err and the errors below it. A ConvertError is followed to its
// cause, never to its kind sentinel.
func causes(err error) []error {
	var chain []error
	for err != nil {
		chain = append(chain, err)
		var next error
		switch u := err.(type) {
		case *ConvertError:
			next = u.Err
		case interface{ Unwrap() []error }:
			if errs := u.Unwrap(); len(errs) > 0 {
				next = errs[len(errs)-1]
			}
		default:
			next = errors.Unwrap(err)
		}
		err = next
	}
	return chain
}

func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.operation = op
	return c
}

func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.resource = res
	return c
}

// WithSuggestion adds a suggestion. Can be called multiple times.
func (c *ErrorContext) WithSuggestion(sug string) *ErrorContext {
	c.suggestions = append(c.suggestions, sug)
	return c
}

func (c *ErrorContext) WithSuggestions(sugs ...string) *ErrorContext {
	c.suggestions = append(c.suggestions, sugs...)
	return c
}

// Wrap sets the underlying cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.cause = err
	return c
}

// Build returns nil when no operation is set. The kind is taken from the
// cause, and so are the suggestions unless some were given.
func (c *ErrorContext) Build() *ActionableError {
	if c.operation == "" {
		return nil
	}
	kind := KindOf(c.cause)
	suggestions := c.suggestions
	if len(suggestions) == 0 {
		suggestions = defaultSuggestions[kind]
	}
	return &ActionableError{
		Operation:   c.operation,
		Resource:    c.resource,
		Kind:        kind,
		Suggestions: suggestions,
		Cause:       c.cause,
	}
}

// BuildError is Build as an error, nil when Build is nil.
func (c *ErrorContext) BuildError() error {
	if ae := c.Build(); ae != nil {
		return ae
	}
	return nil
}

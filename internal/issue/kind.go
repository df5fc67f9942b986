// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// InvalidName means a resource name cannot be used as a path segment.
	InvalidName Kind = iota + 1
	// PathCollision means two resources map to the same output path.
	PathCollision
	// MalformedData means a text representation could not be parsed.
	MalformedData
	// DanglingReference means a reference never resolved to a resource.
	DanglingReference
	// DuplicateIdentifier means two resources of one kind share an identifier.
	DuplicateIdentifier
	// IOFailure means an underlying read or write failed.
	IOFailure
	// PreconditionFailed means the source is missing or the destination exists.
	PreconditionFailed
	// Internal marks a broken internal invariant. It is never caused by input.
	Internal
)

var (
	// ErrInvalidName is the sentinel matched by errors.Is for InvalidName errors.
	ErrInvalidName = errors.New("invalid name")
	// ErrPathCollision is the sentinel matched by errors.Is for PathCollision errors.
	ErrPathCollision = errors.New("path collision")
	// ErrMalformedData is the sentinel matched by errors.Is for MalformedData errors.
	ErrMalformedData = errors.New("malformed data")
	// ErrDanglingReference is the sentinel matched by errors.Is for DanglingReference errors.
	ErrDanglingReference = errors.New("dangling reference")
	// ErrDuplicateIdentifier is the sentinel matched by errors.Is for DuplicateIdentifier errors.
	ErrDuplicateIdentifier = errors.New("duplicate identifier")
	// ErrIOFailure is the sentinel matched by errors.Is for IOFailure errors.
	ErrIOFailure = errors.New("i/o failure")
	// ErrPreconditionFailed is the sentinel matched by errors.Is for PreconditionFailed errors.
	ErrPreconditionFailed = errors.New("precondition failed")
	// ErrInternal is the sentinel matched by errors.Is for Internal errors.
	ErrInternal = errors.New("internal error")
)

type (
	// Kind classifies a conversion failure.
	Kind int

	// ConvertError is the typed error returned by every conversion step.
	// Only Kind is required; the remaining fields narrow down which resource
	// and which file the failure concerns.
	ConvertError struct {
		Kind Kind
		// ResourceKind is the human readable resource kind ("sprite", "object", ...).
		ResourceKind string
		// Name is the resource name, when known.
		Name string
		// ID is the resource identifier. HasID reports whether it is set.
		ID    int
		HasID bool
		// Path is the file or directory involved, when known.
		Path string
		// Detail is a short human readable explanation.
		Detail string
		// Err is the underlying cause.
		Err error
	}
)

// String returns the kind's name as used in messages and the issue catalog.
func (k Kind) String() string {
	switch k {
	case InvalidName:
		return "InvalidName"
	case PathCollision:
		return "PathCollision"
	case MalformedData:
		return "MalformedData"
	case DanglingReference:
		return "DanglingReference"
	case DuplicateIdentifier:
		return "DuplicateIdentifier"
	case IOFailure:
		return "IOFailure"
	case PreconditionFailed:
		return "PreconditionFailed"
	case Internal:
		return "Internal"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) sentinel() error {
	switch k {
	case InvalidName:
		return ErrInvalidName
	case PathCollision:
		return ErrPathCollision
	case MalformedData:
		return ErrMalformedData
	case DanglingReference:
		return ErrDanglingReference
	case DuplicateIdentifier:
		return ErrDuplicateIdentifier
	case IOFailure:
		return ErrIOFailure
	case PreconditionFailed:
		return ErrPreconditionFailed
	default:
		return ErrInternal
	}
}

// New creates a ConvertError of the given kind with a formatted detail message.
func New(kind Kind, format string, args ...any) *ConvertError {
	return &ConvertError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Wrap creates a ConvertError of the given kind around err.
// Returns nil when err is nil.
func Wrap(kind Kind, err error) *ConvertError {
	if err == nil {
		return nil
	}
	return &ConvertError{Kind: kind, Err: err}
}

// WithResource sets the resource kind and name.
func (e *ConvertError) WithResource(kind, name string) *ConvertError {
	e.ResourceKind = kind
	e.Name = name
	return e
}

// WithID sets the resource identifier.
func (e *ConvertError) WithID(id int) *ConvertError {
	e.ID = id
	e.HasID = true
	return e
}

// WithPath sets the file path involved.
func (e *ConvertError) WithPath(path string) *ConvertError {
	e.Path = path
	return e
}

// Error implements the error interface.
//
//	PathCollision: sprite "Test" (id 3): Sprites/Test.xml: already written by sprite "test"
func (e *ConvertError) Error() string {
	var msg strings.Builder
	msg.WriteString(e.Kind.String())

	if e.ResourceKind != "" || e.Name != "" {
		msg.WriteString(": ")
		if e.ResourceKind != "" {
			msg.WriteString(e.ResourceKind)
			if e.Name != "" {
				msg.WriteString(" ")
			}
		}
		if e.Name != "" {
			fmt.Fprintf(&msg, "%q", e.Name)
		}
		if e.HasID {
			fmt.Fprintf(&msg, " (id %d)", e.ID)
		}
	}

	if e.Path != "" {
		msg.WriteString(": ")
		msg.WriteString(e.Path)
	}

	if e.Detail != "" {
		msg.WriteString(": ")
		msg.WriteString(e.Detail)
	}

	if e.Err != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Err.Error())
	}

	return msg.String()
}

// Unwrap returns the kind sentinel and the cause so that both errors.Is(err,
// ErrPathCollision) and errors.Is(err, fs.ErrNotExist) work.
func (e *ConvertError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

// KindOf returns the Kind of the first ConvertError in err's chain, or 0.
func KindOf(err error) Kind {
	var ce *ConvertError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return 0
}

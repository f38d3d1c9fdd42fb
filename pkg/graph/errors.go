package graph

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrElementNotFound    = errors.New("element not found")
	ErrElementFault       = errors.New("element is faulted")
	ErrDuplicateElement   = errors.New("duplicate element unique id")
	ErrDuplicateConnector = errors.New("duplicate connector id")
	ErrDanglingReference  = errors.New("connector references unknown connector")
	ErrInvalidElement     = errors.New("invalid element")
	ErrNilDocument        = errors.New("document is nil")
)

// GraphError provides structured error information for graph operations.
type GraphError struct {
	Op          string // Operation that failed (e.g., "Build", "Resolve")
	UniqueID    string // Element unique id (if applicable)
	ConnectorID string // Connector id (if applicable)
	Cause       error  // Underlying error
	Context     string // Additional context
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	var subject string
	switch {
	case e.UniqueID != "" && e.ConnectorID != "":
		subject = fmt.Sprintf(" element %s connector %s", e.UniqueID, e.ConnectorID)
	case e.UniqueID != "":
		subject = fmt.Sprintf(" element %s", e.UniqueID)
	case e.ConnectorID != "":
		subject = fmt.Sprintf(" connector %s", e.ConnectorID)
	}
	if e.Context != "" {
		return fmt.Sprintf("%s%s (%s): %v", e.Op, subject, e.Context, e.Cause)
	}
	return fmt.Sprintf("%s%s: %v", e.Op, subject, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *GraphError) Unwrap() error {
	return e.Cause
}

// ErrorBuilder provides a fluent interface for building GraphErrors.
type ErrorBuilder struct {
	err GraphError
}

// NewError creates a new error builder with the given operation.
func NewError(op string) *ErrorBuilder {
	return &ErrorBuilder{err: GraphError{Op: op}}
}

// Element sets the element unique id.
func (b *ErrorBuilder) Element(uniqueID string) *ErrorBuilder {
	b.err.UniqueID = uniqueID
	return b
}

// Connector sets the connector id.
func (b *ErrorBuilder) Connector(id string) *ErrorBuilder {
	b.err.ConnectorID = id
	return b
}

// Context adds free-form context.
func (b *ErrorBuilder) Context(ctx string) *ErrorBuilder {
	b.err.Context = ctx
	return b
}

// Cause sets the underlying error and returns the built error.
func (b *ErrorBuilder) Cause(cause error) error {
	b.err.Cause = cause
	e := b.err
	return &e
}

// IsNotFound reports whether err is an element lookup miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrElementNotFound)
}

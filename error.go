package isoxml

import (
	"errors"
	"fmt"
	"reflect"
)

// Errors
var (
	ErrNilValue          = errors.New("isoxml: nil value")
	ErrNoRootElement     = errors.New("isoxml: document has no root element")
	ErrMultipleRoots     = errors.New("isoxml: document has more than one root element")
	ErrTextOutsideRoot   = errors.New("isoxml: text outside the root element")
	ErrInvalidNamespace  = errors.New("isoxml: invalid namespace binding")
	ErrNamespaceConflict = errors.New("isoxml: conflicting default namespace on root element")
	ErrNotPointer        = errors.New("isoxml: decode target must be a non-nil pointer")
)

// SerializationError reports a value that could not be written as XML.
type SerializationError struct {
	Type     reflect.Type
	Internal error // Stores the error returned by encoding/xml or the namespace writer
}

// Error makes it compatible with `error` interface.
func (e *SerializationError) Error() string {
	return fmt.Sprintf("isoxml: serialize %s: %v", typeName(e.Type), e.Internal)
}

// Unwrap satisfies the Go 1.13 error wrapper interface.
func (e *SerializationError) Unwrap() error {
	return e.Internal
}

// DeserializationError reports input that is not well-formed XML or does not
// fit the target type.
type DeserializationError struct {
	Type     reflect.Type
	Internal error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("isoxml: deserialize %s: %v", typeName(e.Type), e.Internal)
}

func (e *DeserializationError) Unwrap() error {
	return e.Internal
}

// FilesystemError reports a failed directory creation, open, write or close.
type FilesystemError struct {
	Op       string
	Path     string
	Internal error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("isoxml: %s %s: %v", e.Op, e.Path, e.Internal)
}

func (e *FilesystemError) Unwrap() error {
	return e.Internal
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

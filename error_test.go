package isoxml

import (
	"errors"
	"io/fs"
	"reflect"
	"strings"
	"testing"
)

func TestSerializationError_Formatting(t *testing.T) {
	inner := errors.New("inner")
	err := &SerializationError{Type: reflect.TypeOf(record{}), Internal: inner}
	s := err.Error()
	if !strings.Contains(s, "isoxml.record") || !strings.Contains(s, "inner") {
		t.Fatalf("unexpected Error output: %s", s)
	}
	if !errors.Is(err, inner) {
		t.Fatalf("errors.Is should match wrapped internal error")
	}
}

func TestDeserializationError_NilType(t *testing.T) {
	err := &DeserializationError{Internal: ErrNilValue}
	if !strings.Contains(err.Error(), "<nil>") {
		t.Fatalf("unexpected Error output: %s", err.Error())
	}
	if errors.Unwrap(err) != ErrNilValue {
		t.Fatalf("Unwrap() = %v", errors.Unwrap(err))
	}
}

func TestFilesystemError_Unwrap(t *testing.T) {
	err := &FilesystemError{Op: "open", Path: "xml/a.xml", Internal: fs.ErrPermission}
	if !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("errors.Is should match fs.ErrPermission")
	}
	if s := err.Error(); s != "isoxml: open xml/a.xml: permission denied" {
		t.Fatalf("Error() = %q", s)
	}
}

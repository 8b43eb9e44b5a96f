package isoxml

import (
	"bytes"
	"io"
	"reflect"
)

// SerializeToString returns v as an XML document declaring the default
// namespaces.
func SerializeToString(v any) (string, error) {
	return SerializeToStringWithNamespaces(v, DefaultNamespaces())
}

// SerializeToStringWithNamespaces returns v as an XML document declaring
// exactly ns, or the defaults when ns is nil. The declaration always states
// UTF-8.
func SerializeToStringWithNamespaces(v any, ns Namespaces) (string, error) {
	tw, err := serialize(v, ns)
	if err != nil {
		return "", err
	}
	return tw.String(), nil
}

// SerializeToStream is like SerializeToString but returns the encoded bytes
// in a reader positioned at the start.
func SerializeToStream(v any) (*bytes.Reader, error) {
	return SerializeToStreamWithNamespaces(v, DefaultNamespaces())
}

// SerializeToStreamWithNamespaces is like SerializeToStringWithNamespaces but
// returns the encoded bytes in a reader positioned at the start.
func SerializeToStreamWithNamespaces(v any, ns Namespaces) (*bytes.Reader, error) {
	tw, err := serialize(v, ns)
	if err != nil {
		return nil, err
	}
	b, err := tw.Bytes()
	if err != nil {
		return nil, &SerializationError{Type: reflect.TypeOf(v), Internal: err}
	}
	return bytes.NewReader(b), nil
}

func serialize(v any, ns Namespaces) (*TextWriter, error) {
	tw := NewTextWriter(nil)
	if err := NewXMLCodec(ns).Encode(tw, v, DefaultIndent); err != nil {
		return nil, err
	}
	return tw, nil
}

// DeserializeFromString decodes text into a new value of typ and returns it.
// On failure the result is nil.
func DeserializeFromString(text string, typ reflect.Type) (any, error) {
	if typ == nil {
		return nil, &DeserializationError{Internal: ErrNilValue}
	}
	ptr := reflect.New(typ)
	if err := decodeInto(newStringDecoder(text), ptr.Interface()); err != nil {
		return nil, err
	}
	return ptr.Elem().Interface(), nil
}

// Deserialize decodes text into a T.
func Deserialize[T any](text string) (T, error) {
	var v T
	err := decodeInto(newStringDecoder(text), &v)
	return v, err
}

// DeserializeFromStream decodes the document read from r into v, which must be
// a non-nil pointer. Unlike strings, streams honour the declared encoding.
func DeserializeFromStream(r io.Reader, v any) error {
	return XMLCodec{}.Decode(r, v)
}

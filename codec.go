package isoxml

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"reflect"
	"strings"

	"golang.org/x/net/html/charset"
)

// DefaultIndent is the indentation used by the package level functions.
const DefaultIndent = "  "

// Codec 定义了数据的编码和解码接口
type Codec interface {
	// Encode 将数据编码为字节流
	Encode(w io.Writer, v any, indent string) error
	// Decode 从字节流解码数据
	Decode(r io.Reader, v any) error
}

var _ Codec = XMLCodec{}

// XMLCodec writes XML documents with an encoding declaration and the
// namespace bindings declared on the root element. A nil Namespaces applies
// DefaultNamespaces; an empty non-nil set declares nothing.
type XMLCodec struct {
	Namespaces Namespaces
}

// NewXMLCodec returns a codec applying ns, or the defaults when ns is nil.
func NewXMLCodec(ns Namespaces) XMLCodec {
	return XMLCodec{Namespaces: ns}
}

func (c XMLCodec) namespaces() Namespaces {
	if c.Namespaces == nil {
		return DefaultNamespaces()
	}
	return c.Namespaces
}

// Encode 序列化数据到 w 接口
//
// 若 w 实现了 EncodingReporter，XML 声明使用其报告的编码，否则为 UTF-8。
func (c XMLCodec) Encode(w io.Writer, v any, indent string) error {
	typ := reflect.TypeOf(v)
	if v == nil || isNilPointer(v) {
		return &SerializationError{Type: typ, Internal: ErrNilValue}
	}

	var raw bytes.Buffer
	enc := xml.NewEncoder(&raw)
	if indent != "" {
		enc.Indent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return &SerializationError{Type: typ, Internal: err}
	}
	if err := writeDocument(w, xml.NewDecoder(&raw), c.namespaces()); err != nil {
		return &SerializationError{Type: typ, Internal: err}
	}
	return nil
}

// Decode 反序列化数据并绑定到 v 上
//
// v 必须是非空指针，只有整个文档解码成功后才会赋值。输入按其声明的字符集解码。
func (XMLCodec) Decode(r io.Reader, v any) error {
	return decodeInto(newByteDecoder(r), v)
}

// newStringDecoder reads already decoded text. A declared encoding says how
// the text was once stored, not how it is held now, so it is ignored.
func newStringDecoder(s string) *xml.Decoder {
	d := xml.NewDecoder(strings.NewReader(s))
	d.CharsetReader = func(_ string, in io.Reader) (io.Reader, error) {
		return in, nil
	}
	return d
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func newByteDecoder(r io.Reader) *xml.Decoder {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		br.Discard(len(utf8BOM))
	}
	d := xml.NewDecoder(br)
	d.CharsetReader = charset.NewReaderLabel
	return d
}

func decodeInto(d *xml.Decoder, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &DeserializationError{Type: reflect.TypeOf(v), Internal: ErrNotPointer}
	}
	typ := rv.Elem().Type()
	start, err := rootElement(d)
	if err != nil {
		return &DeserializationError{Type: typ, Internal: err}
	}
	fresh := reflect.New(typ)
	if err := d.DecodeElement(fresh.Interface(), &start); err != nil {
		return &DeserializationError{Type: typ, Internal: err}
	}
	if err := expectEOF(d); err != nil {
		return &DeserializationError{Type: typ, Internal: err}
	}
	rv.Elem().Set(fresh.Elem())
	return nil
}

// rootElement skips the prolog and returns the start of the root element.
func rootElement(d *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return xml.StartElement{}, ErrNoRootElement
		}
		if err != nil {
			return xml.StartElement{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return t, nil
		case xml.CharData:
			if err := checkOutsideText(t); err != nil {
				return xml.StartElement{}, err
			}
		}
	}
}

func checkOutsideText(t xml.CharData) error {
	if len(bytes.TrimSpace(t)) > 0 {
		return fmt.Errorf("%w: %q", ErrTextOutsideRoot, string(t))
	}
	return nil
}

// expectEOF consumes the rest of the document, which may only hold
// whitespace, comments and processing instructions.
func expectEOF(d *xml.Decoder) error {
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return fmt.Errorf("%w: unexpected <%s> after root", ErrMultipleRoots, t.Name.Local)
		case xml.CharData:
			if err := checkOutsideText(t); err != nil {
				return err
			}
		}
	}
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

package isoxml

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\r", "&#xD;")
	attrEscaper = strings.NewReplacer(
		"&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;",
		"\t", "&#x9;", "\n", "&#xA;", "\r", "&#xD;",
	)
)

// Reformat reads the XML document from src and writes it to dst with ns
// declared on the root element and every name in a bound namespace written
// with its prefix. A nil ns applies DefaultNamespaces. The source honours its
// declared charset.
func Reformat(dst io.Writer, src io.Reader, ns Namespaces) error {
	if ns == nil {
		ns = DefaultNamespaces()
	}
	err := writeDocument(dst, newByteDecoder(src), ns)
	if err == nil {
		return nil
	}
	var syntaxErr *xml.SyntaxError
	switch {
	case errors.As(err, &syntaxErr),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, ErrNoRootElement),
		errors.Is(err, ErrMultipleRoots),
		errors.Is(err, ErrTextOutsideRoot):
		return &DeserializationError{Internal: err}
	}
	return &SerializationError{Internal: err}
}

// writeDocument copies the tokens of d into dst behind a fresh XML
// declaration naming dst's encoding.
func writeDocument(dst io.Writer, d *xml.Decoder, ns Namespaces) error {
	if err := ns.Validate(); err != nil {
		return err
	}
	w := newNSWriter(dst, ns)
	w.declaration(encodingNameOf(dst))
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if err = w.token(tok); err != nil {
			return err
		}
	}
	if !w.closed {
		return ErrNoRootElement
	}
	return w.w.Flush()
}

type nsScope struct {
	name      string
	defaultNS string
	// uri -> prefix for declarations that are not part of the bindings
	prefixes map[string]string
	// namespace URIs declared by the source document
	sourceURIs map[string]struct{}
}

func (sc *nsScope) declare(uri, prefix string) {
	m := make(map[string]string, len(sc.prefixes)+1)
	for u, p := range sc.prefixes {
		if p != prefix {
			m[u] = p
		}
	}
	m[uri] = prefix
	sc.prefixes = m
}

func (sc *nsScope) sourceDeclares(uri string) {
	if _, ok := sc.sourceURIs[uri]; ok || uri == "" {
		return
	}
	m := make(map[string]struct{}, len(sc.sourceURIs)+1)
	for u := range sc.sourceURIs {
		m[u] = struct{}{}
	}
	m[uri] = struct{}{}
	sc.sourceURIs = m
}

// literalPrefix reports whether space is a prefix the decoder could not
// resolve rather than a namespace URI. Names tagged as "gmd:MD_Metadata"
// arrive this way.
func (sc *nsScope) literalPrefix(space string) bool {
	if _, ok := sc.sourceURIs[space]; ok {
		return false
	}
	return isNCName(space)
}

func (sc *nsScope) inUse(prefix string) bool {
	for _, p := range sc.prefixes {
		if p == prefix {
			return true
		}
	}
	return false
}

type nsWriter struct {
	w        *bufio.Writer
	bindings Namespaces
	prefixOf map[string]string   // uri -> bound prefix
	bound    map[string]struct{} // bound prefixes
	stack    []nsScope
	closed   bool
}

func newNSWriter(dst io.Writer, ns Namespaces) *nsWriter {
	w := &nsWriter{
		w:        bufio.NewWriter(dst),
		bindings: ns,
		prefixOf: make(map[string]string, len(ns)),
		bound:    make(map[string]struct{}, len(ns)),
	}
	for _, n := range ns {
		if _, ok := w.prefixOf[n.URI]; !ok {
			w.prefixOf[n.URI] = n.Prefix
		}
		w.bound[n.Prefix] = struct{}{}
	}
	return w
}

func (w *nsWriter) declaration(encoding string) {
	w.w.WriteString(`<?xml version="1.0" encoding="`)
	w.w.WriteString(encoding)
	w.w.WriteString("\"?>\n")
}

func (w *nsWriter) token(tok xml.Token) error {
	switch t := tok.(type) {
	case xml.StartElement:
		return w.start(t)
	case xml.EndElement:
		w.end()
	case xml.CharData:
		if len(w.stack) == 0 {
			if err := checkOutsideText(t); err != nil {
				return err
			}
		}
		w.w.WriteString(textEscaper.Replace(string(t)))
	case xml.Comment:
		w.w.WriteString("<!--")
		w.w.Write(t)
		w.w.WriteString("-->")
	case xml.ProcInst:
		if t.Target == "xml" {
			return nil
		}
		w.w.WriteString("<?")
		w.w.WriteString(t.Target)
		if len(t.Inst) > 0 {
			w.w.WriteByte(' ')
			w.w.Write(t.Inst)
		}
		w.w.WriteString("?>")
	case xml.Directive:
		w.w.WriteString("<!")
		w.w.Write(t)
		w.w.WriteByte('>')
	}
	return nil
}

func (w *nsWriter) start(t xml.StartElement) error {
	root := len(w.stack) == 0
	if root && w.closed {
		return ErrMultipleRoots
	}
	var sc nsScope
	if !root {
		parent := w.stack[len(w.stack)-1]
		sc.defaultNS = parent.defaultNS
		sc.prefixes = parent.prefixes
		sc.sourceURIs = parent.sourceURIs
	}
	for _, a := range t.Attr {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			sc.sourceDeclares(a.Value)
		}
	}

	var decls []xml.Attr
	if root {
		for _, b := range w.bindings {
			if b.Prefix == "" {
				decls = append(decls, xml.Attr{Name: xml.Name{Local: "xmlns"}, Value: b.URI})
				sc.defaultNS = b.URI
				continue
			}
			decls = append(decls, xml.Attr{Name: xml.Name{Local: "xmlns:" + b.Prefix}, Value: b.URI})
		}
	}
	// Foreign prefix declarations survive; they may be referenced from
	// attribute values such as xsi:type.
	for _, a := range t.Attr {
		if a.Name.Space != "xmlns" {
			continue
		}
		if _, ok := w.bound[a.Name.Local]; ok {
			continue
		}
		if _, ok := w.prefixOf[a.Value]; ok {
			continue
		}
		if p, ok := sc.prefixes[a.Value]; ok && p == a.Name.Local {
			continue
		}
		sc.declare(a.Value, a.Name.Local)
		decls = append(decls, xml.Attr{Name: xml.Name{Local: "xmlns:" + a.Name.Local}, Value: a.Value})
	}

	name, err := w.elementName(t.Name, &sc, &decls)
	if err != nil {
		return err
	}
	attrs := make([]xml.Attr, 0, len(t.Attr))
	for _, a := range t.Attr {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			continue
		}
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: w.attrName(a.Name, &sc, &decls)}, Value: a.Value})
	}

	w.w.WriteByte('<')
	w.w.WriteString(name)
	for _, a := range append(decls, attrs...) {
		w.w.WriteByte(' ')
		w.w.WriteString(a.Name.Local)
		w.w.WriteString(`="`)
		w.w.WriteString(attrEscaper.Replace(a.Value))
		w.w.WriteByte('"')
	}
	w.w.WriteByte('>')

	sc.name = name
	w.stack = append(w.stack, sc)
	return nil
}

func (w *nsWriter) end() {
	n := len(w.stack) - 1
	sc := w.stack[n]
	w.stack = w.stack[:n]
	w.w.WriteString("</")
	w.w.WriteString(sc.name)
	w.w.WriteByte('>')
	if n == 0 {
		w.closed = true
	}
}

func (w *nsWriter) elementName(n xml.Name, sc *nsScope, decls *[]xml.Attr) (string, error) {
	switch {
	case n.Space == "":
		return n.Local, setDefaultNS(sc, decls, "")
	case n.Space == XMLNamespace:
		return "xml:" + n.Local, nil
	}
	if p, ok := w.prefixOf[n.Space]; ok {
		if p == "" {
			return n.Local, setDefaultNS(sc, decls, n.Space)
		}
		return p + ":" + n.Local, nil
	}
	if sc.literalPrefix(n.Space) {
		return n.Space + ":" + n.Local, nil
	}
	if p, ok := sc.prefixes[n.Space]; ok {
		return p + ":" + n.Local, nil
	}
	return n.Local, setDefaultNS(sc, decls, n.Space)
}

func (w *nsWriter) attrName(n xml.Name, sc *nsScope, decls *[]xml.Attr) string {
	switch {
	case n.Space == "":
		return n.Local
	case n.Space == XMLNamespace:
		return "xml:" + n.Local
	}
	if p, ok := w.prefixOf[n.Space]; ok && p != "" {
		return p + ":" + n.Local
	}
	if sc.literalPrefix(n.Space) {
		return n.Space + ":" + n.Local
	}
	if p, ok := sc.prefixes[n.Space]; ok {
		return p + ":" + n.Local
	}
	p := w.freePrefix(sc)
	sc.declare(n.Space, p)
	*decls = append(*decls, xml.Attr{Name: xml.Name{Local: "xmlns:" + p}, Value: n.Space})
	return p + ":" + n.Local
}

func (w *nsWriter) freePrefix(sc *nsScope) string {
	for i := 1; ; i++ {
		p := "ns" + strconv.Itoa(i)
		if _, ok := w.bound[p]; ok {
			continue
		}
		if !sc.inUse(p) {
			return p
		}
	}
}

func setDefaultNS(sc *nsScope, decls *[]xml.Attr, uri string) error {
	if sc.defaultNS == uri {
		return nil
	}
	for _, a := range *decls {
		if a.Name.Local == "xmlns" {
			return fmt.Errorf("%w: %q and %q", ErrNamespaceConflict, a.Value, uri)
		}
	}
	*decls = append(*decls, xml.Attr{Name: xml.Name{Local: "xmlns"}, Value: uri})
	sc.defaultNS = uri
	return nil
}

package isoxml

import (
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

const defaultEncodingName = "UTF-8"

// EncodingReporter is implemented by sinks that decide the encoding named in
// the XML declaration written to them.
type EncodingReporter interface {
	EncodingName() string
}

var (
	_ io.StringWriter  = (*TextWriter)(nil)
	_ EncodingReporter = (*TextWriter)(nil)
)

// TextWriter accumulates text in memory and reports an encoding fixed at
// construction. The buffer holds Go strings and has no byte encoding of its
// own; the reported one is what the XML declaration states.
type TextWriter struct {
	buf strings.Builder
	enc encoding.Encoding
}

// NewTextWriter returns a writer reporting enc, or UTF-8 when enc is nil.
func NewTextWriter(enc encoding.Encoding) *TextWriter {
	if enc == nil {
		enc = unicode.UTF8
	}
	return &TextWriter{enc: enc}
}

func (w *TextWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *TextWriter) WriteString(s string) (int, error) {
	return w.buf.WriteString(s)
}

// String returns everything written so far.
func (w *TextWriter) String() string {
	return w.buf.String()
}

func (w *TextWriter) Len() int {
	return w.buf.Len()
}

// Encoding returns the encoding given at construction.
func (w *TextWriter) Encoding() encoding.Encoding {
	return w.enc
}

// EncodingName returns the MIME name of the reported encoding, falling back
// to its IANA name.
func (w *TextWriter) EncodingName() string {
	for _, index := range []*ianaindex.Index{ianaindex.MIME, ianaindex.IANA} {
		if name, err := index.Name(w.enc); err == nil && name != "" {
			return name
		}
	}
	return defaultEncodingName
}

// Bytes returns the contents transcoded to the reported encoding.
func (w *TextWriter) Bytes() ([]byte, error) {
	return w.enc.NewEncoder().Bytes([]byte(w.buf.String()))
}

func encodingNameOf(w io.Writer) string {
	if r, ok := w.(EncodingReporter); ok {
		if name := r.EncodingName(); name != "" {
			return name
		}
	}
	return defaultEncodingName
}

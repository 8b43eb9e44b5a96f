package isoxml

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

func TestTextWriter_DefaultsToUTF8(t *testing.T) {
	w := NewTextWriter(nil)
	if w.Encoding() != unicode.UTF8 {
		t.Fatalf("Encoding() = %v, want UTF-8", w.Encoding())
	}
	if got := w.EncodingName(); !strings.EqualFold(got, "utf-8") {
		t.Fatalf("EncodingName() = %q", got)
	}
}

func TestTextWriter_AccumulatesVerbatim(t *testing.T) {
	w := NewTextWriter(unicode.UTF8)
	io.WriteString(w, "<a>")
	w.Write([]byte("Åland"))
	w.WriteString("</a>")
	if got := w.String(); got != "<a>Åland</a>" {
		t.Fatalf("String() = %q", got)
	}
	if w.Len() != len("<a>Åland</a>") {
		t.Fatalf("Len() = %d", w.Len())
	}
	b, err := w.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b, []byte("<a>Åland</a>")) {
		t.Fatalf("Bytes() = %q", b)
	}
}

func TestTextWriter_TranscodesToReportedEncoding(t *testing.T) {
	w := NewTextWriter(charmap.ISO8859_1)
	w.WriteString("café")
	if name := w.EncodingName(); name == "" || strings.EqualFold(name, "utf-8") {
		t.Fatalf("EncodingName() = %q", name)
	}
	b, err := w.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b, []byte("caf\xe9")) {
		t.Fatalf("Bytes() = %q", b)
	}
}

func TestEncodingNameOf_PlainWriter(t *testing.T) {
	var b bytes.Buffer
	if got := encodingNameOf(&b); got != "UTF-8" {
		t.Fatalf("encodingNameOf(buffer) = %q", got)
	}
}

func TestEncodingDeclarationFollowsWriter(t *testing.T) {
	w := NewTextWriter(charmap.ISO8859_1)
	if err := NewXMLCodec(Namespaces{}).Encode(w, record{Name: "x"}, ""); err != nil {
		t.Fatal(err)
	}
	want := `<?xml version="1.0" encoding="` + w.EncodingName() + `"?>`
	if !strings.HasPrefix(w.String(), want) {
		t.Fatalf("declaration mismatch: %q", w.String())
	}
}

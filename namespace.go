package isoxml

import (
	"fmt"
	"strings"
	"unicode"
)

// Well-known namespace URIs of the ISO 19115/19139 metadata family.
const (
	XSINamespace   = "http://www.w3.org/2001/XMLSchema-instance"
	GMDNamespace   = "http://www.isotc211.org/2005/gmd"
	GCONamespace   = "http://www.isotc211.org/2005/gco"
	GTSNamespace   = "http://www.isotc211.org/2005/gts"
	SRVNamespace   = "http://www.isotc211.org/2005/srv"
	GMLNamespace   = "http://www.opengis.net/gml/3.2"
	CSWNamespace   = "http://www.opengis.net/cat/csw/2.0.2"
	GMXNamespace   = "http://www.isotc211.org/2005/gmx"
	XLinkNamespace = "http://www.w3.org/1999/xlink"

	// XMLNamespace is bound to the reserved "xml" prefix.
	XMLNamespace = "http://www.w3.org/XML/1998/namespace"
)

// Namespace binds a prefix to a namespace URI.
type Namespace struct {
	Prefix string `json:"prefix" mapstructure:"prefix"`
	URI    string `json:"uri" mapstructure:"uri"`
}

// Namespaces is an ordered set of bindings. The order is the order in which
// the declarations appear on the root element.
type Namespaces []Namespace

// DefaultNamespaces returns a new copy of the geospatial metadata bindings
// applied when no explicit set is given.
func DefaultNamespaces() Namespaces {
	return Namespaces{
		{"xsi", XSINamespace},
		{"gmd", GMDNamespace},
		{"gco", GCONamespace},
		{"gts", GTSNamespace},
		{"srv", SRVNamespace},
		{"gml", GMLNamespace},
		{"csw", CSWNamespace},
		{"gmx", GMXNamespace},
		{"xlink", XLinkNamespace},
	}
}

// Add appends a binding and returns the extended set.
func (ns Namespaces) Add(prefix, uri string) Namespaces {
	return append(ns, Namespace{Prefix: prefix, URI: uri})
}

// Lookup returns the URI bound to prefix.
func (ns Namespaces) Lookup(prefix string) (string, bool) {
	for _, n := range ns {
		if n.Prefix == prefix {
			return n.URI, true
		}
	}
	return "", false
}

// Prefix returns the first prefix bound to uri.
func (ns Namespaces) Prefix(uri string) (string, bool) {
	for _, n := range ns {
		if n.URI == uri {
			return n.Prefix, true
		}
	}
	return "", false
}

// Validate reports the first malformed or duplicated binding.
func (ns Namespaces) Validate() error {
	seen := make(map[string]struct{}, len(ns))
	for _, n := range ns {
		if n.URI == "" {
			return fmt.Errorf("%w: empty uri for prefix %q", ErrInvalidNamespace, n.Prefix)
		}
		if _, dup := seen[n.Prefix]; dup {
			return fmt.Errorf("%w: duplicate prefix %q", ErrInvalidNamespace, n.Prefix)
		}
		seen[n.Prefix] = struct{}{}
		if n.Prefix == "" {
			continue
		}
		if !isNCName(n.Prefix) {
			return fmt.Errorf("%w: %q is not a valid prefix", ErrInvalidNamespace, n.Prefix)
		}
		if n.Prefix == "xmlns" || (n.Prefix == "xml") != (n.URI == XMLNamespace) {
			return fmt.Errorf("%w: reserved binding %s=%s", ErrInvalidNamespace, n.Prefix, n.URI)
		}
	}
	return nil
}

// String renders the set as space separated prefix=uri pairs.
func (ns Namespaces) String() string {
	var b strings.Builder
	for i, n := range ns {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(n.Prefix)
		b.WriteByte('=')
		b.WriteString(n.URI)
	}
	return b.String()
}

// ParseNamespace parses a "prefix=uri" pair.
func ParseNamespace(s string) (Namespace, error) {
	prefix, uri, ok := strings.Cut(s, "=")
	if !ok {
		return Namespace{}, fmt.Errorf("%w: %q is not of the form prefix=uri", ErrInvalidNamespace, s)
	}
	return Namespace{Prefix: strings.TrimSpace(prefix), URI: strings.TrimSpace(uri)}, nil
}

func isNCName(s string) bool {
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		default:
			return false
		}
	}
	return s != ""
}

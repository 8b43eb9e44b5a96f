package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestNamespacesCmd_Defaults(t *testing.T) {
	out, err := run(t, "namespaces")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 9 {
		t.Fatalf("expected 9 bindings, got:\n%s", out)
	}
	if lines[0] != " 1  xsi    http://www.w3.org/2001/XMLSchema-instance" {
		t.Fatalf("unexpected first line: %q", lines[0])
	}
	if !strings.HasSuffix(lines[8], "xlink  http://www.w3.org/1999/xlink") {
		t.Fatalf("unexpected last line: %q", lines[8])
	}
}

func TestNamespacesCmd_FlagOverride(t *testing.T) {
	out, err := run(t, "namespaces", "--ns", "md=http://www.isotc211.org/2005/gmd")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "1  md  http://www.isotc211.org/2005/gmd" {
		t.Fatalf("unexpected output: %q", out)
	}
	if _, err := run(t, "namespaces", "--ns", "broken"); err == nil {
		t.Fatalf("expected error for malformed binding")
	}
}

func TestNamespacesCmd_ConfigFile(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "isoxml.yaml")
	data := "namespaces:\n  - prefix: a\n    uri: urn:a\n  - prefix: b\n    uri: urn:b\n"
	if err := os.WriteFile(cfg, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "namespaces", "--config", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "1  a  urn:a") || !strings.Contains(out, "2  b  urn:b") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestNormalizeCmd_Stdout(t *testing.T) {
	src := filepath.Join(t.TempDir(), "in.xml")
	doc := `<m:MD_Metadata xmlns:m="http://www.isotc211.org/2005/gmd"><m:language/></m:MD_Metadata>`
	if err := os.WriteFile(src, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "normalize", "--ns", "gmd=http://www.isotc211.org/2005/gmd", src)
	if err != nil {
		t.Fatal(err)
	}
	want := `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
		`<gmd:MD_Metadata xmlns:gmd="http://www.isotc211.org/2005/gmd"><gmd:language></gmd:language></gmd:MD_Metadata>`
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestNormalizeCmd_OutDir(t *testing.T) {
	in := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	var names []string
	for _, name := range []string{"a.xml", "b.xml", "c.xml"} {
		p := filepath.Join(in, name)
		if err := os.WriteFile(p, []byte("<r><c/></r>"), 0o644); err != nil {
			t.Fatal(err)
		}
		names = append(names, p)
	}
	if _, err := run(t, append([]string{"normalize", "-o", outDir}, names...)...); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a.xml", "b.xml", "c.xml"} {
		b, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(b), `xmlns:gmd="http://www.isotc211.org/2005/gmd"`) {
			t.Fatalf("%s missing default declarations: %s", name, b)
		}
	}

	if _, err := run(t, append([]string{"normalize"}, names...)...); err == nil {
		t.Fatalf("expected error without --out for several files")
	}
}

func TestNormalizeCmd_BadInput(t *testing.T) {
	src := filepath.Join(t.TempDir(), "bad.xml")
	if err := os.WriteFile(src, []byte("<a><b></a>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "normalize", src); err == nil {
		t.Fatalf("expected error for malformed input")
	}
}

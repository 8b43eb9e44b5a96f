package isoxml

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestNewLogger_Defaults(t *testing.T) {
	l := NewLogger(nil)
	if l.Output() != os.Stderr {
		t.Fatalf("Output() should default to stderr")
	}
	if l.Level().Level() != slog.LevelError {
		t.Fatalf("Level() = %v, want ERROR", l.Level().Level())
	}
}

func TestLogger_SetLevel(t *testing.T) {
	var b bytes.Buffer
	l := NewLogger(&LoggerOptions{Output: &b})
	l.Debug("hidden")
	if b.Len() != 0 {
		t.Fatalf("debug record written at error level: %s", b.String())
	}
	if old := l.SetLevel(slog.LevelDebug); old != slog.LevelError {
		t.Fatalf("old level = %v", old)
	}
	l.With("k", "v").Debug("shown")
	if !strings.Contains(b.String(), "msg=shown") || !strings.Contains(b.String(), "k=v") {
		t.Fatalf("unexpected output: %s", b.String())
	}
}

func TestSetLogger_NilRestoresDefault(t *testing.T) {
	custom := NewLogger(&LoggerOptions{Output: &bytes.Buffer{}})
	SetLogger(custom)
	if DefaultLogger() != custom {
		t.Fatalf("SetLogger did not install the logger")
	}
	SetLogger(nil)
	if DefaultLogger() == custom || DefaultLogger() == nil {
		t.Fatalf("SetLogger(nil) should install a fresh default")
	}
}

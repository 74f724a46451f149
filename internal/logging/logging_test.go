package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Output: &buf})
	l.Debug("hidden")
	l.Info("shown", "input", "a.mkv")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line logged at info level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "input=a.mkv") || !strings.Contains(out, "vidbatch") {
		t.Errorf("unexpected output: %q", out)
	}

	buf.Reset()
	New(Options{Output: &buf, Verbose: true}).Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("verbose logger dropped debug line: %q", buf.String())
	}
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "vidbatch.log")
	l, closeFn, err := NewFile(path, Options{})
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	l.Info("batch started", "files", 2)
	if err := closeFn(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "batch started") {
		t.Errorf("log file content = %q", data)
	}
}

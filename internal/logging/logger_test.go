package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoggerPrefixesLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf)

	logger.Infof("sent %d emails", 3)
	logger.Warnf("invalid address %q", "nope")
	logger.Errorf("job failed: %v", "boom")

	out := buf.String()
	for _, want := range []string{"[INFO] sent 3 emails", `[WARN] invalid address "nope"`, "[ERROR] job failed: boom"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLoggerAppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.log")

	first, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	first.Infof("first")
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second, err := New(path)
	if err != nil {
		t.Fatalf("New (reopen) failed: %v", err)
	}
	second.Infof("second")
	_ = second.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "first") || !strings.Contains(string(data), "second") {
		t.Fatalf("expected both lines to be kept, got:\n%s", data)
	}
}

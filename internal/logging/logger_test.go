package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewRespectsDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{})
	logger.Debug("hidden line")
	logger.Info("visible line")
	_ = logger.Sync()
	out := buf.String()
	if strings.Contains(out, "hidden line") {
		t.Fatalf("debug line should be filtered at info level: %q", out)
	}
	if !strings.Contains(out, "visible line") {
		t.Fatalf("expected info line in output, got %q", out)
	}

	buf.Reset()
	logger = New(&buf, Options{Debug: true})
	logger.Debug("debug line")
	_ = logger.Sync()
	if !strings.Contains(buf.String(), "debug line") {
		t.Fatalf("expected debug line with Debug enabled, got %q", buf.String())
	}
}

func TestNewJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{JSON: true})
	logger.Info("hello")
	_ = logger.Sync()
	line := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(line, "{") || !strings.Contains(line, `"msg":"hello"`) {
		t.Fatalf("expected JSON line, got %q", line)
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatalf("OrNop(nil) must return a usable logger")
	}
}

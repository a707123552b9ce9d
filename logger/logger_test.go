package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "barstrat.log")
	l, err := New(Config{Level: "debug", File: path, MaxSize: 1})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	l.Debug("candle_processed", String("symbol", "EURUSD"), Float64("close", 1.1))
	if s, ok := l.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file missing: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"candle_processed"`) ||
		!strings.Contains(string(data), `"symbol":"EURUSD"`) {
		t.Fatalf("unexpected log contents: %s", data)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

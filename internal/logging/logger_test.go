package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLogger_Defaults(t *testing.T) {
	log, err := NewLogger(Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !log.Core().Enabled(0) { // info
		t.Error("info should be enabled by default")
	}
	if log.Core().Enabled(-1) { // debug
		t.Error("debug should be disabled by default")
	}
}

func TestNewLogger_Invalid(t *testing.T) {
	if _, err := NewLogger(Config{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := NewLogger(Config{Format: "xml"}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reasoner.log")
	log, err := NewLogger(Config{Level: "debug", Format: "console", File: path, MaxSizeMB: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	log.Info("chain finished")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"message":"chain finished"`) {
		t.Errorf("file output not JSON: %s", data)
	}
}

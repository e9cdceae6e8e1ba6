package logging

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xzhHas/contentflow/types"
)

func TestNewWritesToFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "listener.log")
	l, err := New(types.LogConfig{Level: "info", File: p, MaxSizeMB: 1})
	if err != nil {
		t.Fatal(err)
	}
	l.Info("queue bound")
	l.Debug("dropped")
	_ = l.Sync()

	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "queue bound") {
		t.Fatalf("log file missing entry: %s", b)
	}
	if strings.Contains(string(b), "dropped") {
		t.Fatal("debug entry written at info level")
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(types.LogConfig{Level: "loud"})
	if !errors.Is(err, types.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

package shared

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

func TestLogger(t *testing.T) {
	t.Run("NewLogger Writes To Writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		WithLogger(logger, "provider", "spotify").Info("fetched")

		out := buf.String()
		if !strings.Contains(out, "fetched") || !strings.Contains(out, "provider=spotify") {
			t.Errorf("expected message with provider key, got %q", out)
		}
	})

	t.Run("SetLogLevel", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		SetLogLevel(logger, log.ErrorLevel)
		logger.Warn("hidden")

		if buf.Len() != 0 {
			t.Errorf("expected warn to be filtered, got %q", buf.String())
		}
	})

	t.Run("NewFileLogger", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "lineup.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		logger.Info("to file")
	})
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Error("expected unique ids")
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("expected valid uuid, got %v", err)
	}
}

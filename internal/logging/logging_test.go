package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "debug", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logger.Debug("rendered form", "formId", "42")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected a json line, got %q", buf.String())
	}
	if entry["msg"] != "rendered form" || entry["formId"] != "42" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestNewLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "WARN", "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestNewFallbacks(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "loud", "xml")
	if err == nil {
		t.Fatalf("expected an error for an unknown level")
	}
	if !logger.Enabled(context.Background(), slog.LevelInfo) || logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatalf("expected the info level fallback")
	}

	if _, err := New(&buf, "info", "xml"); err == nil {
		t.Fatalf("expected an error for an unknown format")
	}
}

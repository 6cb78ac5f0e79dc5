package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/medsentinel/encounter-log/internal/model"
)

func TestLoggerRedactsContent(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "debug")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	logger.Debug("stored", "encounter", model.Encounter{ID: "r1", Content: "HIV positive, disclosed today"})

	out := buf.String()
	if strings.Contains(out, "HIV positive") {
		t.Errorf("note content leaked into log: %s", out)
	}
	if !strings.Contains(out, "r1") {
		t.Errorf("expected id in log output: %s", out)
	}
}

func TestLoggerLevels(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "warning", "ERROR"} {
		if _, err := newLogger(&bytes.Buffer{}, lvl); err != nil {
			t.Errorf("level %q: %v", lvl, err)
		}
	}
	if _, err := newLogger(&bytes.Buffer{}, "verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}

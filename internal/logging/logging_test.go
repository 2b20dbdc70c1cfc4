package logging

import (
	"bytes"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
)

func TestInitToLevels(t *testing.T) {
	var buf bytes.Buffer
	if err := InitTo(&buf, "warn"); err != nil {
		t.Fatalf("InitTo: %v", err)
	}
	t.Cleanup(func() { _ = Init("info") })

	log.Info("hidden")
	log.WithField("table", "trips").Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered: %s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "table=trips") {
		t.Fatalf("warn line missing fields: %s", out)
	}
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	if err := Init("chatty"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if err := Init(""); err != nil {
		t.Fatalf("empty level should default to info: %v", err)
	}
	if log.GetLevel() != log.InfoLevel {
		t.Fatalf("level = %v", log.GetLevel())
	}
}

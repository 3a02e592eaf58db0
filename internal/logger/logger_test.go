package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestProductionUsesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&buf, "info", "production")
	log.Info("Сервер запущен", "port", "8080")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("ожидали JSON, получили %q: %v", buf.String(), err)
	}
	if entry["port"] != "8080" {
		t.Fatalf("port = %v", entry["port"])
	}
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&buf, "warn", "development")
	log.Info("не должно попасть")
	log.Warn("должно попасть")

	out := buf.String()
	if strings.Contains(out, "не должно попасть") {
		t.Fatalf("info-сообщение прошло фильтр: %q", out)
	}
	if !strings.Contains(out, "должно попасть") {
		t.Fatalf("warn-сообщение потеряно: %q", out)
	}
}

package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return FromZap(zap.New(core)), logs
}

func TestLogger_RedactsSecrets(t *testing.T) {
	log, logs := observed()

	log.Info("calling provider",
		"provider", "openai",
		"api_key", "sk-secret",
		"Access_Token", "abc",
		"max_tokens", 300,
		"headers", map[string]interface{}{"Authorization": "Bearer x", "accept": "json"},
	)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()

	if fields["provider"] != "openai" {
		t.Errorf("Expected provider to be kept, got %v", fields["provider"])
	}
	if fields["api_key"] != "[REDACTED]" {
		t.Errorf("Expected api_key to be redacted, got %v", fields["api_key"])
	}
	if fields["Access_Token"] != "[REDACTED]" {
		t.Errorf("Expected token to be redacted, got %v", fields["Access_Token"])
	}
	if fields["max_tokens"] != int64(300) {
		t.Errorf("Expected max_tokens to be kept, got %v (%T)", fields["max_tokens"], fields["max_tokens"])
	}
	headers, ok := fields["headers"].(map[string]interface{})
	if !ok || headers["Authorization"] != "[REDACTED]" || headers["accept"] != "json" {
		t.Errorf("Expected nested authorization to be redacted, got %v", fields["headers"])
	}
}

func TestLogger_With(t *testing.T) {
	log, logs := observed()

	log.With("note", "gaia1.txt", "token", "t").Warn("abstained")

	fields := logs.All()[0].ContextMap()
	if fields["note"] != "gaia1.txt" || fields["token"] != "[REDACTED]" {
		t.Errorf("Unexpected fields %v", fields)
	}
}

func TestLogger_OddKeyValues(t *testing.T) {
	log, logs := observed()

	log.Warn("note rejected", "note", "a.txt", "error")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Errorf("Expected the warning itself, got %s %q", entries[0].Level, entries[0].Message)
	}
	fields := entries[0].ContextMap()
	if fields["note"] != "a.txt" || fields["error"] != "(MISSING)" {
		t.Errorf("Unexpected fields %v", fields)
	}
}

func TestLogger_StronglyTypedFields(t *testing.T) {
	log, logs := observed()

	log.Info("reviewed", zap.Int("questions", 4), "provider", "ollama")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["questions"] != int64(4) || fields["provider"] != "ollama" {
		t.Errorf("Unexpected fields %v", fields)
	}
}

func TestNew(t *testing.T) {
	for _, mode := range []string{"dev", "prod"} {
		for _, level := range []string{"", "debug", "info", "warn", "error"} {
			if _, err := New(mode, level); err != nil {
				t.Errorf("New(%q, %q) failed: %v", mode, level, err)
			}
		}
	}

	if _, err := New("dev", "loud"); err == nil {
		t.Error("Expected error for unknown level")
	}
}

func TestNop(t *testing.T) {
	log := Nop()
	log.Error("discarded", "api_key", "x")
	log.Sync()
}

package logging

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_WritesKeyValueFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	logger := FromZap(zap.New(core))

	logger.Warn("record skipped", "page", 2, "index", 7, "error", errors.New("no team name"))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry, got=%d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["page"] != int64(2) {
		t.Fatalf("unexpected page field: %#v", fields["page"])
	}
	if fields["error"] != "no team name" {
		t.Fatalf("unexpected error field: %#v", fields["error"])
	}
}

func TestLogger_OddArgsAndNonStringKeys(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	logger := FromZap(zap.New(core)).With("season_id", "10776")

	logger.Info("odd", 42, "value", "dangling")

	fields := logs.All()[0].ContextMap()
	if fields["season_id"] != "10776" {
		t.Fatalf("expected inherited season_id field, got=%#v", fields["season_id"])
	}
	if fields["arg"] != "value" {
		t.Fatalf("expected non-string key to become arg, got=%#v", fields["arg"])
	}
	if _, ok := fields["dangling"]; !ok {
		t.Fatalf("expected dangling key to be kept with nil value")
	}
}

func TestLogger_NilReceiverFallsBackToDefault(t *testing.T) {
	var logger *Logger
	logger.Info("should not panic")
	if logger.Zap() == nil {
		t.Fatalf("expected nop zap logger for nil receiver")
	}
}

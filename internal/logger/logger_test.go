package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestBuildFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := Config{Format: "json", Level: "info"}.Build(&buf)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	log.Debug("hidden")
	log.Info("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"msg":"shown"`) {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	if l, err := (Config{}).ParseLevel(); err != nil || l != zapcore.WarnLevel {
		t.Fatalf("default level = %v, %v", l, err)
	}
	if _, err := (Config{Level: "loud"}).ParseLevel(); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if _, err := (Config{Format: "xml"}).Build(&bytes.Buffer{}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf)
	ctx := NewContextWithLogger(context.Background(), log)
	if FromContext(ctx) != log {
		t.Fatalf("logger not carried by context")
	}
	FromContext(context.Background()).Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("nop logger wrote %q", buf.String())
	}
}

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_LevelsReachHandler(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "probe", "scope", "conversations:u1")
	log.Info(ctx, "reconciled", "count", 3)
	log.Warn(ctx, "stale token", "scope", "messages:c1")
	log.Error(ctx, "store failure", "op", "upsert")

	out := buf.String()

	for _, want := range []string{
		"level=DEBUG", "msg=probe",
		"level=INFO", "msg=reconciled", "count=3",
		"level=WARN", `msg="stale token"`,
		"level=ERROR", `msg="store failure"`, "op=upsert",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	log, buf := newTestLogger(t)

	child := log.With("conversation_id", "c42")
	child.Info(context.Background(), "send confirmed", "correlation_id", "abc")

	out := buf.String()
	for _, want := range []string{"conversation_id=c42", "correlation_id=abc", `msg="send confirmed"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestNopLogger_DiscardsEverything(t *testing.T) {
	log := NewNopLogger()
	ctx := context.TODO()

	log.Info(ctx, "ignored")
	log.Warn(ctx, "ignored")
	log.Error(ctx, "ignored")
	log.With("k", "v").Info(ctx, "still ignored")
}

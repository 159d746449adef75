package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "enqueueing", "op", "create")
	log.Info(ctx, "sync complete", "synced", 3)
	log.Warn(ctx, "row dropped", "row", 2)
	log.Error(ctx, "upload failed", "key", "KHS-graveyard/a.jpg")

	out := buf.String()
	for _, want := range []string{
		"level=DEBUG", "msg=enqueueing", "op=create",
		"level=INFO", `msg="sync complete"`, "synced=3",
		"level=WARN", `msg="row dropped"`, "row=2",
		"level=ERROR", `msg="upload failed"`, "key=KHS-graveyard/a.jpg",
	} {
		assert.Contains(t, out, want)
	}
}

func TestSlogLogger_With(t *testing.T) {
	log, buf := newTestLogger(t)

	child := log.With("trail", "KHS-graveyard")
	child.Info(context.Background(), "renumbered", "pois", 4)

	out := buf.String()
	assert.Contains(t, out, "trail=KHS-graveyard")
	assert.Contains(t, out, "pois=4")
}

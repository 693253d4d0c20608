package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlogLogger_WritesLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewDefault(&buf, slog.LevelDebug)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "k", "v")
	log.Info(ctx, "inf")
	log.Warn(ctx, "wrn")
	log.Error(ctx, "err")

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "msg=inf")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "k=v")
}

func TestSlogLogger_WithAddsFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewDefault(&buf, slog.LevelInfo)

	child := log.With("share_id", "abc123")
	child.Info(context.Background(), "created")

	lines := strings.TrimSpace(buf.String())
	assert.Contains(t, lines, "share_id=abc123")
	assert.Contains(t, lines, "msg=created")
}

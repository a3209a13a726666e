package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.wantErr, err != nil, tt.in)
	}
}

func TestNewFormats(t *testing.T) {
	var buf bytes.Buffer
	New("info", FormatJSON, &buf).Info("hello", "k", 1)
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	New("info", FormatText, &buf).Info("hello", "k", 1)
	assert.Contains(t, buf.String(), "msg=hello k=1")

	// A buffer is not a terminal.
	buf.Reset()
	New("info", FormatAuto, &buf).Info("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}

func TestNewLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New("warn", FormatText, &buf)
	l.Info("quiet")
	l.Warn("loud")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestContext(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))

	l := New("debug", FormatText, &bytes.Buffer{})
	ctx := WithLogger(context.Background(), l)
	require.Same(t, l, FromContext(ctx))
}

func TestValidFormat(t *testing.T) {
	for _, f := range []string{"text", "json", "auto", ""} {
		assert.True(t, ValidFormat(f), f)
	}
	assert.False(t, ValidFormat("xml"))
}

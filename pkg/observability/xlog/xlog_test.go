package xlog

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestLogger(t *testing.T, format string) (LoggerWithLevel, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	logger, cleanup, err := New().SetOutput(&buf).SetFormat(format).Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })

	return logger, &buf
}

func TestBuild_TextFormat(t *testing.T) {
	logger, buf := buildTestLogger(t, "text")

	logger.Info(context.Background(), "hello", slog.String("k", "v"))

	out := buf.String()
	assert.Contains(t, out, "msg=hello")
	assert.Contains(t, out, "k=v")
}

func TestBuild_JSONFormat(t *testing.T) {
	logger, buf := buildTestLogger(t, "json")

	logger.Info(context.Background(), "hello", slog.Int("n", 42))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, float64(42), record["n"])
}

func TestBuild_UnknownFormat(t *testing.T) {
	_, _, err := New().SetFormat("xml").Build()
	assert.Error(t, err)
}

func TestBuild_EmptyFormatDefaultsToText(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := New().SetOutput(&buf).SetFormat("").Build()
	require.NoError(t, err)
	defer func() { _ = cleanup() }()

	logger.Info(context.Background(), "plain")
	assert.Contains(t, buf.String(), "msg=plain")
}

func TestLogger_LevelFiltering(t *testing.T) {
	logger, buf := buildTestLogger(t, "text")

	logger.Debug(context.Background(), "invisible")
	assert.Empty(t, buf.String())

	logger.SetLevel(LevelDebug)
	logger.Debug(context.Background(), "visible")
	assert.Contains(t, buf.String(), "visible")
	assert.Equal(t, LevelDebug, logger.GetLevel())
}

func TestLogger_DerivedSharesLevel(t *testing.T) {
	logger, buf := buildTestLogger(t, "text")

	derived := logger.With(slog.String("component", "pool"))

	// 派生 logger 共享父级的 LevelVar
	logger.SetLevel(LevelError)
	derived.Info(context.Background(), "filtered")
	assert.Empty(t, buf.String())

	logger.SetLevel(LevelInfo)
	derived.Info(context.Background(), "kept")
	out := buf.String()
	assert.Contains(t, out, "kept")
	assert.Contains(t, out, "component=pool")
}

func TestLogger_WithGroup(t *testing.T) {
	logger, buf := buildTestLogger(t, "text")

	grouped := logger.WithGroup("task").With(slog.String("id", "t1"))
	grouped.Info(context.Background(), "grouped")
	assert.Contains(t, buf.String(), "task.id=t1")
}

func TestLogger_NilContext(t *testing.T) {
	logger, buf := buildTestLogger(t, "text")

	// nil context 不应 panic
	logger.Info(nil, "survives") //nolint:staticcheck
	assert.Contains(t, buf.String(), "survives")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{" warn ", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"Error", LevelError, false},
		{"fatal", LevelInfo, true},
		{"", LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "DEBUG", LevelDebug.String())
}

func TestErr(t *testing.T) {
	assert.Equal(t, slog.Attr{}, Err(nil))

	attr := Err(assert.AnError)
	assert.Equal(t, KeyError, attr.Key)
	assert.Equal(t, assert.AnError.Error(), attr.Value.String())
}

func TestCorrelationID(t *testing.T) {
	a := CorrelationID()
	b := CorrelationID()

	assert.Len(t, a, 8)
	assert.NotEqual(t, a, b)
	assert.False(t, strings.Contains(a, "-"))
}

func TestDiscard(t *testing.T) {
	log := Discard()

	// 不应 panic，也不应产生任何输出渠道
	log.Info(context.Background(), "nowhere")
	assert.Equal(t, log, log.With(slog.String("k", "v")).WithGroup("g"))
}

func TestSetRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worker.log")

	logger, cleanup, err := New().
		SetRotation(path, WithMaxSize(1), WithMaxBackups(2), WithMaxAge(1)).
		Build()
	require.NoError(t, err)

	logger.Info(context.Background(), "rotated output")
	require.NoError(t, cleanup())

	assert.FileExists(t, path)
}

func TestSetRotation_EmptyFilename(t *testing.T) {
	_, _, err := New().SetRotation("").Build()
	assert.Error(t, err)
}

package logging

import (
	"bytes"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/imaitland/llrt/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "verbose"})
	assert.ErrorContains(t, err, `invalid log level "verbose"`)
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithSink(config.LogConfig{Level: "info"}, zapcore.AddSync(&buf))
	require.NoError(t, err)

	log.Named("fs").Info("op done", zap.String("op", "readFile"), zap.Duration("took", 1500*time.Microsecond))
	log.Debug("filtered")
	require.NoError(t, log.Sync())

	var line map[string]interface{}
	require.NoError(t, sonic.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "op done", line["message"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "fs", line["logger"])
	assert.Equal(t, "readFile", line["op"])
	assert.Equal(t, 1.5, line["took"])
	assert.Contains(t, line, "timestamp")
	assert.NotContains(t, buf.String(), "filtered")
}

func TestDevelopmentOutput(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithSink(config.LogConfig{Level: "debug", Development: true}, zapcore.AddSync(&buf))
	require.NoError(t, err)

	log.Debug("visible", zap.String("path", "a.txt"))
	require.NoError(t, log.Sync())

	out := buf.String()
	assert.Contains(t, out, "visible")
	assert.Contains(t, out, `{"path": "a.txt"}`)
	assert.NotContains(t, out, `"message"`)
}

func TestNopAndNamed(t *testing.T) {
	named := NewNop().Named("runtime")
	require.NotNil(t, named.Logger)
	named.Info("discarded")
}

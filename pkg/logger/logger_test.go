package logger

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knewkarma/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{"info level", &config.LoggingConfig{Level: "info"}, false},
		{"debug level without color", &config.LoggingConfig{Level: "debug", NoColor: true}, false},
		{"invalid level", &config.LoggingConfig{Level: "loud"}, true},
		{"file output", &config.LoggingConfig{Level: "info", File: filepath.Join(t.TempDir(), "logs", "knewkarma.log")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"DEBUG", zerolog.DebugLevel, false},
		{"info", zerolog.InfoLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"off", zerolog.Disabled, false},
		{"", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, err := parseLogLevel(tt.level)
			assert.Equal(t, tt.wantErr, err != nil)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestStructuredOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.DebugLevel)

	l.WithField("community", "golang").
		WithFields(map[string]interface{}{"page": 2}).
		InfoWithFields("page fetched", map[string]interface{}{
			"items":   100,
			"elapsed": 1500 * time.Millisecond,
			"after":   "t3_abc",
		})

	out := buf.String()
	assert.Contains(t, out, `"message":"page fetched"`)
	assert.Contains(t, out, `"community":"golang"`)
	assert.Contains(t, out, `"page":2`)
	assert.Contains(t, out, `"items":100`)
	assert.Contains(t, out, `"after":"t3_abc"`)
	assert.Contains(t, out, `"app":"knewkarma"`)
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.WarnLevel)

	l.Debug("hidden debug")
	l.Info("hidden info")
	l.Warn("shown warn")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown warn")
}

func TestWithErrorNil(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.InfoLevel)

	assert.Same(t, l, l.WithError(nil))

	l.WithError(errors.New("connection reset")).Error("request failed")
	assert.Contains(t, buf.String(), "connection reset")
}

func TestChildLoggerDoesNotLeakFields(t *testing.T) {
	var buf bytes.Buffer
	parent := NewWithWriter(&buf, zerolog.InfoLevel)

	parent.WithField("user", "spez").Info("child")
	buf.Reset()
	parent.Info("parent")

	assert.False(t, strings.Contains(buf.String(), "spez"))
}

func TestTestLoggerCaptures(t *testing.T) {
	l := NewTestLogger()

	l.WithField("op", "user.posts").WithError(errors.New("boom")).Warn("retrying")
	l.DebugWithFields("page", map[string]interface{}{"n": 1})

	msgs := l.GetMessages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "WARN", msgs[0].Level)
	assert.Equal(t, "user.posts", msgs[0].Fields["op"])
	assert.Equal(t, "boom", msgs[0].Error)
	assert.True(t, l.HasMessage("page"))
	assert.Len(t, l.GetMessagesByLevel("DEBUG"), 1)

	l.Clear()
	assert.Empty(t, l.GetMessages())
}

func TestNopLogger(t *testing.T) {
	l := OrNop(nil)
	l.WithField("a", 1).InfoWithFields("nothing", nil)
	assert.NotNil(t, l.GetZerolog())
}

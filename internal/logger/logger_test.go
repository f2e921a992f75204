package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		return nil
	}
	return logEntry
}

func TestNewLogger(t *testing.T) {
	log := NewLogger("debug", "production")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	log = NewLogger("nonsense", "development")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
}

func TestSelectionLoggerSelection(t *testing.T) {
	log, buf := setupTestLogger()
	sl := NewSelectionLogger(log)

	sl.LogSelection(40, 6, 3, 1, map[string]int{"below_min_odds": 20}, 1.5)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "value_bets", logEntry["component"])
	assert.Equal(t, float64(40), logEntry["matches_evaluated"])
	assert.Equal(t, float64(6), logEntry["candidates"])
}

func TestSelectionLoggerCacheHit(t *testing.T) {
	log, buf := setupTestLogger()
	NewSelectionLogger(log).LogCacheHit(4)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, true, logEntry["cached"])
	assert.Equal(t, "debug", logEntry["level"])
}

func TestSelectionLoggerRefresh(t *testing.T) {
	log, buf := setupTestLogger()
	sl := NewSelectionLogger(log)

	sl.LogRefresh("cron", 3, nil)
	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "refresh", logEntry["event_type"])
	assert.Equal(t, "info", logEntry["level"])

	buf.Reset()
	sl.LogRefresh("cron", 0, errors.New("database down"))
	logEntry = parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "error", logEntry["level"])
	assert.Equal(t, "database down", logEntry["error"])
}

func TestAccessLoggerLevels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{status: 200, level: "info"},
		{status: 404, level: "warning"},
		{status: 503, level: "error"},
	}

	for _, tt := range tests {
		log, buf := setupTestLogger()
		NewAccessLogger(log).LogRequest("req-1", "GET", "/value-bets", tt.status, 2.5, "127.0.0.1")

		logEntry := parseLogOutput(buf)
		require.NotNil(t, logEntry)
		assert.Equal(t, tt.level, logEntry["level"])
		assert.Equal(t, "req-1", logEntry["request_id"])
		assert.Equal(t, "http", logEntry["component"])
	}
}

func BenchmarkSelectionLogger(b *testing.B) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	sl := NewSelectionLogger(log)

	for i := 0; i < b.N; i++ {
		sl.LogSelection(40, 6, 3, 1, nil, 1.5)
	}
}

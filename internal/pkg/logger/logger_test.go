package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_WritesJSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	log.WithFields(map[string]interface{}{"session_id": "abc"}).Error("Swap failed", errors.New("boom"))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "Swap failed", line["message"])
	assert.Equal(t, "abc", line["session_id"])
	assert.Equal(t, "boom", line["error"])
}

func TestNewWithWriter_TestEnvSuppressesInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("test", &buf)

	log.Info("hidden")
	assert.Zero(t, buf.Len())

	log.Warnf("slot %s unreadable", "cart")
	assert.Contains(t, buf.String(), "slot cart unreadable")
}

func TestCallerPointsAtCallSite(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter("production", &buf).Info("hello")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Contains(t, line["caller"], "logger_test.go")
}

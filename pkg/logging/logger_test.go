package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriterLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger("server", &buf)

	SetDebug(false)
	logger.Debugf("hidden %d", 1)
	logger.Infof("GET/%s", "board")
	logger.Warnf("careful")
	logger.Errorf("broken: %v", "page")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[server] [INFO] GET/board")
	assert.Contains(t, out, "[server] [WARN] careful")
	assert.Contains(t, out, "[server] [ERROR] broken: page")
	assert.Equal(t, 3, strings.Count(out, "\n"))
}

func TestWriterLogger_DebugEnabled(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger("session", &buf)

	SetDebug(true)
	defer SetDebug(false)

	logger.Debugf("Failed to reconnect, launching new browser instance...")
	assert.Contains(t, buf.String(), "[session] [DEBUG] Failed to reconnect")
}

func TestRunIDIsShared(t *testing.T) {
	a := NewWriterLogger("a", &bytes.Buffer{})
	b := NewWriterLogger("b", &bytes.Buffer{})
	assert.NotEmpty(t, a.RunID())
	assert.Equal(t, a.RunID(), b.RunID())
	assert.NoError(t, a.Close())
	assert.NoError(t, a.Close())
}

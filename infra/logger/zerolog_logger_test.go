package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologLogger("planner", &buf, false)
	l.Infow("schedule computed", map[string]any{"month": 3, "cost": 12.5})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "planner", line["component"])
	assert.Equal(t, "schedule computed", line["message"])
	assert.Equal(t, float64(3), line["month"])
	assert.Equal(t, 12.5, line["cost"])
}

func TestZerologLoggerMethods(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologLogger("test", &buf, true)
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
	assert.Contains(t, buf.String(), "info test")
}

func TestConfigureFile(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)
	path := filepath.Join(t.TempDir(), "app.log")
	closer, err := Configure(Config{Level: "debug", Format: "json", File: path})
	require.NoError(t, err)
	New("file").Infof("hello")
	require.NoError(t, closer.Close())
	_, err = Configure(Config{Format: "json"})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestConfigValidate(t *testing.T) {
	c := Config{Level: "loud", Format: "json"}
	assert.Error(t, c.Validate())
	c = Config{Level: "info", Format: "xml"}
	assert.Error(t, c.Validate())
	c = Config{}
	c.SetDefaults()
	assert.NoError(t, c.Validate())
}

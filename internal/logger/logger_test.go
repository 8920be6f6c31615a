package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Level(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, New(Config{Level: "debug"}).GetLevel())
	assert.Equal(t, logrus.InfoLevel, New(Config{Level: "loud"}).GetLevel())
	assert.Equal(t, logrus.InfoLevel, New(Config{}).GetLevel())
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := newWithStdout(Config{Level: "info", Format: "json"}, &buf)
	log.WithField("z_score", 2.0).Info("analysis complete")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "analysis complete", entry["msg"])
	assert.Equal(t, 2.0, entry["z_score"])
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")
	var buf bytes.Buffer
	log := newWithStdout(Config{Format: "text", File: path, MaxSizeMB: 1}, &buf)
	log.Info("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
	assert.Contains(t, buf.String(), "hello")
}

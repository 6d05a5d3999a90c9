package util

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoggerModes(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		mode     uint8
		expected []string
		missing  []string
	}{
		{AllLevels, []string{"ERROR", "WARN", "INFO"}, nil},
		{Error, []string{"ERROR"}, []string{"WARN", "INFO"}},
		{Warning | Info, []string{"WARN", "INFO"}, []string{"ERROR"}},
		{0, nil, []string{"ERROR", "WARN", "INFO"}},
	}
	for i, tt := range tests {
		filename := filepath.Join(dir, strings.Repeat("l", i+1)+".log")
		logger, err := NewLogger(&LoggerInfo{Filename: filename, Mode: tt.mode})
		require.NoError(t, err)

		logger.LogError(errors.New("broken"))
		logger.LogWarning("careful")
		logger.LogInfo("hidden", zap.Int("bytes", 42))
		require.NoError(t, logger.Close())

		data, err := os.ReadFile(filename)
		if len(tt.expected) == 0 {
			// zap creates the file on open even if nothing gets written
			assert.Empty(t, string(data))
			continue
		}
		require.NoError(t, err)
		for _, lvl := range tt.expected {
			assert.Contains(t, string(data), lvl, "mode %d", tt.mode)
		}
		for _, lvl := range tt.missing {
			assert.NotContains(t, string(data), lvl, "mode %d", tt.mode)
		}
	}
}

func TestLoggerFields(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "fields.log")
	logger, err := NewLogger(&LoggerInfo{Filename: filename, Mode: Info})
	require.NoError(t, err)
	logger.LogInfo("embedded", zap.String("file", "cover.png"), zap.Int("bytes", 42))
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	line := string(data)
	assert.Contains(t, line, "embedded")
	assert.Contains(t, line, `"file": "cover.png"`)
	assert.Contains(t, line, `"bytes": 42`)
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.LogError(errors.New("nobody listens"))
	logger.LogInfo("nothing")
	assert.NoError(t, logger.Close())
}

func TestOutputFilename(t *testing.T) {
	tests := map[string]string{
		"photo.jpg":                      "photo_hidden.png",
		filepath.Join("a", "b", "x.png"): filepath.Join("a", "b", "x_hidden.png"),
		"archive.tar.bmp":                "archive.tar_hidden.png",
		"noext":                          "noext_hidden.png",
		".png":                           "image_hidden.png",
	}
	for in, expected := range tests {
		assert.Equal(t, expected, OutputFilename(in), in)
	}
}

func TestRandSeed(t *testing.T) {
	seen := map[int64]bool{}
	for i := 0; i < 16; i++ {
		seed := RandSeed()
		assert.Positive(t, seed)
		seen[seed] = true
	}
	assert.Greater(t, len(seen), 1)
}

// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package corelog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, DefaultLevel, level)

	level, err = ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewFileLogger(t *testing.T) {
	cfg := Config{}.Default()
	cfg.DisableConsoleLog = true
	cfg.FileLoggingEnabled = true
	cfg.Directory = t.TempDir()

	logger := New("TEST", zerolog.InfoLevel, cfg)
	logger.Info().Msg("hello")

	data, err := os.ReadFile(filepath.Join(cfg.Directory, cfg.Filename))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"app":"auxpowd"`)
	assert.Contains(t, string(data), `"message":"hello"`)
}

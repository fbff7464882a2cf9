// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContextFollowsInit(t *testing.T) {
	logger := WithContext("pkg", "test")

	var buf bytes.Buffer
	Init(&buf, 3, true, false)
	defer Discard()

	logger.Info("hello", "k", 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "test", record["pkg"])
	assert.Equal(t, float64(1), record["k"])
}

func TestVerbosity(t *testing.T) {
	var buf bytes.Buffer
	Init(&buf, 3, false, false)
	defer Discard()

	logger := WithContext("pkg", "test").With("sub", "x")
	logger.Debug("hidden")
	logger.Warn("shown")

	out := buf.String()
	assert.False(t, strings.Contains(out, "hidden"))
	assert.True(t, strings.Contains(out, "shown"))
	assert.True(t, strings.Contains(out, "sub=x"))
}

func TestLevelChange(t *testing.T) {
	var buf bytes.Buffer
	level := Init(&buf, 3, false, false)
	defer Discard()

	logger := WithContext("pkg", "test")
	logger.Debug("before")
	level.Set(LevelDebug)
	logger.Debug("after")

	out := buf.String()
	assert.False(t, strings.Contains(out, "before"))
	assert.True(t, strings.Contains(out, "after"))
}

func TestJSONLevelChange(t *testing.T) {
	var buf bytes.Buffer
	level := Init(&buf, 3, true, false)
	defer Discard()

	logger := WithContext("pkg", "test")
	logger.Debug("before")
	assert.Zero(t, buf.Len())

	level.Set(LevelDebug)
	logger.Debug("after")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "after", record["msg"])
	assert.Equal(t, "debug", record["lvl"])

	buf.Reset()
	level.Set(LevelError)
	logger.Warn("dropped")
	assert.Zero(t, buf.Len())
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  string
	}{
		{LevelTrace, "trace"},
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{LevelCrit, "crit"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelString(tt.level))
	}
}

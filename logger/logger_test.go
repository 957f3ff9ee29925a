/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package logger

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", DEBUG.String())
	assert.Equal(t, "OFF", OFF.String())
	assert.Equal(t, "UNKNOWN", Level(42).String())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in     string
		expect Level
		hasErr bool
	}{
		{"debug", DEBUG, false},
		{"", INFO, false},
		{" Warn ", WARN, false},
		{"warning", WARN, false},
		{"ERROR", ERROR, false},
		{"off", OFF, false},
		{"trace", INFO, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.hasErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expect, got)
		})
	}
}

// TestLoggerFormat 测试日志格式
func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(DEBUG, &buf)

	l.Info("resolved %d accumulators for %s", 3, "group set 0")
	out := buf.String()
	assert.Contains(t, out, "[INFO]")
	assert.Contains(t, out, "resolved 3 accumulators for group set 0")
	assert.True(t, strings.HasPrefix(out, "["), "line should start with a bracketed timestamp: %s", out)

	buf.Reset()
	l.Debug("debug %s", "detail")
	assert.Contains(t, buf.String(), "[DEBUG]")
}

// TestLoggerLevelFiltering 测试日志级别过滤
func TestLoggerLevelFiltering(t *testing.T) {
	emit := map[Level]func(Logger){
		DEBUG: func(l Logger) { l.Debug("msg") },
		INFO:  func(l Logger) { l.Info("msg") },
		WARN:  func(l Logger) { l.Warn("msg") },
		ERROR: func(l Logger) { l.Error("msg") },
	}
	for _, loggerLevel := range []Level{DEBUG, INFO, WARN, ERROR, OFF} {
		for msgLevel, fn := range emit {
			var buf bytes.Buffer
			fn(NewLogger(loggerLevel, &buf))
			shouldLog := loggerLevel != OFF && msgLevel >= loggerLevel
			assert.Equal(t, shouldLog, buf.Len() > 0, "logger %s, message %s", loggerLevel, msgLevel)
		}
	}
}

func TestLoggerSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(ERROR, &buf)
	l.Debug("hidden")
	assert.Zero(t, buf.Len())

	l.SetLevel(DEBUG)
	l.Debug("visible")
	assert.Contains(t, buf.String(), "visible")

	buf.Reset()
	l.SetLevel(OFF)
	l.Error("hidden")
	assert.Zero(t, buf.Len())
}

func TestFromZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core), WARN)

	l.Info("dropped")
	l.Warn("kept %d", 1)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "kept 1", logs.All()[0].Message)

	l.SetLevel(DEBUG)
	l.Debug("now kept")
	assert.Equal(t, 2, logs.Len())
}

func TestDiscardLogger(t *testing.T) {
	l := NewDiscardLogger()
	l.Debug("x")
	l.Info("x %d", 1)
	l.Warn("x")
	l.Error("x")
	l.SetLevel(DEBUG)
}

// TestGlobalLogger 测试全局日志器
func TestGlobalLogger(t *testing.T) {
	original := GetDefault()
	defer SetDefault(original)

	var buf bytes.Buffer
	SetDefault(NewLogger(DEBUG, &buf))

	Debug("global debug")
	Info("global info")
	Warn("global warn")
	Error("global error")

	for _, msg := range []string{"global debug", "global info", "global warn", "global error"} {
		assert.Contains(t, buf.String(), msg)
	}
}

func TestConcurrentLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(INFO, &buf)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			l.Info("concurrent message from goroutine %d", id)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 10, strings.Count(buf.String(), "concurrent message"))
}

// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package log

import (
	"bytes"
	"errors"
	"testing"

	"github.com/apex/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in        string
		wantLevel log.Level
		wantTrace bool
	}{
		{"", log.InfoLevel, false},
		{"bogus", log.InfoLevel, false},
		{"info", log.InfoLevel, false},
		{"TRACE", log.DebugLevel, true},
		{"debug", log.DebugLevel, false},
		{"warn", log.WarnLevel, false},
		{"warning", log.WarnLevel, false},
		{"error", log.ErrorLevel, false},
		{"fatal", log.FatalLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			level, trace := ParseLevel(tt.in)
			assert.Equal(t, tt.wantLevel, level)
			assert.Equal(t, tt.wantTrace, trace)
		})
	}
}

func TestHandler_HandleLog(t *testing.T) {
	var buf bytes.Buffer
	logger := &log.Logger{Handler: NewHandler(&buf), Level: log.DebugLevel}

	logger.Info("stack created")
	logger.WithField("table", "samples-development").Warn("skipped")
	logger.WithError(errors.New("boom")).Error("failed")
	logger.Debug("TRACE: deep")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 4)
	assert.Contains(t, string(lines[0]), " I stack created")
	assert.Contains(t, string(lines[1]), " W skipped table=samples-development")
	assert.Contains(t, string(lines[2]), " E failed error=boom")
	assert.Contains(t, string(lines[3]), " T deep")
}

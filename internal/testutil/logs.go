// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"testing"

	"github.com/apex/log"
	"github.com/apex/log/handlers/memory"
)

// CaptureLog routes the global logger into memory at debug level until the
// test ends.
func CaptureLog(t *testing.T) *memory.Handler {
	t.Helper()
	l, ok := log.Log.(*log.Logger)
	if !ok {
		t.Fatalf("unexpected logger %T", log.Log)
	}
	handler, level := l.Handler, l.Level
	t.Cleanup(func() { l.Handler, l.Level = handler, level })

	h := memory.New()
	l.Handler, l.Level = h, log.DebugLevel
	return h
}

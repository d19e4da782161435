// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output renders the end-of-run banner and result tables, styled when
// stdout is a terminal and plain otherwise.
package output

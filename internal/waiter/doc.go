// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package waiter blocks until the mock backend answers HTTP requests, backing
// off exponentially between attempts.
package waiter

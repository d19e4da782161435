// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package testutil holds in-memory stand-ins for the mock backend services,
// shared by package tests.
package testutil

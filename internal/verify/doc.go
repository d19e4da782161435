// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package verify reads seeded fixtures back from the backend and reports
// items or objects that are missing or differ.
package verify

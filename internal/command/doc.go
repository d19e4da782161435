// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package command defines the inframock CLI. It wires flags, validators and
// actions for the run, wait, provision, seed and verify commands.
package command

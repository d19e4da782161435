// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package tablestore turns JSON fixtures into DynamoDB items. Numbers keep
// their literal text so 0.1000 is stored as 0.1000, not as a float.
package tablestore

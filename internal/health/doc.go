// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package health guards seeding against an API that is serving a different
// cluster environment than the one being populated.
package health

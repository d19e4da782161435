// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for inframock's optional
// YAML configuration. The file is located via INFRAMOCK_CFG_FILE or, failing
// that, in the user's configuration directory:
//   - Linux/macOS: $XDG_CONFIG_HOME/inframock.yaml or $HOME/.config/inframock.yaml
//   - Windows: %APPDATA%/inframock.yaml
//
// Flag values are also read from the same file by the command package, under
// "<command>.<flag>" and then "<flag>".
package config

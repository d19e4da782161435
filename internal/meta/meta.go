// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"

	"github.com/tfctl/inframock/internal/config"
)

// Meta contains runtime metadata shared by commands. It carries CLI arguments,
// the loaded configuration, the context and the path of the config file that
// flag values may be sourced from.
type Meta struct {
	Args       []string
	Config     config.Type
	ConfigFile string
	Context    context.Context
}

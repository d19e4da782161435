// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Do not import any other inframock packages to avoid import cycles.

package version

import "runtime/debug"

// Stamped is set with -ldflags "-X github.com/tfctl/inframock/internal/version.Stamped=v1.2.3"
// by container builds, which do not carry module build info.
var Stamped string

var Version = resolve(Stamped, debug.ReadBuildInfo)

func resolve(stamped string, buildInfo func() (*debug.BuildInfo, bool)) string {
	if stamped != "" {
		return stamped
	}
	if info, ok := buildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

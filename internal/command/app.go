// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/inframock/internal/config"
	"github.com/tfctl/inframock/internal/meta"
)

// DefaultCommand runs when no command is named.
const DefaultCommand = "run"

// Commands lists the command names InitApp registers.
var Commands = []string{"run", "wait", "provision", "seed", "verify"}

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	// The arg[1] immediately following the binary (arg[0]) is the command and
	// also the namespace used when retrieving config values. arg[1] could be
	// -h/--help, so ignore it if it appears to be a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	config.Config.Namespace = ns
	cfg, _ := config.Load() //nolint
	path, _ := config.File()

	meta := meta.Meta{
		Args:       args,
		Config:     cfg,
		ConfigFile: path,
		Context:    ctx,
	}

	app := &cli.Command{
		Name:  "inframock",
		Usage: "mock cloud backend provisioner",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "inframock version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		runCommandBuilder(meta),
		waitCommandBuilder(meta),
		provisionCommandBuilder(meta),
		seedCommandBuilder(meta),
		verifyCommandBuilder(meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}

func runCommandBuilder(meta meta.Meta) *cli.Command {
	const name = "run"
	flags := NewBackendFlags(name, meta.ConfigFile)
	flags = append(flags, NewStackFlags(name, meta.ConfigFile)...)
	flags = append(flags, NewFixtureFlags(name, meta.ConfigFile)...)
	flags = append(flags, NewSeedFlags(name, meta.ConfigFile)...)
	flags = append(flags, NewPopulateFlag(name, meta.ConfigFile))

	return &cli.Command{
		Name:      name,
		Usage:     "wait, provision, optionally seed, then report ready",
		UsageText: "inframock [run] [options]",
		Metadata:  map[string]any{"meta": meta},
		Flags:     flags,
		Action:    runCommandAction,
	}
}

func waitCommandBuilder(meta meta.Meta) *cli.Command {
	const name = "wait"
	return &cli.Command{
		Name:      name,
		Usage:     "wait for the backend to answer",
		UsageText: "inframock wait [options]",
		Metadata:  map[string]any{"meta": meta},
		Flags:     NewBackendFlags(name, meta.ConfigFile),
		Action:    waitCommandAction,
	}
}

func provisionCommandBuilder(meta meta.Meta) *cli.Command {
	const name = "provision"
	return &cli.Command{
		Name:      name,
		Usage:     "wait for the backend, then create the stacks",
		UsageText: "inframock provision [options]",
		Metadata:  map[string]any{"meta": meta},
		Flags:     append(NewBackendFlags(name, meta.ConfigFile), NewStackFlags(name, meta.ConfigFile)...),
		Action:    provisionCommandAction,
	}
}

func seedCommandBuilder(meta meta.Meta) *cli.Command {
	const name = "seed"
	flags := NewBackendFlags(name, meta.ConfigFile)
	flags = append(flags, NewFixtureFlags(name, meta.ConfigFile)...)
	flags = append(flags, NewSeedFlags(name, meta.ConfigFile)...)

	return &cli.Command{
		Name:      name,
		Usage:     "wait for the backend, then load fixtures",
		UsageText: "inframock seed [options]",
		Metadata:  map[string]any{"meta": meta},
		Flags:     flags,
		Action:    seedCommandAction,
	}
}

func verifyCommandBuilder(meta meta.Meta) *cli.Command {
	const name = "verify"
	return &cli.Command{
		Name:      name,
		Usage:     "compare fixtures with the backend contents",
		UsageText: "inframock verify [options]",
		Metadata:  map[string]any{"meta": meta},
		Flags:     append(NewBackendFlags(name, meta.ConfigFile), NewFixtureFlags(name, meta.ConfigFile)...),
		Action:    verifyCommandAction,
	}
}

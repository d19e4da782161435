// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/tfctl/inframock/internal/command"
	"github.com/tfctl/inframock/internal/log"
	"github.com/tfctl/inframock/internal/version"
)

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand inserts the default command when none is named. Help
// requests are left for the CLI to answer.
func handleNakedCommand(args []string) []string {
	if len(args) == 0 {
		return args
	}
	if len(args) > 1 {
		first := args[1]
		if first == "--help" || first == "-h" || first == "help" || slices.Contains(command.Commands, first) {
			return args
		}
		if !strings.HasPrefix(first, "-") {
			return args
		}
	}

	out := make([]string, 0, len(args)+1)
	out = append(out, args[0], command.DefaultCommand)
	return append(out, args[1:]...)
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(ctx context.Context, args []string) int {
	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)
		return 2
	}

	return 0
}

func realMain() int {
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleNakedCommand(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return initAndRunApp(ctx, args)
}

// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os"

	"github.com/dustin/go-humanize"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/inframock/internal/objectstore"
	"github.com/tfctl/inframock/internal/output"
	"github.com/tfctl/inframock/internal/stack"
	"github.com/tfctl/inframock/internal/waiter"
)

const (
	defaultEndpoint    = "http://localstack:4566"
	defaultRegion      = "us-east-1"
	defaultEnvironment = "development"
	defaultDataDir     = "/data"
)

// sourceChain resolves a flag from the given env vars, then from the config
// file at path, first under ns.name and then under name.
func sourceChain(ns string, path string, name string, envs ...string) cli.ValueSourceChain {
	chain := cli.NewValueSourceChain()
	for _, e := range envs {
		chain.Chain = append(chain.Chain, cli.EnvVar(e))
	}
	if path == "" {
		return chain
	}
	if ns != "" {
		chain.Chain = append(chain.Chain, yaml.YAML(ns+"."+name, altsrc.StringSourcer(path)))
	}
	chain.Chain = append(chain.Chain, yaml.YAML(name, altsrc.StringSourcer(path)))
	return chain
}

// NewBackendFlags returns the flags every command takes to reach the mock
// backend.
func NewBackendFlags(ns string, path string) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Value:   output.IsTerminal(os.Stdout),
			Sources: sourceChain(ns, path, "color", "INFRAMOCK_COLOR"),
		},
		&cli.StringFlag{
			Name:    "endpoint",
			Aliases: []string{"e"},
			Usage:   "base URL of the mock backend",
			Value:   defaultEndpoint,
			Sources: sourceChain(ns, path, "endpoint", "LOCALSTACK_ENDPOINT"),
			Validator: func(value string) error {
				return FlagValidators(value, URLValidator)
			},
		},
		&cli.StringFlag{
			Name:    "environment",
			Usage:   "cluster environment suffixed to stack, table and bucket names",
			Value:   defaultEnvironment,
			Sources: sourceChain(ns, path, "environment", "CLUSTER_ENV"),
			Validator: func(value string) error {
				return FlagValidators(value, NameValidator)
			},
		},
		&cli.StringFlag{
			Name:    "region",
			Aliases: []string{"r"},
			Usage:   "mocked AWS region",
			Value:   defaultRegion,
			Sources: sourceChain(ns, path, "region", "AWS_DEFAULT_REGION"),
		},
		&cli.DurationFlag{
			Name:    "wait-budget",
			Usage:   "how long to wait for the backend to come up",
			Value:   waiter.DefaultBudget,
			Sources: sourceChain(ns, path, "wait-budget", "INFRAMOCK_WAIT_BUDGET"),
		},
	}
}

// NewStackFlags returns the flags that control provisioning.
func NewStackFlags(ns string, path string) []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "resources",
			Usage:   "resource groups to provision, in order",
			Value:   stack.DefaultResources,
			Sources: sourceChain(ns, path, "resources", "INFRAMOCK_RESOURCES"),
		},
		&cli.DurationFlag{
			Name:    "stack-timeout",
			Usage:   "how long to wait for each stack to complete",
			Value:   stack.DefaultMaxWait,
			Sources: sourceChain(ns, path, "stack-timeout", "INFRAMOCK_STACK_TIMEOUT"),
		},
		&cli.StringFlag{
			Name:    "template-url",
			Usage:   "template URL pattern, {resource} is replaced by the resource group",
			Value:   stack.DefaultTemplateURL,
			Sources: sourceChain(ns, path, "template-url", "INFRAMOCK_TEMPLATE_URL"),
		},
	}
}

// NewFixtureFlags returns the flags that locate fixture data.
func NewFixtureFlags(ns string, path string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "data-dir",
			Aliases: []string{"d"},
			Usage:   "directory holding one folder per experiment",
			Value:   defaultDataDir,
			Sources: sourceChain(ns, path, "data-dir", "MOCK_EXPERIMENT_DATA_DIR"),
		},
		&cli.BoolFlag{
			Name:    "download",
			Usage:   "download the fixture tarball from --data-url instead of reading --data-dir",
			Sources: sourceChain(ns, path, "download", "DOWNLOAD_MOCK_DATA"),
		},
		&cli.StringFlag{
			Name:    "data-url",
			Usage:   "URL of a gzip tarball of experiment folders",
			Sources: sourceChain(ns, path, "data-url", "MOCK_EXPERIMENT_DATA_PATH"),
		},
	}
}

// NewSeedFlags returns the flags that only matter when writing fixtures.
func NewSeedFlags(ns string, path string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "api-health-url",
			Usage:   "API health endpoint that must report the same environment before seeding",
			Sources: sourceChain(ns, path, "api-health-url", "API_HEALTH_URL"),
		},
		&cli.StringFlag{
			Name:    "multipart-threshold",
			Usage:   "object size above which uploads are split into parts",
			Value:   humanize.IBytes(objectstore.DefaultMultipartThreshold),
			Sources: sourceChain(ns, path, "multipart-threshold", "INFRAMOCK_MULTIPART_THRESHOLD"),
			Validator: func(value string) error {
				return FlagValidators(value, SizeValidator)
			},
		},
	}
}

// NewPopulateFlag returns the flag gating fixture seeding in the run command.
func NewPopulateFlag(ns string, path string) cli.Flag {
	return &cli.BoolFlag{
		Name:    "populate",
		Aliases: []string{"p"},
		Usage:   "seed fixtures after provisioning",
		Sources: sourceChain(ns, path, "populate", "POPULATE_MOCK"),
	}
}

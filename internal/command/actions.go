// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/inframock/internal/cacheutil"
	"github.com/tfctl/inframock/internal/config"
	"github.com/tfctl/inframock/internal/fixture"
	"github.com/tfctl/inframock/internal/health"
	"github.com/tfctl/inframock/internal/log"
	"github.com/tfctl/inframock/internal/objectstore"
	"github.com/tfctl/inframock/internal/output"
	"github.com/tfctl/inframock/internal/stack"
	"github.com/tfctl/inframock/internal/tablestore"
	"github.com/tfctl/inframock/internal/verify"
	"github.com/tfctl/inframock/internal/waiter"
)

const defaultCacheCleanHours = 24

var defaultFixtureIgnore = []string{".DS_Store", "*~"}

// runCommandAction waits for the backend, provisions the stacks, optionally
// seeds fixtures and prints the ready banner.
func runCommandAction(ctx context.Context, cmd *cli.Command) error {
	s, err := begin(cmd)
	if err != nil {
		return err
	}

	log.Info("InfraMock local service started. Waiting for LocalStack to be brought up...")
	if err := waitFor(ctx, s); err != nil {
		return err
	}

	c, err := newClients(ctx, s)
	if err != nil {
		return err
	}

	log.Info("LocalStack is up. Provisioning Biomage stack...")
	if err := provision(ctx, s, c); err != nil {
		return err
	}

	if s.Populate {
		log.Info("Going to populate mock S3/DynamoDB with experiment data.")
		if err := seed(ctx, s, c); err != nil {
			return err
		}
	}

	output.Banner(os.Stdout, output.RunningLines(s.Region), s.Color)
	return nil
}

func waitCommandAction(ctx context.Context, cmd *cli.Command) error {
	s, err := begin(cmd)
	if err != nil {
		return err
	}
	return waitFor(ctx, s)
}

func provisionCommandAction(ctx context.Context, cmd *cli.Command) error {
	s, err := begin(cmd)
	if err != nil {
		return err
	}
	if err := waitFor(ctx, s); err != nil {
		return err
	}
	c, err := newClients(ctx, s)
	if err != nil {
		return err
	}
	return provision(ctx, s, c)
}

func seedCommandAction(ctx context.Context, cmd *cli.Command) error {
	s, err := begin(cmd)
	if err != nil {
		return err
	}
	if err := waitFor(ctx, s); err != nil {
		return err
	}
	c, err := newClients(ctx, s)
	if err != nil {
		return err
	}
	return seed(ctx, s, c)
}

// verifyCommandAction compares the fixtures with what the backend holds and
// fails when they differ.
func verifyCommandAction(ctx context.Context, cmd *cli.Command) error {
	s, err := begin(cmd)
	if err != nil {
		return err
	}
	c, err := newClients(ctx, s)
	if err != nil {
		return err
	}

	root, cleanup, err := fixtureSource(s).Open(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	v := &verify.Verifier{Tables: c.tables, Objects: c.blobs, Environment: s.Environment}
	report, err := v.Verify(ctx, root)
	if err != nil {
		return err
	}

	var rows [][]string
	for _, d := range report.Drift {
		rows = append(rows, []string{d.Target, d.Problem})
	}
	output.TableWriter(os.Stdout, []string{"FIXTURE", "PROBLEM"}, rows, s.Color)
	for _, d := range report.Drift {
		if d.Diff != "" {
			fmt.Fprintf(os.Stdout, "%s\n%s\n", d.Target, d.Diff)
		}
	}

	if err := report.Err(); err != nil {
		return err
	}
	log.Infof("%d fixture(s) match the backend.", report.Checked)
	return nil
}

// begin scopes config lookups to the command and resolves its settings.
func begin(cmd *cli.Command) (Settings, error) {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)
	config.Config.Namespace = cmd.Name
	return SettingsFrom(cmd)
}

func waitFor(ctx context.Context, s Settings) error {
	if err := waiter.New(s.Endpoint, s.WaitBudget).Wait(ctx); err != nil {
		return err
	}
	log.Debugf("%s is answering", s.Endpoint)
	return nil
}

func provision(ctx context.Context, s Settings, c *clients) error {
	cache := cacheutil.FromEnv()
	hours, _ := config.GetInt("cache.clean", defaultCacheCleanHours)
	if err := cache.Purge(hours); err != nil {
		log.WithError(err).Warn("template cache not purged")
	}

	p := &stack.Provisioner{
		Stacks:      c.stacks,
		Topics:      c.topics,
		Templates:   stack.NewHTTPTemplates(s.TemplateURL, cache),
		Environment: s.Environment,
		Resources:   s.Resources,
		MaxWait:     s.StackTimeout,
	}
	results, err := p.Provision(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{r.Name, r.Outcome.String(), strconv.Itoa(len(r.Summary.Resources))})
	}
	output.TableWriter(os.Stdout, []string{"STACK", "OUTCOME", "RESOURCES"}, rows, s.Color)
	return nil
}

func seed(ctx context.Context, s Settings, c *clients) error {
	if s.APIHealthURL != "" {
		if err := (&health.Checker{URL: s.APIHealthURL}).Check(ctx, s.Environment); err != nil {
			return err
		}
	}

	root, cleanup, err := fixtureSource(s).Open(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	ignore, err := fixtureIgnore()
	if err != nil {
		return err
	}

	l := &fixture.Loader{
		Tables:      &tablestore.Loader{Client: c.tables, Environment: s.Environment},
		Blobs:       &objectstore.Loader{Uploader: objectstore.NewUploader(c.blobs, s.MultipartThreshold)},
		Environment: s.Environment,
		Ignore:      ignore,
	}
	report, err := l.Load(ctx, root)
	if err != nil {
		return err
	}
	log.Infof("Seeded %s.", report)
	return nil
}

func fixtureSource(s Settings) *fixture.Source {
	return &fixture.Source{Dir: s.DataDir, Download: s.Download, URL: s.DataURL}
}

func fixtureIgnore() ([]string, error) {
	ignore, err := config.GetStringSlice("fixtures.ignore", defaultFixtureIgnore)
	if err != nil {
		return nil, fmt.Errorf("invalid fixtures.ignore: %w", err)
	}
	return ignore, nil
}

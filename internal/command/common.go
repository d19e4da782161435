// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/urfave/cli/v3"

	awsx "github.com/tfctl/inframock/internal/aws"
	"github.com/tfctl/inframock/internal/meta"
	"github.com/tfctl/inframock/internal/objectstore"
)

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// Settings are the resolved flag values of one invocation. Flags a command
// does not declare keep their zero value.
type Settings struct {
	Endpoint    string
	Region      string
	Environment string
	Color       bool
	WaitBudget  time.Duration

	Resources    []string
	StackTimeout time.Duration
	TemplateURL  string

	Populate bool
	DataDir  string
	Download bool
	DataURL  string

	APIHealthURL       string
	MultipartThreshold int64
}

// SettingsFrom reads Settings from cmd.
func SettingsFrom(cmd *cli.Command) (Settings, error) {
	s := Settings{
		Endpoint:     cmd.String("endpoint"),
		Region:       cmd.String("region"),
		Environment:  cmd.String("environment"),
		Color:        cmd.Bool("color"),
		WaitBudget:   cmd.Duration("wait-budget"),
		Resources:    cmd.StringSlice("resources"),
		StackTimeout: cmd.Duration("stack-timeout"),
		TemplateURL:  cmd.String("template-url"),
		Populate:     cmd.Bool("populate"),
		DataDir:      cmd.String("data-dir"),
		Download:     cmd.Bool("download"),
		DataURL:      cmd.String("data-url"),
		APIHealthURL: cmd.String("api-health-url"),
	}

	if t := cmd.String("multipart-threshold"); t != "" {
		n, err := objectstore.ParseThreshold(t)
		if err != nil {
			return s, err
		}
		s.MultipartThreshold = n
	}
	return s, nil
}

// clients are the backend service clients, all pointed at one endpoint.
type clients struct {
	stacks *cloudformation.Client
	tables *dynamodb.Client
	blobs  *s3v2.Client
	topics *sns.Client
}

// maxAttempts covers LocalStack services that report ready before
// they accept calls.
const maxAttempts = 5

func newRetryer() awsv2.Retryer {
	return retry.AddWithMaxAttempts(retry.NewStandard(), maxAttempts)
}

func newClients(ctx context.Context, s Settings) (*clients, error) {
	cfg, err := awsx.LoadAWSConfig(ctx,
		awsx.WithRegion(s.Region),
		awsx.WithEndpoint(s.Endpoint),
		awsx.WithMockCredentials(),
		awsx.WithHTTPClient(cleanhttp.DefaultPooledClient()),
		awsx.WithRetryer(newRetryer),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return &clients{
		stacks: awsx.NewCloudFormation(cfg),
		tables: awsx.NewDynamoDB(cfg),
		blobs:  awsx.NewS3(cfg),
		topics: awsx.NewSNS(cfg),
	}, nil
}

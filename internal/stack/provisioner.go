// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package stack

import (
	"context"
	"fmt"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/tfctl/inframock/internal/log"
)

// DefaultResources are the resource groups provisioned, in order.
var DefaultResources = []string{"dynamo", "s3", "sns"}

const (
	DefaultMaxWait  = 5 * time.Minute
	defaultMinDelay = 2 * time.Second
	defaultMaxDelay = 30 * time.Second
)

// StackAPI is the subset of the CloudFormation client used to create stacks
// and wait for them.
type StackAPI interface {
	CreateStack(ctx context.Context, params *cloudformation.CreateStackInput, optFns ...func(*cloudformation.Options)) (*cloudformation.CreateStackOutput, error)
	cloudformation.DescribeStacksAPIClient
}

// Result records what happened to one stack.
type Result struct {
	Resource string
	Name     string
	Outcome  Outcome
	Summary  Summary
}

// Provisioner creates one stack per resource group and waits for all of them.
type Provisioner struct {
	Stacks      StackAPI
	Topics      sns.ListTopicsAPIClient
	Templates   TemplateFetcher
	Environment string
	Resources   []string

	// MaxWait bounds the wait for each stack to reach CREATE_COMPLETE.
	MaxWait time.Duration
	// MinDelay and MaxDelay bound the polling interval of the wait.
	MinDelay time.Duration
	MaxDelay time.Duration
}

// StackName is the deterministic stack name of a resource group.
func StackName(resource, environment string) string {
	return fmt.Sprintf("biomage-%s-%s", resource, environment)
}

// Provision submits every stack, tolerating ones that already exist, then
// blocks until each is complete and logs the SNS topics present. The first
// fatal error aborts the run.
func (p *Provisioner) Provision(ctx context.Context) ([]Result, error) {
	resources := p.Resources
	if len(resources) == 0 {
		resources = DefaultResources
	}

	results := make([]Result, 0, len(resources))
	for _, resource := range resources {
		res, err := p.submit(ctx, resource)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}

	for _, res := range results {
		if err := p.waitComplete(ctx, res.Name); err != nil {
			return results, err
		}
		log.Infof("stack %s is complete", res.Name)
	}

	if err := p.logTopics(ctx); err != nil {
		return results, err
	}

	log.Info("Stack created.")
	return results, nil
}

func (p *Provisioner) submit(ctx context.Context, resource string) (Result, error) {
	name := StackName(resource, p.Environment)

	body, err := p.Templates.Fetch(ctx, resource)
	if err != nil {
		return Result{}, err
	}

	summary, err := Summarize(body)
	if err != nil {
		return Result{}, fmt.Errorf("template for %s: %w", resource, err)
	}
	log.Debugf("template for %s declares %d resource(s)", resource, len(summary.Resources))
	for _, r := range summary.Resources {
		log.Tracef("  %s (%s)", r.LogicalID, r.Type)
	}

	_, err = p.Stacks.CreateStack(ctx, &cloudformation.CreateStackInput{
		StackName:    awsv2.String(name),
		TemplateBody: awsv2.String(string(body)),
		Parameters: []types.Parameter{
			{
				ParameterKey:   awsv2.String("Environment"),
				ParameterValue: awsv2.String(p.Environment),
			},
		},
	})
	outcome, err := Classify(err)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create stack %s: %w", name, err)
	}
	log.Infof("stack %s: %s", name, outcome)

	return Result{Resource: resource, Name: name, Outcome: outcome, Summary: summary}, nil
}

func (p *Provisioner) waitComplete(ctx context.Context, name string) error {
	maxWait := p.MaxWait
	if maxWait <= 0 {
		maxWait = DefaultMaxWait
	}

	w := cloudformation.NewStackCreateCompleteWaiter(p.Stacks, func(o *cloudformation.StackCreateCompleteWaiterOptions) {
		o.MinDelay = orDefault(p.MinDelay, defaultMinDelay)
		o.MaxDelay = orDefault(p.MaxDelay, defaultMaxDelay)
	})
	if err := w.Wait(ctx, &cloudformation.DescribeStacksInput{StackName: awsv2.String(name)}, maxWait); err != nil {
		log.Errorf("stack %s did not reach CREATE_COMPLETE", name)
		return fmt.Errorf("stack %s did not complete: %w", name, err)
	}
	return nil
}

func (p *Provisioner) logTopics(ctx context.Context) error {
	if p.Topics == nil {
		return nil
	}

	paginator := sns.NewListTopicsPaginator(p.Topics, &sns.ListTopicsInput{})
	var count int
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to list topics: %w", err)
		}
		for _, t := range page.Topics {
			log.Infof("topic %s", awsv2.ToString(t.TopicArn))
			count++
		}
	}
	log.Infof("%d topic(s) present", count)
	return nil
}

func orDefault(d, def time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return def
}

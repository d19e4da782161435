// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"
	"net/http"
	"os"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/tfctl/inframock/internal/log"
)

// LocalStack accepts any credentials; these are used when the environment
// provides none.
const (
	mockAccessKeyID     = "test"
	mockSecretAccessKey = "test"
)

// options holds optional overrides for AWS config loading.
type options struct {
	region     string
	endpoint   string
	static     bool
	httpClient *http.Client
	retryer    func() awsv2.Retryer
}

// Option customizes how AWS config is loaded.
// Default behavior (no options) inherits the shell environment and shared
// config chain (AWS_PROFILE, ~/.aws/config, ~/.aws/credentials, IMDS, etc.).
type Option func(*options)

// LoadAWSConfig loads AWS SDK v2 config. By default it inherits the shell's
// AWS setup. Options can point every client at a mock endpoint, force static
// credentials, and override region, HTTP client and retryer.
func LoadAWSConfig(ctx context.Context, opts ...Option) (awsv2.Config, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	log.Debugf("opts applied: region=%s, endpoint=%s, static=%t", o.region, o.endpoint, o.static)

	var loadOpts []func(*config.LoadOptions) error
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}
	if o.endpoint != "" {
		loadOpts = append(loadOpts, config.WithBaseEndpoint(o.endpoint))
	}
	if o.static {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(mockAccessKeyID, mockSecretAccessKey, ""),
		))
	}
	if o.httpClient != nil {
		loadOpts = append(loadOpts, config.WithHTTPClient(o.httpClient))
	}
	if o.retryer != nil {
		loadOpts = append(loadOpts, config.WithRetryer(o.retryer))
	}
	log.Debugf("loadOpts built: len=%d", len(loadOpts))

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		log.Debugf("config load err: err=%v", err)
		return awsv2.Config{}, err
	}
	log.Debugf("config loaded")
	return cfg, nil
}

// NewS3 constructs a v2 S3 client from the provided config. Path-style
// addressing is always used since mock backends do not resolve virtual-host
// bucket names. Additional service options can be supplied via optFns.
func NewS3(cfg awsv2.Config, optFns ...func(*s3v2.Options)) *s3v2.Client {
	optFns = append([]func(*s3v2.Options){func(o *s3v2.Options) {
		o.UsePathStyle = true
		o.RequestChecksumCalculation = awsv2.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = awsv2.ResponseChecksumValidationWhenRequired
	}}, optFns...)
	client := s3v2.NewFromConfig(cfg, optFns...)
	log.Debugf("s3 client created")
	return client
}

// NewDynamoDB constructs a v2 DynamoDB client from the provided config.
func NewDynamoDB(cfg awsv2.Config, optFns ...func(*dynamodb.Options)) *dynamodb.Client {
	client := dynamodb.NewFromConfig(cfg, optFns...)
	log.Debugf("dynamodb client created")
	return client
}

// NewCloudFormation constructs a v2 CloudFormation client from the provided
// config.
func NewCloudFormation(cfg awsv2.Config, optFns ...func(*cloudformation.Options)) *cloudformation.Client {
	client := cloudformation.NewFromConfig(cfg, optFns...)
	log.Debugf("cloudformation client created")
	return client
}

// NewSNS constructs a v2 SNS client from the provided config.
func NewSNS(cfg awsv2.Config, optFns ...func(*sns.Options)) *sns.Client {
	client := sns.NewFromConfig(cfg, optFns...)
	log.Debugf("sns client created")
	return client
}

// WithRegion sets the region override. Defaults to env/profile/metadata chain.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// WithEndpoint points every service client at endpoint instead of the
// regional AWS endpoints.
func WithEndpoint(endpoint string) Option {
	return func(o *options) { o.endpoint = endpoint }
}

// WithMockCredentials forces static dummy credentials unless the environment
// already carries an access key, in which case the default chain is kept.
func WithMockCredentials() Option {
	return func(o *options) {
		o.static = os.Getenv("AWS_ACCESS_KEY_ID") == ""
	}
}

// WithHTTPClient overrides the HTTP client used by every service client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithRetryer injects a custom retryer; if not set, SDK defaults are used.
func WithRetryer(newRetryer func() awsv2.Retryer) Option {
	return func(o *options) { o.retryer = newRetryer }
}

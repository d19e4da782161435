// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

//go:build integration
// +build integration

package aws

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// localstack returns a config for the LocalStack at LOCALSTACK_ENDPOINT
// (default http://localhost:4566).
func localstack(t *testing.T) awsv2.Config {
	t.Helper()

	endpoint := os.Getenv("LOCALSTACK_ENDPOINT")
	if endpoint == "" {
		endpoint = "http://localhost:4566"
	}

	cfg, err := LoadAWSConfig(context.Background(),
		WithRegion("us-east-1"),
		WithEndpoint(endpoint),
		WithMockCredentials(),
	)
	require.NoError(t, err)
	return cfg
}

// TestIntegration_S3PutGet verifies object round trips through LocalStack S3.
func TestIntegration_S3PutGet(t *testing.T) {
	ctx := context.Background()
	client := NewS3(localstack(t))

	bucketName := fmt.Sprintf("inframock-test-%d", time.Now().UnixNano())
	_, err := client.CreateBucket(ctx, &s3v2.CreateBucketInput{Bucket: awsv2.String(bucketName)})
	require.NoError(t, err)

	testData := []byte("count matrix")
	_, err = client.PutObject(ctx, &s3v2.PutObjectInput{
		Bucket: awsv2.String(bucketName),
		Key:    awsv2.String("e1/r.rds"),
		Body:   bytes.NewReader(testData),
	})
	require.NoError(t, err)

	result, err := client.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(bucketName),
		Key:    awsv2.String("e1/r.rds"),
	})
	require.NoError(t, err)
	defer result.Body.Close()

	body, err := io.ReadAll(result.Body)
	require.NoError(t, err)
	assert.Equal(t, testData, body)
}

// TestIntegration_DynamoDBPutGet verifies item round trips through LocalStack
// DynamoDB.
func TestIntegration_DynamoDBPutGet(t *testing.T) {
	ctx := context.Background()
	client := NewDynamoDB(localstack(t))

	table := fmt.Sprintf("experiments-%d", time.Now().UnixNano())
	_, err := client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName:   awsv2.String(table),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: awsv2.String("experimentId"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: awsv2.String("experimentId"), KeyType: types.KeyTypeHash},
		},
	})
	require.NoError(t, err)

	key := map[string]types.AttributeValue{"experimentId": &types.AttributeValueMemberS{Value: "e1"}}
	_, err = client.PutItem(ctx, &dynamodb.PutItemInput{TableName: awsv2.String(table), Item: key})
	require.NoError(t, err)

	out, err := client.GetItem(ctx, &dynamodb.GetItemInput{TableName: awsv2.String(table), Key: key})
	require.NoError(t, err)
	assert.Equal(t, "e1", out.Item["experimentId"].(*types.AttributeValueMemberS).Value)
}

// TestIntegration_SNSListTopics verifies the SNS client can reach LocalStack.
func TestIntegration_SNSListTopics(t *testing.T) {
	client := NewSNS(localstack(t))

	_, err := client.ListTopics(context.Background(), &sns.ListTopicsInput{})
	assert.NoError(t, err)
}

// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tablestore

import (
	"context"
	"fmt"
	"io"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/tfctl/inframock/internal/log"
)

// PutItemAPI is the subset of the DynamoDB client used for loading.
type PutItemAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Loader writes table fixtures into environment-suffixed tables.
type Loader struct {
	Client      PutItemAPI
	Environment string
}

// TableName composes the physical table name of a logical table.
func TableName(logical, environment string) string {
	return fmt.Sprintf("%s-%s", logical, environment)
}

// Load decodes the fixture in r and puts every row into the logical table.
// It returns the number of rows written. Rows already written stay written
// when a later put fails.
func (l *Loader) Load(ctx context.Context, r io.Reader, logical string) (int, error) {
	rows, err := Decode(r)
	if err != nil {
		return 0, err
	}

	table := TableName(logical, l.Environment)
	for i, row := range rows {
		item, err := ToItem(row)
		if err != nil {
			return i, fmt.Errorf("record %d for %s: %w", i, table, err)
		}
		if _, err := l.Client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: awsv2.String(table),
			Item:      item,
		}); err != nil {
			return i, fmt.Errorf("failed to put record %d into %s: %w", i, table, err)
		}
	}
	log.WithField("table", table).Debugf("put %d row(s)", len(rows))
	return len(rows), nil
}

// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// FakeDynamo is an in-memory stand-in for the DynamoDB calls inframock makes.
// Tables must be declared with their hash key before use; PutItem replaces an
// item with the same key, like the real service.
type FakeDynamo struct {
	mu     sync.Mutex
	keys   map[string]string
	tables map[string][]map[string]types.AttributeValue

	// Puts counts PutItem calls.
	Puts int
}

// NewFakeDynamo returns a FakeDynamo with the given table -> hash key
// declarations.
func NewFakeDynamo(tables map[string]string) *FakeDynamo {
	f := &FakeDynamo{keys: map[string]string{}, tables: map[string][]map[string]types.AttributeValue{}}
	for name, key := range tables {
		f.keys[name] = key
	}
	return f
}

// Items returns the items stored in table.
func (f *FakeDynamo) Items(table string) []map[string]types.AttributeValue {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]types.AttributeValue(nil), f.tables[table]...)
}

func (f *FakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	table := awsv2.ToString(in.TableName)
	key, ok := f.keys[table]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: awsv2.String("Cannot do operations on a non-existent table")}
	}
	if _, ok := in.Item[key]; !ok {
		return nil, fmt.Errorf("ValidationException: missing key %s", key)
	}

	f.Puts++
	items := f.tables[table]
	for i, it := range items {
		if reflect.DeepEqual(it[key], in.Item[key]) {
			items[i] = in.Item
			return &dynamodb.PutItemOutput{}, nil
		}
	}
	f.tables[table] = append(items, in.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *FakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	table := awsv2.ToString(in.TableName)
	key, ok := f.keys[table]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: awsv2.String("Cannot do operations on a non-existent table")}
	}
	for _, it := range f.tables[table] {
		if reflect.DeepEqual(it[key], in.Key[key]) {
			return &dynamodb.GetItemOutput{Item: it}, nil
		}
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (f *FakeDynamo) DescribeTable(_ context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	table := awsv2.ToString(in.TableName)
	key, ok := f.keys[table]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: awsv2.String("Requested resource not found")}
	}
	return &dynamodb.DescribeTableOutput{Table: &types.TableDescription{
		TableName: awsv2.String(table),
		KeySchema: []types.KeySchemaElement{{AttributeName: awsv2.String(key), KeyType: types.KeyTypeHash}},
	}}, nil
}

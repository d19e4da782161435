// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tablestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Decode parses a table fixture into the rows it describes. A document with a
// non-empty "records" array yields one row per element; any other document
// is a single row. Numbers keep their literal text.
func Decode(r io.Reader) ([]map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("failed to parse fixture: trailing data after document")
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("fixture must be a JSON object, got %T", doc)
	}

	records, present := obj["records"]
	if !present || !truthy(records) {
		return []map[string]any{obj}, nil
	}

	list, ok := records.([]any)
	if !ok {
		return nil, fmt.Errorf("fixture records must be an array, got %T", records)
	}
	rows := make([]map[string]any, 0, len(list))
	for i, rec := range list {
		row, ok := rec.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("fixture record %d must be an object, got %T", i, rec)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// truthy reports whether v would select per-record loading: null, false,
// zero, empty strings and empty collections do not.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

// ToItem converts a decoded row into a DynamoDB item. json.Number values
// become N attributes carrying the original decimal text.
func ToItem(row map[string]any) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(toNumbers(row))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal item: %w", err)
	}
	return item, nil
}

// FromItem converts a DynamoDB item back into the shape Decode produces.
func FromItem(item map[string]types.AttributeValue) (map[string]any, error) {
	var out map[string]any
	err := attributevalue.UnmarshalMapWithOptions(item, &out, func(o *attributevalue.DecoderOptions) {
		o.UseNumber = true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return fromNumbers(out).(map[string]any), nil
}

func toNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		return attributevalue.Number(t)
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = toNumbers(e)
		}
		return m
	case []any:
		l := make([]any, len(t))
		for i, e := range t {
			l[i] = toNumbers(e)
		}
		return l
	default:
		return v
	}
}

func fromNumbers(v any) any {
	switch t := v.(type) {
	case attributevalue.Number:
		return json.Number(t)
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = fromNumbers(e)
		}
		return m
	case []any:
		l := make([]any, len(t))
		for i, e := range t {
			l[i] = fromNumbers(e)
		}
		return l
	default:
		return v
	}
}

// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package verify

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/tfctl/inframock/internal/fixture"
	"github.com/tfctl/inframock/internal/log"
	"github.com/tfctl/inframock/internal/objectstore"
	"github.com/tfctl/inframock/internal/tablestore"
)

// ErrDrift is returned when the backend does not hold what the fixtures say.
var ErrDrift = errors.New("backend differs from fixtures")

// TableAPI is the subset of the DynamoDB client used for verification.
type TableAPI interface {
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// Drift describes one fixture that does not match the backend.
type Drift struct {
	Target  string
	Problem string
	Diff    string
}

// Report is the outcome of a verification pass.
type Report struct {
	Checked int
	Drift   []Drift
}

// Err returns ErrDrift when any drift was found.
func (r *Report) Err() error {
	if len(r.Drift) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d of %d fixture(s)", ErrDrift, len(r.Drift), r.Checked)
}

// Verifier compares fixtures on disk with the backend.
type Verifier struct {
	Tables      TableAPI
	Objects     s3v2.HeadObjectAPIClient
	Environment string

	keys map[string][]string
}

// Verify checks every recognised fixture under root. Errors talking to the
// backend abort; mismatches are collected in the report.
func (v *Verifier) Verify(ctx context.Context, root string) (*Report, error) {
	ids, err := fixture.Experiments(root)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, id := range ids {
		names, err := fixture.Files(root, id)
		if err != nil {
			return report, err
		}
		for _, name := range names {
			path := filepath.Join(root, id, name)
			dest := fixture.Classify(name, v.Environment)

			switch dest.Kind {
			case fixture.Table:
				err = v.verifyTable(ctx, path, tablestore.TableName(dest.Table, v.Environment), report)
			case fixture.CountMatrix, fixture.CellSets:
				err = v.verifyObject(ctx, path, dest.Bucket, objectstore.ObjectKey(id, name), report)
			default:
				continue
			}
			if err != nil {
				return report, err
			}
		}
	}
	return report, nil
}

func (v *Verifier) keySchema(ctx context.Context, table string) ([]string, error) {
	if names, ok := v.keys[table]; ok {
		return names, nil
	}
	out, err := v.Tables.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: awsv2.String(table)})
	if err != nil {
		return nil, fmt.Errorf("failed to describe %s: %w", table, err)
	}

	var names []string
	for _, k := range out.Table.KeySchema {
		names = append(names, awsv2.ToString(k.AttributeName))
	}
	if v.keys == nil {
		v.keys = map[string][]string{}
	}
	v.keys[table] = names
	return names, nil
}

func (v *Verifier) verifyTable(ctx context.Context, path, table string, report *Report) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := tablestore.Decode(f)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	keyNames, err := v.keySchema(ctx, table)
	if err != nil {
		return err
	}

	for i, row := range rows {
		report.Checked++
		target := fmt.Sprintf("%s[%d] -> %s", path, i, table)

		item, err := tablestore.ToItem(row)
		if err != nil {
			return err
		}
		key := map[string]types.AttributeValue{}
		var missing []string
		for _, k := range keyNames {
			av, ok := item[k]
			if !ok {
				missing = append(missing, k)
				continue
			}
			key[k] = av
		}
		if len(missing) > 0 {
			v.drift(report, Drift{Target: target, Problem: "record has no " + strings.Join(missing, ",")})
			continue
		}

		out, err := v.Tables.GetItem(ctx, &dynamodb.GetItemInput{TableName: awsv2.String(table), Key: key})
		if err != nil {
			return fmt.Errorf("failed to get item from %s: %w", table, err)
		}
		if len(out.Item) == 0 {
			v.drift(report, Drift{Target: target, Problem: "item missing"})
			continue
		}

		stored, err := tablestore.FromItem(out.Item)
		if err != nil {
			return err
		}
		diff, err := Compare(row, stored)
		if err != nil {
			return err
		}
		if diff != "" {
			v.drift(report, Drift{Target: target, Problem: "item differs", Diff: diff})
		}
	}
	return nil
}

func (v *Verifier) verifyObject(ctx context.Context, path, bucket, key string, report *Report) error {
	report.Checked++
	target := fmt.Sprintf("%s -> s3://%s/%s", path, bucket, key)

	want, err := storedSize(path)
	if err != nil {
		return err
	}

	out, err := v.Objects.HeadObject(ctx, &s3v2.HeadObjectInput{Bucket: awsv2.String(bucket), Key: awsv2.String(key)})
	if err != nil {
		if isNotFound(err) {
			v.drift(report, Drift{Target: target, Problem: "object missing"})
			return nil
		}
		return fmt.Errorf("failed to head s3://%s/%s: %w", bucket, key, err)
	}

	if got := awsv2.ToInt64(out.ContentLength); got != want {
		v.drift(report, Drift{Target: target, Problem: fmt.Sprintf("object is %d bytes, want %d", got, want)})
	}
	return nil
}

func (v *Verifier) drift(report *Report, d Drift) {
	log.Warnf("%s: %s", d.Target, d.Problem)
	report.Drift = append(report.Drift, d)
}

// Compare renders the differences between a fixture row and its stored form
// as an ascii diff. It returns "" when they are equal.
func Compare(want, got map[string]any) (string, error) {
	left, err := json.Marshal(want)
	if err != nil {
		return "", err
	}
	right, err := json.Marshal(got)
	if err != nil {
		return "", err
	}

	delta, err := gojsondiff.New().Compare(left, right)
	if err != nil {
		return "", fmt.Errorf("failed to compare items: %w", err)
	}
	if !delta.Modified() {
		return "", nil
	}

	var jdoc map[string]interface{}
	if err := json.Unmarshal(left, &jdoc); err != nil {
		return "", err
	}
	f := formatter.NewAsciiFormatter(jdoc, formatter.AsciiFormatterConfig{ShowArrayIndex: true})
	return f.Format(delta)
}

// storedSize is the number of bytes the object store should hold for path.
func storedSize(path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return 0, fmt.Errorf("failed to open %s as gzip: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}
	return io.Copy(io.Discard, r)
}

func isNotFound(err error) bool {
	var nf *s3types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var nsk *s3types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && (apiErr.ErrorCode() == "NotFound" || apiErr.ErrorCode() == "NoSuchBucket")
}

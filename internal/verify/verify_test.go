// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package verify

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/inframock/internal/fixture"
	"github.com/tfctl/inframock/internal/objectstore"
	"github.com/tfctl/inframock/internal/tablestore"
	"github.com/tfctl/inframock/internal/testutil"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o600))
}

// fixtures lays down one experiment and returns its root.
func fixtures(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "e1", "mock_experiment.json"),
		[]byte(`{"records": [{"experimentId": "e1", "ratio": 0.25}, {"experimentId": "e2", "ratio": 0.5}]}`))

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(strings.Repeat("count matrix\n", 100)))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	writeFile(t, filepath.Join(root, "e1", "r.rds.gz"), buf.Bytes())
	writeFile(t, filepath.Join(root, "e1", "README"), []byte("ignored"))
	return root
}

func seed(t *testing.T, root string, dynamo *testutil.FakeDynamo, s3 *testutil.FakeS3) {
	t.Helper()
	l := &fixture.Loader{
		Tables:      &tablestore.Loader{Client: dynamo, Environment: "development"},
		Blobs:       &objectstore.Loader{Uploader: objectstore.NewUploader(s3.Client(t), 0)},
		Environment: "development",
	}
	_, err := l.Load(context.Background(), root)
	require.NoError(t, err)
}

func TestVerify_NoDrift(t *testing.T) {
	root := fixtures(t)
	dynamo := testutil.NewFakeDynamo(map[string]string{"experiments-development": "experimentId"})
	s3 := testutil.NewFakeS3(t)
	seed(t, root, dynamo, s3)

	v := &Verifier{Tables: dynamo, Objects: s3.Client(t), Environment: "development"}
	report, err := v.Verify(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Checked)
	assert.Empty(t, report.Drift)
	assert.NoError(t, report.Err())
}

func TestVerify_Drift(t *testing.T) {
	root := fixtures(t)
	dynamo := testutil.NewFakeDynamo(map[string]string{"experiments-development": "experimentId"})
	s3 := testutil.NewFakeS3(t)
	seed(t, root, dynamo, s3)

	item, err := tablestore.ToItem(map[string]any{"experimentId": "e2", "ratio": json.Number("0.75")})
	require.NoError(t, err)
	_, err = dynamo.PutItem(context.Background(), &dynamodb.PutItemInput{
		TableName: awsv2.String("experiments-development"),
		Item:      item,
	})
	require.NoError(t, err)
	s3.Put(t, "biomage-source-development", "e1/r.rds", []byte("short"))

	v := &Verifier{Tables: dynamo, Objects: s3.Client(t), Environment: "development"}
	report, err := v.Verify(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, report.Drift, 2)

	assert.Equal(t, "item differs", report.Drift[0].Problem)
	assert.Contains(t, report.Drift[0].Diff, "ratio")
	assert.Contains(t, report.Drift[1].Problem, "bytes")
	assert.ErrorIs(t, report.Err(), ErrDrift)
}

func TestVerify_Missing(t *testing.T) {
	root := fixtures(t)
	writeFile(t, filepath.Join(root, "e1", "mock_samples.json"), []byte(`{"name": "no key"}`))
	dynamo := testutil.NewFakeDynamo(map[string]string{
		"experiments-development": "experimentId",
		"samples-development":     "experimentId",
	})
	s3 := testutil.NewFakeS3(t)

	v := &Verifier{Tables: dynamo, Objects: s3.Client(t), Environment: "development"}
	report, err := v.Verify(context.Background(), root)
	require.NoError(t, err)

	var problems []string
	for _, d := range report.Drift {
		problems = append(problems, d.Problem)
	}
	assert.Equal(t, []string{"item missing", "item missing", "record has no experimentId", "object missing"}, problems)
}

func TestVerify_UnknownTable(t *testing.T) {
	root := fixtures(t)
	v := &Verifier{Tables: testutil.NewFakeDynamo(nil), Objects: testutil.NewFakeS3(t).Client(t), Environment: "development"}
	_, err := v.Verify(context.Background(), root)
	assert.ErrorContains(t, err, "failed to describe experiments-development")
}

func TestCompare(t *testing.T) {
	same, err := Compare(
		map[string]any{"a": json.Number("1.50"), "b": []any{"x"}},
		map[string]any{"a": json.Number("1.50"), "b": []any{"x"}},
	)
	require.NoError(t, err)
	assert.Empty(t, same)

	diff, err := Compare(
		map[string]any{"a": json.Number("1"), "b": "x"},
		map[string]any{"a": json.Number("2"), "b": "x"},
	)
	require.NoError(t, err)
	assert.Contains(t, diff, `"a"`)
}

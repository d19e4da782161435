// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package objectstore

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/inframock/internal/testutil"
)

func writeGzip(t *testing.T, path string, data []byte) {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
}

func TestObjectKey(t *testing.T) {
	tests := []struct {
		experiment string
		file       string
		want       string
	}{
		{"e1", "/data/e1/r.rds.gz", "e1/r.rds"},
		{"e1", "r.rds.gz", "e1/r.rds"},
		{"e2", "/data/e2/cell_sets.json", "e2/cell_sets.json"},
		{"e3", "plain.tar.gz", "e3/plain.tar"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			assert.Equal(t, tt.want, ObjectKey(tt.experiment, tt.file))
		})
	}
}

func TestParseThreshold(t *testing.T) {
	n, err := ParseThreshold("20MiB")
	require.NoError(t, err)
	assert.Equal(t, int64(20*1024*1024), n)

	n, err = ParseThreshold("8MB")
	require.NoError(t, err)
	assert.Equal(t, int64(8_000_000), n)

	_, err = ParseThreshold("lots")
	assert.Error(t, err)
}

func TestNewUploader(t *testing.T) {
	client := s3v2.New(s3v2.Options{Region: "us-east-1"})

	u := NewUploader(client, 0)
	assert.Equal(t, int64(DefaultMultipartThreshold), u.PartSize)
	assert.Equal(t, 1, u.Concurrency)

	u = NewUploader(client, 1024)
	assert.Equal(t, manager.MinUploadPartSize, u.PartSize)
}

// TestUpload_GzipRoundTrip uploads a compressed count matrix and reads it back
// from the fake store.
func TestUpload_GzipRoundTrip(t *testing.T) {
	fake := testutil.NewFakeS3(t)
	client := fake.Client(t)

	want := bytes.Repeat([]byte("gene,cell,count\n"), 4096)
	path := filepath.Join(t.TempDir(), "r.rds.gz")
	writeGzip(t, path, want)

	l := &Loader{Uploader: NewUploader(client, DefaultMultipartThreshold)}
	key := ObjectKey("e1", path)
	n, err := l.Upload(context.Background(), path, "biomage-source-development", key)
	require.NoError(t, err)
	assert.Equal(t, int64(len(want)), n)

	out, err := client.GetObject(context.Background(), &s3v2.GetObjectInput{
		Bucket: awsv2.String("biomage-source-development"),
		Key:    awsv2.String("e1/r.rds"),
	})
	require.NoError(t, err)
	defer out.Body.Close()
	got, err := io.ReadAll(out.Body)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestUpload_Raw(t *testing.T) {
	fake := testutil.NewFakeS3(t)
	client := fake.Client(t)

	want := []byte(`{"cellSets": []}`)
	path := filepath.Join(t.TempDir(), "cell_sets.json")
	require.NoError(t, os.WriteFile(path, want, 0o600))

	l := &Loader{Uploader: NewUploader(client, 0)}
	logs := testutil.CaptureLog(t)
	_, err := l.Upload(context.Background(), path, "cell-sets-development", ObjectKey("e1", path))
	require.NoError(t, err)

	got, ok := fake.Object("cell-sets-development", "e1/cell_sets.json")
	require.True(t, ok)
	assert.Equal(t, want, got)

	require.NotEmpty(t, logs.Entries)
	last := logs.Entries[len(logs.Entries)-1]
	assert.Equal(t, "uploaded cell_sets.json to e1/cell_sets.json (16 B)", last.Message)
	assert.Equal(t, "cell-sets-development", last.Fields.Get("bucket"))
}

// TestUpload_Multipart verifies large inputs are split into parts and
// reassembled byte-for-byte.
func TestUpload_Multipart(t *testing.T) {
	fake := testutil.NewFakeS3(t)
	client := fake.Client(t)

	want := make([]byte, 11*1024*1024)
	rand.New(rand.NewSource(1)).Read(want)
	path := filepath.Join(t.TempDir(), "r.rds.gz")
	writeGzip(t, path, want)

	l := &Loader{Uploader: NewUploader(client, manager.MinUploadPartSize)}
	n, err := l.Upload(context.Background(), path, "biomage-source-development", "e1/r.rds")
	require.NoError(t, err)
	assert.Equal(t, int64(len(want)), n)

	got, ok := fake.Object("biomage-source-development", "e1/r.rds")
	require.True(t, ok)
	assert.True(t, bytes.Equal(want, got))
	assert.Equal(t, 3, fake.Parts())
}

func TestUpload_Errors(t *testing.T) {
	l := &Loader{Uploader: NewUploader(s3v2.New(s3v2.Options{Region: "us-east-1"}), 0)}

	_, err := l.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.gz"), "b", "k")
	assert.ErrorIs(t, err, os.ErrNotExist)

	notGzip := filepath.Join(t.TempDir(), "r.rds.gz")
	require.NoError(t, os.WriteFile(notGzip, []byte("plain text"), 0o600))
	_, err = l.Upload(context.Background(), notGzip, "b", "k")
	assert.ErrorContains(t, err, "as gzip")
}

// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync/atomic"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3mem"

	awsx "github.com/tfctl/inframock/internal/aws"
)

// FakeS3 is an in-memory S3 endpoint backed by gofakes3. Buckets are created
// on first use.
type FakeS3 struct {
	Server *httptest.Server

	client *s3v2.Client
	parts  atomic.Int32
}

// NewFakeS3 starts a FakeS3 that is shut down when the test ends.
func NewFakeS3(t *testing.T) *FakeS3 {
	t.Helper()

	faker := gofakes3.New(s3mem.New(), gofakes3.WithAutoBucket(true))
	handler := faker.Server()

	f := &FakeS3{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut && r.URL.Query().Has("partNumber") {
			f.parts.Add(1)
		}
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(f.Server.Close)

	f.client = f.Client(t)
	return f
}

// Client returns an S3 client pointed at the fake.
func (f *FakeS3) Client(t *testing.T) *s3v2.Client {
	t.Helper()
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	cfg, err := awsx.LoadAWSConfig(context.Background(),
		awsx.WithRegion("us-east-1"),
		awsx.WithEndpoint(f.Server.URL),
		awsx.WithMockCredentials(),
	)
	if err != nil {
		t.Fatalf("failed to load aws config: %v", err)
	}
	return awsx.NewS3(cfg)
}

// Parts returns the number of multipart parts uploaded so far.
func (f *FakeS3) Parts() int {
	return int(f.parts.Load())
}

// Object returns the stored bytes of bucket/key.
func (f *FakeS3) Object(bucket, key string) ([]byte, bool) {
	out, err := f.client.GetObject(context.Background(), &s3v2.GetObjectInput{
		Bucket: awsv2.String(bucket),
		Key:    awsv2.String(key),
	})
	if err != nil {
		return nil, false
	}
	defer out.Body.Close()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, false
	}
	return b, true
}

// Put stores an object directly.
func (f *FakeS3) Put(t *testing.T, bucket, key string, body []byte) {
	t.Helper()
	_, err := f.client.PutObject(context.Background(), &s3v2.PutObjectInput{
		Bucket: awsv2.String(bucket),
		Key:    awsv2.String(key),
		Body:   bytes.NewReader(body),
	})
	if err != nil {
		t.Fatalf("failed to put s3://%s/%s: %v", bucket, key, err)
	}
}

// Keys returns every stored "bucket/key", sorted.
func (f *FakeS3) Keys(t *testing.T) []string {
	t.Helper()
	ctx := context.Background()

	buckets, err := f.client.ListBuckets(ctx, &s3v2.ListBucketsInput{})
	if err != nil {
		t.Fatalf("failed to list buckets: %v", err)
	}

	var keys []string
	for _, b := range buckets.Buckets {
		p := s3v2.NewListObjectsV2Paginator(f.client, &s3v2.ListObjectsV2Input{Bucket: b.Name})
		for p.HasMorePages() {
			page, err := p.NextPage(ctx)
			var nsb *s3types.NoSuchBucket
			if errors.As(err, &nsb) {
				break
			}
			if err != nil {
				t.Fatalf("failed to list %s: %v", awsv2.ToString(b.Name), err)
			}
			for _, o := range page.Contents {
				keys = append(keys, awsv2.ToString(b.Name)+"/"+awsv2.ToString(o.Key))
			}
		}
	}
	sort.Strings(keys)
	return keys
}

// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package objectstore

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dustin/go-humanize"

	"github.com/tfctl/inframock/internal/log"
)

// DefaultMultipartThreshold is the size above which uploads are split into
// parts.
const DefaultMultipartThreshold = 20 * humanize.MiByte

const gzipSuffix = ".gz"

// UploadAPI is satisfied by *manager.Uploader.
type UploadAPI interface {
	Upload(ctx context.Context, input *s3v2.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// NewUploader returns a sequential uploader that switches to multipart above
// threshold bytes. Thresholds below the S3 minimum part size are raised to it.
func NewUploader(client manager.UploadAPIClient, threshold int64) *manager.Uploader {
	if threshold <= 0 {
		threshold = DefaultMultipartThreshold
	}
	if threshold < manager.MinUploadPartSize {
		threshold = manager.MinUploadPartSize
	}
	return manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = threshold
		u.Concurrency = 1
	})
}

// ParseThreshold parses a human size such as "20MB" or "8MiB".
func ParseThreshold(s string) (int64, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid multipart threshold %q: %w", s, err)
	}
	return int64(n), nil
}

// ObjectKey derives the object key of a blob fixture: the experiment id and
// the base filename, with a trailing .gz removed for compressed inputs.
func ObjectKey(experimentID, filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), gzipSuffix)
	return experimentID + "/" + base
}

// Loader uploads blob fixtures.
type Loader struct {
	Uploader UploadAPI
}

// Upload streams the file at path into bucket/key, decompressing .gz files on
// the way. It returns the number of bytes stored.
func (l *Loader) Upload(ctx context.Context, path, bucket, key string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var body io.Reader = f
	if strings.HasSuffix(path, gzipSuffix) {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return 0, fmt.Errorf("failed to open %s as gzip: %w", path, err)
		}
		defer zr.Close()
		body = zr
	}

	cr := &countingReader{r: body}
	out, err := l.Uploader.Upload(ctx, &s3v2.PutObjectInput{
		Bucket: awsv2.String(bucket),
		Key:    awsv2.String(key),
		Body:   cr,
	})
	if err != nil {
		return cr.n, fmt.Errorf("failed to upload %s to s3://%s/%s: %w", path, bucket, key, err)
	}

	log.WithField("bucket", bucket).Debugf("uploaded %s to %s (%s)", filepath.Base(path), awsv2.ToString(out.Key), humanize.IBytes(uint64(cr.n)))
	return cr.n, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

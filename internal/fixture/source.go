// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package fixture

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/hashicorp/go-cleanhttp"
	slug "github.com/hashicorp/go-slug"

	"github.com/tfctl/inframock/internal/log"
)

// ErrNoURL is returned when a download is requested without a URL.
var ErrNoURL = errors.New("no fixture download URL configured")

// Source locates the data root. With Download set the data root is a gzip
// tarball at URL, unpacked into a temporary directory; otherwise it is Dir.
type Source struct {
	Dir      string
	Download bool
	URL      string
	Client   *http.Client
}

// Open returns the data root and a cleanup func that removes anything Open
// created. cleanup is never nil.
func (s *Source) Open(ctx context.Context) (root string, cleanup func(), err error) {
	cleanup = func() {}
	if !s.Download {
		return s.Dir, cleanup, nil
	}
	if s.URL == "" {
		return "", cleanup, ErrNoURL
	}

	client := s.Client
	if client == nil {
		client = cleanhttp.DefaultClient()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return "", cleanup, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", cleanup, fmt.Errorf("failed to download fixtures: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", cleanup, fmt.Errorf("failed to download fixtures from %s: %s", s.URL, resp.Status)
	}

	dir, err := os.MkdirTemp("", "inframock-fixtures-")
	if err != nil {
		return "", cleanup, err
	}
	cleanup = func() {
		if err := os.RemoveAll(dir); err != nil {
			log.Warnf("failed to remove %s: %v", dir, err)
		}
	}

	if err := slug.Unpack(resp.Body, dir); err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("failed to unpack fixtures: %w", err)
	}

	log.Debugf("unpacked %s into %s", s.URL, dir)
	return dir, cleanup, nil
}

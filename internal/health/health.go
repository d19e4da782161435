// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package health

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/tidwall/gjson"

	"github.com/tfctl/inframock/internal/log"
)

// ErrWrongEnvironment is returned when the API reports a cluster environment
// other than the one being seeded.
var ErrWrongEnvironment = errors.New("api is running in the wrong environment")

// Checker asks the API health endpoint which environment it serves.
type Checker struct {
	URL    string
	Client *http.Client
}

// Check returns nil when URL answers 200 with a clusterEnv equal to env.
func (c *Checker) Check(ctx context.Context, env string) error {
	client := c.Client
	if client == nil {
		client = cleanhttp.DefaultClient()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("api health check failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read api health response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("api health check at %s returned %s", c.URL, resp.Status)
	}
	if !gjson.ValidBytes(body) {
		return fmt.Errorf("api health check at %s returned invalid JSON", c.URL)
	}

	got := gjson.GetBytes(body, "clusterEnv")
	if !got.Exists() || got.String() != env {
		return fmt.Errorf("%w: want %q, got %q", ErrWrongEnvironment, env, got.String())
	}

	log.Debugf("api at %s is running in %s", c.URL, got.String())
	return nil
}

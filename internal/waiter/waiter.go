// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package waiter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-cleanhttp"

	"github.com/tfctl/inframock/internal/log"
)

// ErrUnavailable is returned when the endpoint did not answer within the
// budget.
var ErrUnavailable = errors.New("backend unavailable")

const (
	DefaultBudget          = 60 * time.Second
	defaultInitialInterval = 500 * time.Millisecond
	defaultMaxInterval     = 8 * time.Second
	defaultRequestTimeout  = 5 * time.Second
)

// Waiter polls URL until any HTTP response arrives.
type Waiter struct {
	URL    string
	Budget time.Duration
	Client *http.Client

	// InitialInterval and MaxInterval bound the backoff between attempts.
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// New returns a Waiter for url with the default intervals.
func New(url string, budget time.Duration) *Waiter {
	if budget <= 0 {
		budget = DefaultBudget
	}
	client := cleanhttp.DefaultClient()
	client.Timeout = defaultRequestTimeout
	return &Waiter{
		URL:             url,
		Budget:          budget,
		Client:          client,
		InitialInterval: defaultInitialInterval,
		MaxInterval:     defaultMaxInterval,
	}
}

// Wait blocks until the endpoint answers or the budget is spent. Any status
// code counts as an answer; only transport failures are retried.
func (w *Waiter) Wait(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = w.InitialInterval
	b.MaxInterval = w.MaxInterval
	b.MaxElapsedTime = w.Budget

	attempts := 0
	op := func() error {
		attempts++
		return w.probe(ctx)
	}
	notify := func(err error, next time.Duration) {
		log.Debugf("%s not reachable (attempt %d), retrying in %s: %v", w.URL, attempts, next, err)
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %s did not answer within %s: %w", ErrUnavailable, w.URL, w.Budget, err)
	}

	log.Debugf("%s answered after %d attempt(s)", w.URL, attempts)
	return nil
}

func (w *Waiter) probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.URL, nil)
	if err != nil {
		return backoff.Permanent(err)
	}
	resp, err := w.Client.Do(req)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	log.Tracef("%s answered with %d", w.URL, resp.StatusCode)
	return nil
}

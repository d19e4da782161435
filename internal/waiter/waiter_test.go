// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package waiter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyTransport fails the first n round trips before delegating.
type flakyTransport struct {
	n     int
	calls int
	next  http.RoundTripper
}

func (f *flakyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.calls++
	if f.calls <= f.n {
		return nil, errors.New("connection refused")
	}
	return f.next.RoundTrip(req)
}

func fastWaiter(url string, budget time.Duration) *Waiter {
	w := New(url, budget)
	w.InitialInterval = 5 * time.Millisecond
	w.MaxInterval = 20 * time.Millisecond
	return w
}

func TestWait_ImmediateAnswer(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, fastWaiter(srv.URL, time.Second).Wait(context.Background()))
	assert.Equal(t, int32(1), hits.Load())
}

func TestWait_AnyStatusCounts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	assert.NoError(t, fastWaiter(srv.URL, time.Second).Wait(context.Background()))
}

func TestWait_RetriesTransportFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ft := &flakyTransport{n: 3, next: http.DefaultTransport}
	w := fastWaiter(srv.URL, 5*time.Second)
	w.Client = &http.Client{Transport: ft}

	require.NoError(t, w.Wait(context.Background()))
	assert.Equal(t, 4, ft.calls)
}

func TestWait_GivesUpAfterBudget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	budget := 200 * time.Millisecond
	start := time.Now()
	err := fastWaiter(url, budget).Wait(context.Background())
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Less(t, elapsed, 5*time.Second)
}

func TestWait_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := fastWaiter("http://127.0.0.1:1", time.Minute)
	err := w.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_DefaultBudget(t *testing.T) {
	w := New("http://localstack:4566", 0)
	assert.Equal(t, DefaultBudget, w.Budget)
	assert.NotNil(t, w.Client)
}

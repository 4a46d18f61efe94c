// Copyright 2025 Objscope, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/objscope/objscope-go/models"
)

var errTransient = errors.New("transient")

func alwaysRetryable(error) bool { return true }

func TestRetrySucceedsAfterFailures(t *testing.T) {
	t.Parallel()

	policy := models.NewRetryPolicy(time.Millisecond, 1, 5)

	var calls int

	err := Retry(context.Background(), policy, nil, alwaysRetryable, func() error {
		calls++
		if calls < 3 {
			return errTransient
		}

		return nil
	})

	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	t.Parallel()

	policy := models.NewRetryPolicy(time.Millisecond, 1, 2)

	var calls int

	err := Retry(context.Background(), policy, nil, alwaysRetryable, func() error {
		calls++
		return errTransient
	})

	require.ErrorIs(t, err, errTransient)
	require.Equal(t, 3, calls) // initial attempt + 2 retries
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	t.Parallel()

	policy := models.NewRetryPolicy(time.Millisecond, 1, 5)
	permanent := errors.New("permanent")

	var calls int

	err := Retry(context.Background(), policy, nil, func(err error) bool {
		return !errors.Is(err, permanent)
	}, func() error {
		calls++
		return permanent
	})

	require.ErrorIs(t, err, permanent)
	require.Equal(t, 1, calls)
}

func TestRetryNilPolicyDisablesRetries(t *testing.T) {
	t.Parallel()

	var calls int

	err := Retry(context.Background(), nil, nil, alwaysRetryable, func() error {
		calls++
		return errTransient
	})

	require.ErrorIs(t, err, errTransient)
	require.Equal(t, 1, calls)
}

func TestRetryHonorsContext(t *testing.T) {
	t.Parallel()

	policy := models.NewRetryPolicy(time.Hour, 1, 5)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Retry(ctx, policy, nil, alwaysRetryable, func() error {
			return errTransient
		})
	}()

	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("retry did not observe context cancellation")
	}
}

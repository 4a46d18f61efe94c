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
	"log/slog"
	"time"

	"github.com/objscope/objscope-go/models"
)

// Retry runs op, retrying failures for which retryable returns true
// according to policy. A nil policy disables retries. Delays between
// attempts honor context cancellation.
func Retry(
	ctx context.Context,
	policy *models.RetryPolicy,
	logger *slog.Logger,
	retryable func(error) bool,
	op func() error,
) error {
	var attempt uint

	for {
		err := op()
		if err == nil {
			return nil
		}

		if policy == nil || attempt >= policy.MaxRetries || !retryable(err) {
			return err
		}

		delay := policy.Delay(attempt)

		if logger != nil {
			logger.Debug("retrying transient storage failure",
				slog.Uint64("attempt", uint64(attempt)),
				slog.Duration("delay", delay),
				slog.Any("error", err),
			)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		attempt++
	}
}

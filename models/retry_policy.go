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

package models

import (
	"fmt"
	"time"
)

// RetryPolicy defines the configuration for retry attempts of transient
// storage failures.
type RetryPolicy struct {
	// BaseTimeout is the initial delay between retry attempts.
	BaseTimeout time.Duration

	// Multiplier is used to increase the delay between subsequent retry attempts.
	// The actual delay is calculated as: BaseTimeout * (Multiplier ^ attemptNumber)
	Multiplier float64

	// MaxRetries is the maximum number of retry attempts that will be made.
	// If set to 0, no retries will be performed.
	MaxRetries uint
}

// NewRetryPolicy returns a new retry configuration with the given values.
func NewRetryPolicy(baseTimeout time.Duration, multiplier float64, maxRetries uint) *RetryPolicy {
	return &RetryPolicy{
		BaseTimeout: baseTimeout,
		Multiplier:  multiplier,
		MaxRetries:  maxRetries,
	}
}

// NewDefaultRetryPolicy returns a new RetryPolicy with default values.
func NewDefaultRetryPolicy() *RetryPolicy {
	return NewRetryPolicy(500*time.Millisecond, 2, 3)
}

// Validate checks retry policy values.
func (p *RetryPolicy) Validate() error {
	if p == nil {
		return nil
	}

	if p.BaseTimeout < 0 {
		return fmt.Errorf("base timeout must be positive")
	}

	if p.Multiplier < 1 {
		return fmt.Errorf("multiplier must be greater than or equal to 1")
	}

	if p.MaxRetries < 1 {
		return fmt.Errorf("max retries must be greater than or equal to 1")
	}

	return nil
}

// Delay returns the delay before the given zero-based attempt.
func (p *RetryPolicy) Delay(attempt uint) time.Duration {
	d := float64(p.BaseTimeout)
	for i := uint(0); i < attempt; i++ {
		d *= p.Multiplier
	}

	return time.Duration(d)
}

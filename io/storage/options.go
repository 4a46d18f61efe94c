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
	"log/slog"

	"github.com/objscope/objscope-go/models"
)

// Options contains optional parameters shared by storage backends.
type Options struct {
	// Prefix is prepended to every object key before it is sent to the
	// backend and stripped from keys returned by List.
	Prefix string

	// RetryPolicy is applied to transient backend failures.
	// If nil, failed calls are not retried.
	RetryPolicy *models.RetryPolicy

	// ZstdLevel enables transparent zstd compression of object content
	// when greater than zero. Put compresses, Get decompresses.
	// Stat and List report stored (compressed) sizes.
	ZstdLevel int

	// Logger contains logger.
	Logger *slog.Logger
}

type Opt func(*Options)

// WithPrefix sets the key prefix all operations are scoped under.
func WithPrefix(prefix string) Opt {
	return func(o *Options) {
		o.Prefix = prefix
	}
}

// WithRetryPolicy sets the retry policy for transient backend failures.
func WithRetryPolicy(policy *models.RetryPolicy) Opt {
	return func(o *Options) {
		o.RetryPolicy = policy
	}
}

// WithZstd enables transparent zstd compression of stored objects with the
// given zstd compression level.
func WithZstd(level int) Opt {
	return func(o *Options) {
		o.ZstdLevel = level
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Opt {
	return func(o *Options) {
		o.Logger = logger
	}
}

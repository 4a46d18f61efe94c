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
	"io"

	"github.com/objscope/objscope-go/models"
)

// Store describes a flat key/value object storage backend.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns a reader over the object stored under key.
	// Returns an error wrapping ErrNotFound if the object does not exist.
	// The caller is responsible for closing the returned reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Stat returns metadata of the object stored under key without
	// fetching its content.
	// Returns an error wrapping ErrNotFound if the object does not exist.
	Stat(ctx context.Context, key string) (models.ObjectInfo, error)
	// List returns metadata of all objects whose keys start with prefix,
	// in lexicographic key order.
	List(ctx context.Context, prefix string) ([]models.ObjectInfo, error)
	// Put stores the content read from body under key, overwriting any
	// existing object.
	Put(ctx context.Context, key string, body io.Reader) error
	// Delete removes the object stored under key.
	// Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
}

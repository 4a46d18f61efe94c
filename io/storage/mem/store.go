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

// Package mem provides an in-process storage.Store implementation useful for
// tests, examples and single-process prototypes. It keeps all objects in a
// map guarded by an RWMutex. Data is copied on store and retrieval to avoid
// accidental external mutation of internal buffers.
package mem

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	ioStorage "github.com/objscope/objscope-go/io/storage"
	"github.com/objscope/objscope-go/models"
)

const memType = "mem"

type object struct {
	data         []byte
	lastModified time.Time
}

// Store is an in-memory storage.Store. The zero value is not usable,
// use NewStore.
type Store struct {
	mu      sync.RWMutex
	objects map[string]object

	// Calls counts operations that reached the backend, by method name.
	// Useful in tests asserting that a call was (or was not) attempted.
	calls map[string]int
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{
		objects: make(map[string]object),
		calls:   make(map[string]int),
	}
}

var _ ioStorage.Store = (*Store)(nil)

// Get returns a reader over a copy of the stored object bytes.
func (s *Store) Get(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls["Get"]++

	obj, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ioStorage.ErrNotFound, key)
	}

	cp := make([]byte, len(obj.data))
	copy(cp, obj.data)

	return io.NopCloser(bytes.NewReader(cp)), nil
}

// Stat returns metadata of the stored object.
func (s *Store) Stat(_ context.Context, key string) (models.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls["Stat"]++

	obj, ok := s.objects[key]
	if !ok {
		return models.ObjectInfo{}, fmt.Errorf("%w: %s", ioStorage.ErrNotFound, key)
	}

	return models.ObjectInfo{
		Key:          key,
		Size:         int64(len(obj.data)),
		LastModified: obj.lastModified,
	}, nil
}

// List returns metadata of all objects under prefix in lexicographic key order.
func (s *Store) List(_ context.Context, prefix string) ([]models.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls["List"]++

	result := make([]models.ObjectInfo, 0)

	for key, obj := range s.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}

		result = append(result, models.ObjectInfo{
			Key:          key,
			Size:         int64(len(obj.data)),
			LastModified: obj.lastModified,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})

	return result, nil
}

// Put stores a copy of the content read from body under key.
func (s *Store) Put(_ context.Context, key string, body io.Reader) error {
	s.mu.Lock()
	s.calls["Put"]++
	s.mu.Unlock()

	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read object body: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[key] = object{data: data, lastModified: time.Now()}

	return nil
}

// Delete removes the object stored under key.
// Deleting a missing object is not an error.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls["Delete"]++
	delete(s.objects, key)

	return nil
}

// Calls returns how many times the given backend method was invoked.
func (s *Store) Calls(method string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.calls[method]
}

// GetType returns the `mem` type of storage. Used in logging.
func (s *Store) GetType() string {
	return memType
}

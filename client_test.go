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

package objscope

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/semaphore"

	ioStorage "github.com/objscope/objscope-go/io/storage"
	"github.com/objscope/objscope-go/io/storage/mem"
)

func TestNewClientSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := testConfig()

	set, err := NewClientSet(ctx, cfg, WithID("test-set"))
	require.NoError(t, err)

	require.Equal(t, ScopeRead, set.Read.Scope())
	require.Equal(t, ScopeWrite, set.Write.Scope())
	require.Equal(t, "test-set", set.ID())

	// Each client carries its own credential pair and the shared account id.
	require.Equal(t, cfg.Read, set.Read.credentials)
	require.Equal(t, cfg.Write, set.Write.credentials)
	require.NotEqual(t, set.Read.credentials, set.Write.credentials)
	require.Equal(t, cfg.AccountID, set.Read.AccountID())
	require.Equal(t, cfg.AccountID, set.Write.AccountID())

	// Scopes own disjoint backend stores.
	require.NotSame(t, set.Read.store, set.Write.store)
}

func TestNewClientSetInvalidConfig(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	cfg := testConfig()
	cfg.Write.SecretAccessKey = ""

	set, err := NewClientSet(ctx, cfg)
	require.ErrorIs(t, err, ErrInvalidConfig)
	require.Nil(t, set)

	set, err = NewClientSet(ctx, nil)
	require.ErrorIs(t, err, ErrInvalidConfig)
	require.Nil(t, set)
}

func TestNewClientRequiresStore(t *testing.T) {
	t.Parallel()

	client, err := NewClient(ScopeRead, nil)
	require.Error(t, err)
	require.Nil(t, client)
}

func TestReadClientBlocksMutations(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := mem.NewStore()

	client, err := NewClient(ScopeRead, store)
	require.NoError(t, err)

	err = client.Put(ctx, "blobs/1", strings.NewReader("payload"))
	require.ErrorIs(t, err, ErrReadOnly)

	err = client.Delete(ctx, "blobs/1")
	require.ErrorIs(t, err, ErrReadOnly)

	// The guard rejects locally: the backend never saw the calls.
	require.Zero(t, store.Calls("Put"))
	require.Zero(t, store.Calls("Delete"))
}

func TestReadClientAllowsFetchAndList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := mem.NewStore()
	require.NoError(t, store.Put(ctx, "blobs/1", strings.NewReader("payload")))

	client, err := NewClient(ScopeRead, store)
	require.NoError(t, err)

	rc, err := client.Get(ctx, "blobs/1")
	require.NoError(t, err)

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	require.Equal(t, "payload", string(data))

	info, err := client.Stat(ctx, "blobs/1")
	require.NoError(t, err)
	require.Equal(t, int64(len("payload")), info.Size)

	list, err := client.List(ctx, "blobs/")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "blobs/1", list[0].Key)

	_, err = client.Get(ctx, "blobs/absent")
	require.ErrorIs(t, err, ioStorage.ErrNotFound)
}

func TestWriteClientAllowsMutations(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := mem.NewStore()

	writer, err := NewClient(ScopeWrite, store)
	require.NoError(t, err)

	reader, err := NewClient(ScopeRead, store)
	require.NoError(t, err)

	require.NoError(t, writer.Put(ctx, "blobs/1", strings.NewReader("payload")))
	require.Equal(t, 1, store.Calls("Put"))

	// The write scope is a superset: its read operations reach the backend too.
	rc, err := writer.Get(ctx, "blobs/1")
	require.NoError(t, err)

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	require.Equal(t, "payload", string(data))
	require.Equal(t, 1, store.Calls("Get"))

	info, err := writer.Stat(ctx, "blobs/1")
	require.NoError(t, err)
	require.Equal(t, int64(len("payload")), info.Size)
	require.Equal(t, 1, store.Calls("Stat"))

	list, err := writer.List(ctx, "blobs/")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, 1, store.Calls("List"))

	rc, err = reader.Get(ctx, "blobs/1")
	require.NoError(t, err)

	data, err = io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	require.Equal(t, "payload", string(data))

	require.NoError(t, writer.Delete(ctx, "blobs/1"))
	require.Equal(t, 1, store.Calls("Delete"))

	_, err = reader.Get(ctx, "blobs/1")
	require.ErrorIs(t, err, ioStorage.ErrNotFound)
}

func TestClientRequestLimiter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := mem.NewStore()
	require.NoError(t, store.Put(ctx, "blobs/1", strings.NewReader("payload")))

	limiter := semaphore.NewWeighted(1)
	require.NoError(t, limiter.Acquire(ctx, 1))

	client, err := NewClient(ScopeRead, store, WithRequestLimiter(limiter))
	require.NoError(t, err)

	// The single slot is held, so the operation must give up when its
	// context expires.
	timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()

	_, err = client.Get(timeoutCtx, "blobs/1")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	limiter.Release(1)

	rc, err := client.Get(ctx, "blobs/1")
	require.NoError(t, err)
	require.NoError(t, rc.Close())
}

func TestScope(t *testing.T) {
	t.Parallel()

	require.False(t, ScopeRead.CanWrite())
	require.True(t, ScopeWrite.CanWrite())
	require.Equal(t, "read", ScopeRead.String())
	require.Equal(t, "write", ScopeWrite.String())
	require.Equal(t, "unknown", Scope(42).String())
}

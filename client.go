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
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/objscope/objscope-go/internal/logging"
	ioStorage "github.com/objscope/objscope-go/io/storage"
	awsS3 "github.com/objscope/objscope-go/io/storage/aws/s3"
	"github.com/objscope/objscope-go/models"
)

// Client is a storage handle bound to exactly one scope and one credential
// pair. Fetch and list operations are always permitted; mutating operations
// are rejected locally with ErrReadOnly unless the client is write-scoped.
// Immutable after construction and safe for concurrent use.
type Client struct {
	scope Scope
	store ioStorage.Store

	limiter *semaphore.Weighted
	logger  *slog.Logger

	accountID   string
	credentials Credentials
}

// ClientOpt is a functional option that allows configuring a [Client] or a
// [ClientSet].
type ClientOpt func(*clientOptions)

type clientOptions struct {
	id          string
	logger      *slog.Logger
	limiter     *semaphore.Weighted
	storageOpts []ioStorage.Opt
}

// WithID sets the identifier used in log attributes.
func WithID(id string) ClientOpt {
	return func(o *clientOptions) {
		o.id = id
	}
}

// WithLogger sets the logger clients will log to.
func WithLogger(logger *slog.Logger) ClientOpt {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithRequestLimiter sets a semaphore that is used to limit the number of
// concurrent storage operations. A [ClientSet] shares the limiter between
// its read and write clients.
func WithRequestLimiter(sem *semaphore.Weighted) ClientOpt {
	return func(o *clientOptions) {
		o.limiter = sem
	}
}

// WithStorageOptions sets options passed through to the storage backends
// built by [NewClientSet]. Is not used by [NewClient], which receives an
// already constructed store.
func WithStorageOptions(opts ...ioStorage.Opt) ClientOpt {
	return func(o *clientOptions) {
		o.storageOpts = append(o.storageOpts, opts...)
	}
}

func newClientOptions(opts []ClientOpt) *clientOptions {
	options := &clientOptions{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(options)
	}

	if options.id == "" {
		options.id = uuid.NewString()
	}

	options.logger = logging.WithClientSet(options.logger, options.id)

	return options
}

// NewClient wraps an already constructed storage backend in a scoped handle.
// Useful for non-S3 backends and for tests; most callers want [NewClientSet].
func NewClient(scope Scope, store ioStorage.Store, opts ...ClientOpt) (*Client, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}

	options := newClientOptions(opts)

	return newClient(scope, store, "", Credentials{}, options), nil
}

func newClient(
	scope Scope, store ioStorage.Store, accountID string, credentials Credentials, options *clientOptions,
) *Client {
	return &Client{
		scope:       scope,
		store:       store,
		limiter:     options.limiter,
		logger:      logging.WithScope(options.logger, scope.String()),
		accountID:   accountID,
		credentials: credentials,
	}
}

// Scope returns the permission class the client is bound to.
func (c *Client) Scope() Scope {
	return c.scope
}

// AccountID returns the storage account the client is bound to.
func (c *Client) AccountID() string {
	return c.accountID
}

// Get returns a reader over the object stored under key.
// Returns an error wrapping storage.ErrNotFound if the object does not exist.
func (c *Client) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := c.acquire(ctx); err != nil {
		return nil, err
	}
	defer c.release()

	return c.store.Get(ctx, key)
}

// Stat returns metadata of the object stored under key.
func (c *Client) Stat(ctx context.Context, key string) (models.ObjectInfo, error) {
	if err := c.acquire(ctx); err != nil {
		return models.ObjectInfo{}, err
	}
	defer c.release()

	return c.store.Stat(ctx, key)
}

// List returns metadata of all objects under prefix in lexicographic key order.
func (c *Client) List(ctx context.Context, prefix string) ([]models.ObjectInfo, error) {
	if err := c.acquire(ctx); err != nil {
		return nil, err
	}
	defer c.release()

	return c.store.List(ctx, prefix)
}

// Put stores the content read from body under key.
// Fails with ErrReadOnly on a read-scoped client, before body is read and
// before any request to the backend is made.
func (c *Client) Put(ctx context.Context, key string, body io.Reader) error {
	if err := c.guardWrite("put", key); err != nil {
		return err
	}

	if err := c.acquire(ctx); err != nil {
		return err
	}
	defer c.release()

	return c.store.Put(ctx, key, body)
}

// Delete removes the object stored under key.
// Fails with ErrReadOnly on a read-scoped client, before any request to the
// backend is made.
func (c *Client) Delete(ctx context.Context, key string) error {
	if err := c.guardWrite("delete", key); err != nil {
		return err
	}

	if err := c.acquire(ctx); err != nil {
		return err
	}
	defer c.release()

	return c.store.Delete(ctx, key)
}

func (c *Client) guardWrite(op, key string) error {
	if c.scope.CanWrite() {
		return nil
	}

	c.logger.Warn("blocked mutating operation",
		slog.String("op", op),
		slog.String("key", key),
	)

	return fmt.Errorf("%s %s: %w", op, key, ErrReadOnly)
}

func (c *Client) acquire(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}

	return c.limiter.Acquire(ctx, 1)
}

func (c *Client) release() {
	if c.limiter != nil {
		c.limiter.Release(1)
	}
}

// ClientSet holds the two scoped clients built from one validated Config.
// Example usage:
//
//	cfg, err := objscope.LoadFile(".env.yaml")
//	if err != nil {
//		// handle error
//	}
//
//	set, err := objscope.NewClientSet(ctx, cfg)
//	if err != nil {
//		// handle error
//	}
//
//	rc, err := set.Read.Get(ctx, "checkpoints/latest")
//	// ...
//	err = set.Write.Put(ctx, "checkpoints/latest", data)
type ClientSet struct {
	// Read is authorized for fetch and list operations only.
	Read *Client
	// Write is authorized for fetch, list, put and delete operations.
	Write *Client

	id     string
	logger *slog.Logger
}

// NewClientSet validates cfg and builds a read-scoped and a write-scoped
// client, each parameterized with its own credential pair and the shared
// account, bucket and endpoint. Construction is local: no request is made to
// the backend until an operation is invoked.
//
// options:
//   - [WithID] to set an identifier for the set, used in logging.
//   - [WithLogger] to set a logger that the clients will log to.
//   - [WithRequestLimiter] to bound concurrent storage operations.
//   - [WithStorageOptions] to configure the underlying storage backends.
func NewClientSet(ctx context.Context, cfg *Config, opts ...ClientOpt) (*ClientSet, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := newClientOptions(opts)

	readStore, err := newScopedStore(ctx, cfg, cfg.Read, options)
	if err != nil {
		return nil, fmt.Errorf("failed to build read store: %w", err)
	}

	writeStore, err := newScopedStore(ctx, cfg, cfg.Write, options)
	if err != nil {
		return nil, fmt.Errorf("failed to build write store: %w", err)
	}

	set := &ClientSet{
		Read:   newClient(ScopeRead, readStore, cfg.AccountID, cfg.Read, options),
		Write:  newClient(ScopeWrite, writeStore, cfg.AccountID, cfg.Write, options),
		id:     options.id,
		logger: options.logger,
	}

	set.logger.Debug("built client set",
		slog.String("account_id", cfg.AccountID),
		slog.String("bucket", cfg.bucketName()),
		slog.Any("read", cfg.Read),
		slog.Any("write", cfg.Write),
	)

	return set, nil
}

// ID returns the identifier of the set, used in logging.
func (s *ClientSet) ID() string {
	return s.id
}

func newScopedStore(
	ctx context.Context, cfg *Config, credentials Credentials, options *clientOptions,
) (ioStorage.Store, error) {
	client, err := awsS3.NewClient(ctx, awsS3.ClientConfig{
		AccountID:       cfg.AccountID,
		Region:          cfg.Region,
		Endpoint:        cfg.Endpoint,
		AccessKeyID:     credentials.AccessKeyID,
		SecretAccessKey: credentials.SecretAccessKey,
	})
	if err != nil {
		return nil, err
	}

	storageOpts := append(
		[]ioStorage.Opt{ioStorage.WithLogger(options.logger)},
		options.storageOpts...,
	)

	return awsS3.NewStore(client, cfg.bucketName(), storageOpts...)
}

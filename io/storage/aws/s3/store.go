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

package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsHttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/klauspost/compress/zstd"

	ioStorage "github.com/objscope/objscope-go/io/storage"
	"github.com/objscope/objscope-go/models"
)

// Store implements storage.Store over a single bucket of an S3-compatible
// service. Safe for concurrent use.
type Store struct {
	// Optional parameters.
	ioStorage.Options

	client Client

	// bucketName contains the name of the bucket to operate on.
	bucketName string
}

// NewStore returns a new store over the given bucket.
// Can be called with WithPrefix, WithRetryPolicy, WithZstd, WithLogger - all optional.
// Construction is local: the bucket is not probed.
func NewStore(client Client, bucketName string, opts ...ioStorage.Opt) (*Store, error) {
	s := &Store{}

	for _, opt := range opts {
		opt(&s.Options)
	}

	if client == nil {
		return nil, fmt.Errorf("client is required")
	}

	if bucketName == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	if err := s.RetryPolicy.Validate(); err != nil {
		return nil, fmt.Errorf("retry policy invalid: %w", err)
	}

	if s.ZstdLevel < 0 {
		return nil, fmt.Errorf("zstd level must not be negative, got %d", s.ZstdLevel)
	}

	if s.Prefix != "" && !strings.HasSuffix(s.Prefix, "/") {
		s.Prefix += "/"
	}

	if s.Logger == nil {
		s.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s.Logger = s.Logger.With(slog.String("type", s3type), slog.String("bucket", bucketName))

	s.client = client
	s.bucketName = bucketName

	return s, nil
}

// Get returns a reader over the object stored under key.
func (s *Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	fullKey := s.fullKey(key)

	var object *s3.GetObjectOutput

	err := ioStorage.Retry(ctx, s.RetryPolicy, s.Logger, isTransient, func() error {
		var opErr error
		object, opErr = s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: &s.bucketName,
			Key:    &fullKey,
		})

		return opErr
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ioStorage.ErrNotFound, key)
		}

		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}

	if s.ZstdLevel > 0 {
		decoder, err := zstd.NewReader(object.Body)
		if err != nil {
			_ = object.Body.Close()
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}

		return &decodeReadCloser{decoder: decoder, underlying: object.Body}, nil
	}

	return object.Body, nil
}

// Stat returns metadata of the object stored under key.
func (s *Store) Stat(ctx context.Context, key string) (models.ObjectInfo, error) {
	fullKey := s.fullKey(key)

	var head *s3.HeadObjectOutput

	err := ioStorage.Retry(ctx, s.RetryPolicy, s.Logger, isTransient, func() error {
		var opErr error
		head, opErr = s.client.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: &s.bucketName,
			Key:    &fullKey,
		})

		return opErr
	})
	if err != nil {
		if isNotFound(err) {
			return models.ObjectInfo{}, fmt.Errorf("%w: %s", ioStorage.ErrNotFound, key)
		}

		return models.ObjectInfo{}, fmt.Errorf("failed to stat object %s: %w", key, err)
	}

	info := models.ObjectInfo{Key: key}

	if head.ContentLength != nil {
		info.Size = *head.ContentLength
	}

	if head.LastModified != nil {
		info.LastModified = *head.LastModified
	}

	return info, nil
}

// List returns metadata of all objects under prefix in lexicographic key order.
func (s *Store) List(ctx context.Context, prefix string) ([]models.ObjectInfo, error) {
	fullPrefix := s.Prefix + prefix

	var (
		result            []models.ObjectInfo
		continuationToken *string
	)

	for {
		var page *s3.ListObjectsV2Output

		err := ioStorage.Retry(ctx, s.RetryPolicy, s.Logger, isTransient, func() error {
			var opErr error
			page, opErr = s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
				Bucket:            &s.bucketName,
				Prefix:            &fullPrefix,
				ContinuationToken: continuationToken,
			})

			return opErr
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list objects under %s: %w", prefix, err)
		}

		for _, object := range page.Contents {
			if object.Key == nil {
				continue
			}

			info := models.ObjectInfo{
				Key: strings.TrimPrefix(*object.Key, s.Prefix),
			}

			if object.Size != nil {
				info.Size = *object.Size
			}

			if object.LastModified != nil {
				info.LastModified = *object.LastModified
			}

			result = append(result, info)
		}

		continuationToken = page.NextContinuationToken
		if continuationToken == nil {
			break
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})

	return result, nil
}

// Put stores the content read from body under key, overwriting any existing
// object. The body is buffered so failed uploads can be retried.
func (s *Store) Put(ctx context.Context, key string, body io.Reader) error {
	fullKey := s.fullKey(key)

	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read object body: %w", err)
	}

	if s.ZstdLevel > 0 {
		encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(s.ZstdLevel)))
		if err != nil {
			return fmt.Errorf("failed to create zstd writer: %w", err)
		}

		data = encoder.EncodeAll(data, nil)

		if err := encoder.Close(); err != nil {
			return fmt.Errorf("failed to close zstd writer: %w", err)
		}
	}

	err = ioStorage.Retry(ctx, s.RetryPolicy, s.Logger, isTransient, func() error {
		_, opErr := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        &s.bucketName,
			Key:           &fullKey,
			Body:          bytes.NewReader(data),
			ContentLength: aws.Int64(int64(len(data))),
		})

		return opErr
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", key, err)
	}

	s.Logger.Debug("uploaded object",
		slog.String("key", key),
		slog.Int("size", len(data)),
	)

	return nil
}

// Delete removes the object stored under key.
// Deleting a missing object is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	fullKey := s.fullKey(key)

	err := ioStorage.Retry(ctx, s.RetryPolicy, s.Logger, isTransient, func() error {
		_, opErr := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: &s.bucketName,
			Key:    &fullKey,
		})

		return opErr
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}

	return nil
}

var _ ioStorage.Store = (*Store)(nil)

// GetType returns the `s3type` type of storage. Used in logging.
func (s *Store) GetType() string {
	return s3type
}

func (s *Store) fullKey(key string) string {
	return s.Prefix + key
}

// decodeReadCloser decompresses the underlying object stream on read.
type decodeReadCloser struct {
	decoder    *zstd.Decoder
	underlying io.ReadCloser
}

func (d *decodeReadCloser) Read(p []byte) (int, error) {
	return d.decoder.Read(p)
}

func (d *decodeReadCloser) Close() error {
	d.decoder.Close()
	return d.underlying.Close()
}

// isNotFound reports whether err describes a missing object or bucket.
func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			return true
		}
	}

	var httpErr *awsHttp.ResponseError

	return errors.As(err, &httpErr) && httpErr.HTTPStatusCode() == http.StatusNotFound
}

// isTransient reports whether err is worth retrying.
// Throttling and server-side failures are transient, everything else is not.
func isTransient(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "SlowDown", "RequestTimeout", "InternalError", "ServiceUnavailable":
			return true
		}
	}

	var httpErr *awsHttp.ResponseError
	if errors.As(err, &httpErr) {
		code := httpErr.HTTPStatusCode()
		return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
	}

	return false
}

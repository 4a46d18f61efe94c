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
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const s3type = "s3"

// defaultRegion is the region S3-compatible services that don't use regions
// (Cloudflare R2) expect.
const defaultRegion = "auto"

// Client is an interface for *s3.Client. Used for testing purposes.
type Client interface {
	// GetObject retrieves an object from a bucket.
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options),
	) (*s3.GetObjectOutput, error)
	// HeadObject retrieves metadata from an object without returning the object itself.
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options),
	) (*s3.HeadObjectOutput, error)
	// ListObjectsV2 returns some or all objects in a bucket with pagination.
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options),
	) (*s3.ListObjectsV2Output, error)
	// PutObject adds an object to a bucket.
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options),
	) (*s3.PutObjectOutput, error)
	// DeleteObject removes an object from a bucket.
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options),
	) (*s3.DeleteObjectOutput, error)
}

// ClientConfig contains parameters for building a client for an
// S3-compatible service.
type ClientConfig struct {
	// AccountID identifies the storage account. Used to derive the default
	// endpoint when Endpoint is empty.
	AccountID string
	// Region of the bucket. Defaults to "auto".
	Region string
	// Endpoint overrides the service endpoint. If empty, the Cloudflare R2
	// endpoint for AccountID is used.
	Endpoint string
	// AccessKeyID and SecretAccessKey are the static credential pair the
	// client signs requests with.
	AccessKeyID     string
	SecretAccessKey string
}

// Endpoint returns the endpoint the client will be built against.
func (c *ClientConfig) endpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}

	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", c.AccountID)
}

// NewClient returns a new S3 client parameterized with a static credential
// pair. Construction is local: no request is made to the service.
func NewClient(ctx context.Context, clientConfig ClientConfig) (*s3.Client, error) {
	if clientConfig.AccessKeyID == "" || clientConfig.SecretAccessKey == "" {
		return nil, fmt.Errorf("access key id and secret access key are required")
	}

	if clientConfig.AccountID == "" && clientConfig.Endpoint == "" {
		return nil, fmt.Errorf("account id is required to derive the endpoint")
	}

	region := clientConfig.Region
	if region == "" {
		region = defaultRegion
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			clientConfig.AccessKeyID,
			clientConfig.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	endpoint := clientConfig.endpoint()

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return client, nil
}

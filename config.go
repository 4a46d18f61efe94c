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
	"fmt"
	"log/slog"
)

const redacted = "[REDACTED]"

// Credentials is a single static access-key pair for an S3-compatible
// service. The secret is redacted in formatted output and log records;
// YAML/JSON marshaling keeps the real value, as the configuration file
// itself is the trust boundary.
type Credentials struct {
	// AccessKeyID identifies the key pair.
	AccessKeyID string `yaml:"access_key_id" json:"access_key_id"`
	// SecretAccessKey is the signing secret. Never logged.
	SecretAccessKey string `yaml:"secret_access_key" json:"secret_access_key"`
}

func (c Credentials) validate() error {
	if c.AccessKeyID == "" {
		return fmt.Errorf("access key id is required")
	}

	if c.SecretAccessKey == "" {
		return fmt.Errorf("secret access key is required")
	}

	return nil
}

func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{AccessKeyID: %s, SecretAccessKey: %s}", c.AccessKeyID, redacted)
}

// GoString redacts the secret from %#v output.
func (c Credentials) GoString() string {
	return c.String()
}

// LogValue implements slog.LogValuer, redacting the secret from log records.
func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("access_key_id", c.AccessKeyID),
		slog.String("secret_access_key", redacted),
	)
}

// Config contains the account identity and the two independently scoped
// credential pairs for one S3-compatible storage account. It is typically
// materialized by an external process (CI secret injection, a secret
// manager) and loaded with Load, LoadFile or LoadEnv.
type Config struct {
	// AccountID identifies the storage account. Required.
	AccountID string `yaml:"account_id" json:"account_id"`
	// Bucket is the bucket all clients operate on.
	// Defaults to AccountID when empty.
	Bucket string `yaml:"bucket,omitempty" json:"bucket,omitempty"`
	// Region of the bucket. Defaults to "auto" when empty.
	Region string `yaml:"region,omitempty" json:"region,omitempty"`
	// Endpoint overrides the service endpoint. When empty, the Cloudflare
	// R2 endpoint for AccountID is used.
	Endpoint string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	// Read is the credential pair for the read-scoped client. Required,
	// even if identical in value to Write.
	Read Credentials `yaml:"read" json:"read"`
	// Write is the credential pair for the write-scoped client. Required.
	Write Credentials `yaml:"write" json:"write"`
}

// Validate checks that all required fields are present and non-empty.
// Defaults are not applied here, so a validated Config round-trips through
// Save and Load field for field.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	if c.AccountID == "" {
		return fmt.Errorf("%w: account id is required", ErrInvalidConfig)
	}

	if err := c.Read.validate(); err != nil {
		return fmt.Errorf("%w: read credentials: %v", ErrInvalidConfig, err)
	}

	if err := c.Write.validate(); err != nil {
		return fmt.Errorf("%w: write credentials: %v", ErrInvalidConfig, err)
	}

	return nil
}

// bucketName returns the bucket clients operate on.
func (c *Config) bucketName() string {
	if c.Bucket != "" {
		return c.Bucket
	}

	return c.AccountID
}

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
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultEnvPrefix is the environment variable prefix LoadEnv uses when none
// is given.
const DefaultEnvPrefix = "R2"

// Load decodes a YAML configuration document from r and validates it.
// Unknown keys are rejected. Validation is all-or-nothing: on any failure no
// Config is returned.
func Load(r io.Reader) (*Config, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var cfg Config
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFile loads a configuration document from the file at path, typically
// the .env.yaml materialized by an external process from secret material.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	cfg, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}

	return cfg, nil
}

// LoadEnv builds a configuration from environment variables:
//
//	<P>_ACCOUNT_ID
//	<P>_BUCKET                  (optional)
//	<P>_REGION                  (optional)
//	<P>_ENDPOINT                (optional)
//	<P>_READ_ACCESS_KEY_ID
//	<P>_READ_SECRET_ACCESS_KEY
//	<P>_WRITE_ACCESS_KEY_ID
//	<P>_WRITE_SECRET_ACCESS_KEY
//
// where <P> is the given prefix, DefaultEnvPrefix if empty.
func LoadEnv(prefix string) (*Config, error) {
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}

	env := func(name string) string {
		return os.Getenv(prefix + "_" + name)
	}

	cfg := &Config{
		AccountID: env("ACCOUNT_ID"),
		Bucket:    env("BUCKET"),
		Region:    env("REGION"),
		Endpoint:  env("ENDPOINT"),
		Read: Credentials{
			AccessKeyID:     env("READ_ACCESS_KEY_ID"),
			SecretAccessKey: env("READ_SECRET_ACCESS_KEY"),
		},
		Write: Credentials{
			AccessKeyID:     env("WRITE_ACCESS_KEY_ID"),
			SecretAccessKey: env("WRITE_SECRET_ACCESS_KEY"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save encodes the configuration as YAML to w. The document contains key
// material in plaintext; w must stay inside the trust boundary.
func (c *Config) Save(w io.Writer) error {
	if err := c.Validate(); err != nil {
		return err
	}

	encoder := yaml.NewEncoder(w)

	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return encoder.Close()
}

// SaveFile writes the configuration to the file at path with owner-only
// permissions. An invalid configuration fails before the file is touched,
// so a failed save never destroys an existing document.
func (c *Config) SaveFile(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	if err := c.Save(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to save config file %s: %w", path, err)
	}

	return f.Close()
}

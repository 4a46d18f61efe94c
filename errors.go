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

import "errors"

var (
	// ErrInvalidConfig describes a missing, empty or malformed configuration.
	// Every configuration loading and validation failure wraps it.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrReadOnly is returned when a mutating operation is attempted through
	// a read-scoped client. The operation is rejected locally, before any
	// request to the backend is made.
	ErrReadOnly = errors.New("client is read-scoped")
)

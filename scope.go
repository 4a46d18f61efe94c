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

// Scope is the permission class bound to a credential pair. It constrains
// which operations a client may invoke, independent of what the backend
// would allow the credentials to do.
type Scope int

const (
	// ScopeRead permits fetch and list operations only.
	ScopeRead Scope = iota
	// ScopeWrite permits fetch, list, put and delete operations.
	ScopeWrite
)

// CanWrite reports whether mutating operations are permitted.
func (s Scope) CanWrite() bool {
	return s == ScopeWrite
}

func (s Scope) String() string {
	switch s {
	case ScopeRead:
		return "read"
	case ScopeWrite:
		return "write"
	default:
		return "unknown"
	}
}

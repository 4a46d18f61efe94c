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

package models

import "time"

// ObjectInfo describes a single object in storage.
type ObjectInfo struct {
	// Key is the full object key, without the store prefix.
	Key string
	// Size is the object size in bytes as reported by the backend.
	// For compressed objects this is the stored (compressed) size.
	Size int64
	// LastModified is the backend modification timestamp.
	// Zero if the backend did not report one.
	LastModified time.Time
}

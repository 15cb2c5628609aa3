// Copyright 2024 The Cockroach Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package arenamap

import "errors"

var (
	// ErrInvalidArgument is returned for an empty key or a nonsensical
	// capacity.
	ErrInvalidArgument = errors.New("arenamap: invalid argument")
	// ErrExhausted is returned when the arena has no free node and the map is
	// not permitted to grow any further.
	ErrExhausted = errors.New("arenamap: arena exhausted")
	// ErrAllocation is returned when the Allocator fails to provide backing
	// storage. The map is left exactly as it was before the call.
	ErrAllocation = errors.New("arenamap: allocation failed")
	// ErrClosed is returned by mutating operations on a closed map.
	ErrClosed = errors.New("arenamap: map is closed")
)

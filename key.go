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

import (
	"bytes"
	"fmt"
	"unsafe"
)

// inlineKeySize is the size of a machine pointer. Keys no longer than this
// are stored inside the node itself; longer keys are copied into a buffer
// obtained from the map's Allocator.
const inlineKeySize = int(unsafe.Sizeof(uintptr(0)))

// nodeKey is a tagged variant holding either an inline key or an owned heap
// buffer. The tag is the length: n <= inlineKeySize selects inline.
type nodeKey struct {
	inline [inlineKeySize]byte
	heap   []byte
	n      uint32
}

func (k *nodeKey) isHeap() bool {
	return int(k.n) > inlineKeySize
}

// bytes returns the stored key. The result aliases the node and must not be
// modified.
func (k *nodeKey) bytes() []byte {
	if k.isHeap() {
		return k.heap[:k.n]
	}
	return k.inline[:k.n]
}

func (k *nodeKey) equal(key []byte) bool {
	return int(k.n) == len(key) && bytes.Equal(k.bytes(), key)
}

// makeKey copies key into k, allocating a heap buffer for long keys. On
// error k is left zeroed and nothing has been allocated.
func (m *Map[V]) makeKey(k *nodeKey, key []byte) error {
	if len(key) <= inlineKeySize {
		*k = nodeKey{n: uint32(len(key))}
		copy(k.inline[:], key)
		return nil
	}
	buf, err := m.allocator.AllocKey(len(key))
	if err != nil {
		*k = nodeKey{}
		return fmt.Errorf("%w: key buffer of %d bytes: %v", ErrAllocation, len(key), err)
	}
	if len(buf) < len(key) {
		m.allocator.FreeKey(buf)
		*k = nodeKey{}
		return fmt.Errorf("%w: key buffer of %d bytes, got %d", ErrAllocation, len(key), len(buf))
	}
	*k = nodeKey{heap: buf, n: uint32(len(key))}
	copy(k.heap, key)
	return nil
}

// releaseKey returns an owned key buffer to the allocator and zeroes k. It
// is called exactly once for every stored key, from Erase, Clear or Close.
func (m *Map[V]) releaseKey(k *nodeKey) {
	if k.isHeap() {
		m.allocator.FreeKey(k.heap)
	}
	*k = nodeKey{}
}

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

// option provide an interface to do work on Map while it is being created.
type option[V any] interface {
	apply(m *Map[V])
}

type hasherOption[V any] struct {
	hasher Hasher
}

func (op hasherOption[V]) apply(m *Map[V]) {
	if op.hasher != nil {
		m.hasher = op.hasher
	}
}

// WithHasher is an option to specify the hash function to use for a Map[V].
// The default is XX.
func WithHasher[V any](hasher Hasher) option[V] {
	return hasherOption[V]{hasher}
}

type maxCapacityOption[V any] struct {
	n int
}

func (op maxCapacityOption[V]) apply(m *Map[V]) {
	m.maxCapacity = op.n
}

// WithMaxCapacity is an option to cap the total number of nodes the map may
// ever allocate, whether by automatic growth or by Resize. The cap is rounded
// down to a power of two. Zero means unbounded.
func WithMaxCapacity[V any](n int) option[V] {
	return maxCapacityOption[V]{n}
}

type growthLimitOption[V any] struct {
	n int
}

func (op growthLimitOption[V]) apply(m *Map[V]) {
	m.growthLimit = op.n
}

// WithGrowthLimit is an option to stop automatic growth once the capacity
// reaches n (rounded down to a power of two). An explicit Resize may still
// grow the map up to its max capacity. Zero means unbounded.
func WithGrowthLimit[V any](n int) option[V] {
	return growthLimitOption[V]{n}
}

type noGrowthOption[V any] struct{}

func (noGrowthOption[V]) apply(m *Map[V]) {
	m.noGrowth = true
}

// WithoutGrowth is an option to disable automatic growth: once the arena is
// exhausted, Insert fails with ErrExhausted.
func WithoutGrowth[V any]() option[V] {
	return noGrowthOption[V]{}
}

// Allocator specifies an interface for allocating and releasing memory used
// by a Map. The default allocator utilizes Go's builtin make() and allows the
// GC to reclaim memory.
//
// If the allocator is manually managing memory and requires that storage be
// freed then Map.Close must be called in order to ensure the Free methods are
// called. An Alloc method reports failure by returning an error, in which
// case the operation that needed the memory fails without modifying the map.
type Allocator[V any] interface {
	// AllocNodes should return a slice equivalent to make([]Node[V], n).
	AllocNodes(n int) ([]Node[V], error)

	// AllocBuckets should return a slice equivalent to make([]Bucket, n).
	AllocBuckets(n int) ([]Bucket, error)

	// AllocKey should return a slice equivalent to make([]byte, n). It is
	// only called for keys that do not fit inline in a node.
	AllocKey(n int) ([]byte, error)

	// FreeNodes can optionally release the memory associated with the
	// supplied slice that is guaranteed to have been allocated by AllocNodes.
	FreeNodes(v []Node[V])

	// FreeBuckets can optionally release the memory associated with the
	// supplied slice that is guaranteed to have been allocated by
	// AllocBuckets.
	FreeBuckets(v []Bucket)

	// FreeKey can optionally release the memory associated with the supplied
	// slice that is guaranteed to have been allocated by AllocKey. Each key
	// buffer is freed exactly once.
	FreeKey(v []byte)
}

type defaultAllocator[V any] struct{}

func (defaultAllocator[V]) AllocNodes(n int) ([]Node[V], error) {
	return make([]Node[V], n), nil
}

func (defaultAllocator[V]) AllocBuckets(n int) ([]Bucket, error) {
	return make([]Bucket, n), nil
}

func (defaultAllocator[V]) AllocKey(n int) ([]byte, error) {
	return make([]byte, n), nil
}

func (defaultAllocator[V]) FreeNodes(v []Node[V]) {
}

func (defaultAllocator[V]) FreeBuckets(v []Bucket) {
}

func (defaultAllocator[V]) FreeKey(v []byte) {
}

type allocatorOption[V any] struct {
	allocator Allocator[V]
}

func (op allocatorOption[V]) apply(m *Map[V]) {
	if op.allocator != nil {
		m.allocator = op.allocator
	}
}

// WithAllocator is an option for specify the Allocator to use for a Map[V].
func WithAllocator[V any](allocator Allocator[V]) option[V] {
	return allocatorOption[V]{allocator}
}

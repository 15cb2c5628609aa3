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

// Package arenamap implements a hash table with separate chaining whose
// entries live in a pre-allocated node arena.
//
// # Layout
//
// A Map owns two slices of equal, power-of-two length: the bucket array and
// the node arena. A key's 32-bit digest selects a bucket with hash&mask, and
// each bucket anchors a singly-linked chain of nodes. Every bucket records
// both the head and the tail of its chain so that insertion appends in O(1).
//
// Nodes that are not on any chain are threaded through an intrusive free
// list. The free list and the bucket chains always partition the arena:
// every node is on exactly one of them. Insert pops the free list and Erase
// pushes onto it, so neither allocates a node. Clear splices each chain onto
// the free list in O(1) per bucket, which makes it O(capacity) rather than
// O(size).
//
// Chain and free-list links are 1-based indexes into the arena, not
// pointers. Growing the arena therefore only copies nodes into a larger
// slice; no link needs to be rewritten. The digest of every key is cached in
// its node, so a resize rehashes without calling the Hasher.
//
// # Keys
//
// Keys are arbitrary non-empty byte strings. Keys no longer than a pointer
// are stored inline in the node; longer keys are copied into a buffer from
// the Allocator which is released exactly once, when the entry is erased or
// the map is cleared or closed. InsertScalar and friends use the bytes of a
// fixed-width number as the key.
//
// # Growth
//
// When an Insert finds the arena exhausted the map doubles in size, unless
// growth was disabled with WithoutGrowth or the new capacity would exceed
// WithGrowthLimit or WithMaxCapacity. Resize grows explicitly. Maps never
// shrink.
package arenamap

import (
	"fmt"
	"math/bits"
	"strings"
)

const (
	debug = false

	minCapacity = 2
	// maxArenaSize bounds the arena so that every 1-based nodeRef fits in a
	// uint32 and capacities fit in an int on 32-bit platforms.
	maxArenaSize = 1 << 30
)

// Map is a hash table from byte-string keys to values of type V with Insert,
// Find, Erase and Clear operations. Values are stored as given and never
// interpreted; pointer values are not owned by the map.
//
// The zero value for a Map is not usable; construct one with New. Operations
// on a nil or zero Map report ErrInvalidArgument rather than panicking.
//
// A Map is NOT goroutine-safe.
type Map[V any] struct {
	// The hash function applied to keys.
	hasher Hasher
	// The allocator to use for the nodes, buckets and long keys.
	allocator Allocator[V]
	// buckets is capacity in length. It is indexed by hash&mask.
	buckets []Bucket
	// arena holds capacity nodes and the free list.
	arena arena[V]
	// mask is capacity-1; capacity is always a power of two.
	mask     uint32
	capacity int
	// The number of entries in the map.
	used int
	// maxCapacity caps all growth and growthLimit caps automatic growth.
	// Zero means unbounded.
	maxCapacity int
	growthLimit int
	noGrowth    bool
	// The number of completed resizes.
	resizes int
	closed  bool
}

// New constructs a new Map with room for capacity entries before it needs to
// grow. The capacity is rounded up to a power of two.
func New[V any](capacity int, options ...option[V]) (*Map[V], error) {
	if capacity <= 0 || capacity > maxArenaSize {
		return nil, fmt.Errorf("%w: capacity %d", ErrInvalidArgument, capacity)
	}

	m := &Map[V]{
		hasher:    XX,
		allocator: defaultAllocator[V]{},
	}

	for _, op := range options {
		op.apply(m)
	}

	capacity = roundCapacity(capacity)
	if m.maxCapacity < 0 || m.growthLimit < 0 {
		return nil, fmt.Errorf("%w: negative limit", ErrInvalidArgument)
	}
	if m.maxCapacity > 0 {
		m.maxCapacity = floorPowerOf2(min(m.maxCapacity, maxArenaSize))
		if m.maxCapacity < capacity {
			return nil, fmt.Errorf("%w: capacity %d exceeds max capacity %d",
				ErrInvalidArgument, capacity, m.maxCapacity)
		}
	}
	if m.growthLimit > 0 {
		m.growthLimit = floorPowerOf2(min(m.growthLimit, maxArenaSize))
	}

	nodes, buckets, err := m.allocStorage(capacity)
	if err != nil {
		return nil, err
	}
	m.buckets = buckets
	m.arena.init(nodes)
	m.capacity = capacity
	m.mask = uint32(capacity - 1)

	m.checkInvariants()
	return m, nil
}

// Close releases all of the map's memory back to its configured allocator,
// including the buffers of long keys. It is unnecessary to close a map using
// the default allocator. It is invalid to use a Map after it has been
// closed, though Close itself is idempotent.
func (m *Map[V]) Close() {
	if m == nil || m.closed || m.buckets == nil {
		return
	}
	m.Clear()
	m.allocator.FreeNodes(m.arena.nodes)
	m.allocator.FreeBuckets(m.buckets)
	m.arena = arena[V]{}
	m.buckets = nil
	m.capacity = 0
	m.mask = 0
	m.closed = true
}

// Insert inserts an entry into the map. If an entry with an equal key
// already exists the map is left unchanged, the existing value is retained,
// and Insert returns false. A nil error is returned in both cases.
//
// Insert fails with ErrInvalidArgument for an empty key, with ErrExhausted
// when the arena is full and the map may not grow, and with ErrAllocation
// when the allocator fails. A failed Insert does not modify the map.
func (m *Map[V]) Insert(key []byte, value V) (bool, error) {
	if err := m.usable(); err != nil {
		return false, err
	}
	if len(key) == 0 {
		return false, fmt.Errorf("%w: empty key", ErrInvalidArgument)
	}

	h := m.hasher(key)
	b := m.bucket(h)
	if _, r := m.lookup(b, h, key); r != 0 {
		if debug {
			fmt.Printf("insert(%q): present at node %d\n", key, r)
		}
		return false, nil
	}

	// The key is copied before any growth so that a failed key allocation
	// cannot leave behind a grown map.
	var k nodeKey
	if err := m.makeKey(&k, key); err != nil {
		return false, err
	}

	if m.arena.free == 0 {
		if err := m.grow(); err != nil {
			m.releaseKey(&k)
			return false, err
		}
		b = m.bucket(h)
	}

	r, _ := m.arena.allocate()
	n := m.arena.at(r)
	n.key = k
	n.hash = h
	n.value = value
	m.appendNode(b, r)
	m.used++

	if debug {
		fmt.Printf("insert(%q): node=%d bucket=%d used=%d free=%d\n",
			key, r, h&m.mask, m.used, m.arena.nfree)
	}
	m.checkInvariants()
	return true, nil
}

// Find retrieves the value from the map for the specified key, returning
// ok=false if the key is not present.
func (m *Map[V]) Find(key []byte) (value V, ok bool) {
	if m.usable() != nil || len(key) == 0 {
		return value, false
	}
	h := m.hasher(key)
	if _, r := m.lookup(m.bucket(h), h, key); r != 0 {
		return m.arena.at(r).value, true
	}
	return value, false
}

// Erase removes the entry with the specified key from the map, returning
// false if the key was not present.
func (m *Map[V]) Erase(key []byte) (bool, error) {
	if err := m.usable(); err != nil {
		return false, err
	}
	if len(key) == 0 {
		return false, fmt.Errorf("%w: empty key", ErrInvalidArgument)
	}

	h := m.hasher(key)
	b := m.bucket(h)
	prev, r := m.lookup(b, h, key)
	if r == 0 {
		if debug {
			fmt.Printf("erase(%q): not found\n", key)
		}
		return false, nil
	}

	m.unlink(b, prev, r)
	m.resetNode(m.arena.at(r))
	m.arena.release(r)
	m.used--

	if debug {
		fmt.Printf("erase(%q): node=%d bucket=%d used=%d free=%d\n",
			key, r, h&m.mask, m.used, m.arena.nfree)
	}
	m.checkInvariants()
	return true, nil
}

// Clear deletes all entries from the map, keeping its capacity. Clear visits
// every bucket, and returns each non-empty chain to the free list in a
// single step once its long keys have been released.
func (m *Map[V]) Clear() {
	if m.usable() != nil {
		return
	}
	for i := range m.buckets {
		b := &m.buckets[i]
		if b.head == 0 {
			continue
		}
		count := 0
		for r := b.head; r != 0; r = m.arena.at(r).next {
			m.resetNode(m.arena.at(r))
			count++
		}
		m.arena.splice(b.head, b.tail, count)
		*b = Bucket{}
	}
	m.used = 0

	if debug {
		fmt.Printf("clear: capacity=%d free=%d\n", m.capacity, m.arena.nfree)
	}
	m.checkInvariants()
}

// Resize grows the map to hold at least capacity entries, rounded up to a
// power of two. Resize refuses to shrink the map or to resize it to its
// current capacity (ErrInvalidArgument) and to exceed the max capacity
// (ErrExhausted). If the allocator fails, ErrAllocation is returned and the
// map is left as it was.
func (m *Map[V]) Resize(capacity int) error {
	if err := m.usable(); err != nil {
		return err
	}
	if capacity <= 0 || capacity > maxArenaSize {
		return fmt.Errorf("%w: capacity %d", ErrInvalidArgument, capacity)
	}
	capacity = roundCapacity(capacity)
	if capacity <= m.capacity {
		return fmt.Errorf("%w: resize to %d does not grow capacity %d",
			ErrInvalidArgument, capacity, m.capacity)
	}
	if m.maxCapacity > 0 && capacity > m.maxCapacity {
		return fmt.Errorf("%w: resize to %d exceeds max capacity %d",
			ErrExhausted, capacity, m.maxCapacity)
	}
	return m.resize(capacity)
}

// Len returns the number of entries in the map.
func (m *Map[V]) Len() int {
	if m == nil {
		return 0
	}
	return m.used
}

// Capacity returns the number of nodes in the arena, which is also the
// number of buckets.
func (m *Map[V]) Capacity() int {
	if m == nil {
		return 0
	}
	return m.capacity
}

// usable reports ErrClosed for a closed map and ErrInvalidArgument for a nil
// map or one that was not constructed by New.
func (m *Map[V]) usable() error {
	switch {
	case m == nil:
		return fmt.Errorf("%w: nil map", ErrInvalidArgument)
	case m.closed:
		return ErrClosed
	case m.buckets == nil:
		return fmt.Errorf("%w: uninitialized map", ErrInvalidArgument)
	}
	return nil
}

// grow doubles the capacity of an exhausted map, subject to the growth
// policy.
func (m *Map[V]) grow() error {
	if m.noGrowth {
		return fmt.Errorf("%w: %d entries, growth disabled", ErrExhausted, m.used)
	}
	newCapacity := 2 * m.capacity
	limit := maxArenaSize
	if m.maxCapacity > 0 {
		limit = min(limit, m.maxCapacity)
	}
	if m.growthLimit > 0 {
		limit = min(limit, m.growthLimit)
	}
	if newCapacity > limit {
		return fmt.Errorf("%w: %d entries, growth limit %d", ErrExhausted, m.used, limit)
	}
	return m.resize(newCapacity)
}

// resize replaces the arena and bucket array with ones of newCapacity. The
// nodes are copied in index order so every link survives unchanged; the
// added nodes are pushed onto the free list and each live node is appended
// to the bucket its cached hash selects under the new mask.
func (m *Map[V]) resize(newCapacity int) error {
	nodes, buckets, err := m.allocStorage(newCapacity)
	if err != nil {
		if debug {
			fmt.Printf("resize: capacity=%d->%d failed: %v\n", m.capacity, newCapacity, err)
		}
		return err
	}

	oldNodes, oldBuckets := m.arena.nodes, m.buckets
	oldCapacity := m.capacity

	m.arena.extend(nodes)
	m.buckets = buckets
	m.capacity = newCapacity
	m.mask = uint32(newCapacity - 1)

	for i := range oldBuckets {
		for r := oldBuckets[i].head; r != 0; {
			n := m.arena.at(r)
			next := n.next
			m.appendNode(m.bucket(n.hash), r)
			r = next
		}
	}

	m.allocator.FreeNodes(oldNodes)
	m.allocator.FreeBuckets(oldBuckets)
	m.resizes++

	if debug {
		fmt.Printf("resize: capacity=%d->%d used=%d free=%d\n",
			oldCapacity, newCapacity, m.used, m.arena.nfree)
	}
	m.checkInvariants()
	return nil
}

// allocStorage allocates a node arena and a zeroed bucket array of n
// entries each. On failure nothing remains allocated.
func (m *Map[V]) allocStorage(n int) ([]Node[V], []Bucket, error) {
	nodes, err := m.allocator.AllocNodes(n)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %d nodes: %v", ErrAllocation, n, err)
	}
	if len(nodes) < n {
		m.allocator.FreeNodes(nodes)
		return nil, nil, fmt.Errorf("%w: %d nodes, got %d", ErrAllocation, n, len(nodes))
	}
	buckets, err := m.allocator.AllocBuckets(n)
	if err != nil {
		m.allocator.FreeNodes(nodes)
		return nil, nil, fmt.Errorf("%w: %d buckets: %v", ErrAllocation, n, err)
	}
	if len(buckets) < n {
		m.allocator.FreeNodes(nodes)
		m.allocator.FreeBuckets(buckets)
		return nil, nil, fmt.Errorf("%w: %d buckets, got %d", ErrAllocation, n, len(buckets))
	}
	buckets = buckets[:n]
	clear(buckets)
	return nodes[:n], buckets, nil
}

// resetNode releases the key of a node that is leaving its chain and drops
// its value so the map does not retain it.
func (m *Map[V]) resetNode(n *Node[V]) {
	m.releaseKey(&n.key)
	var zero V
	n.value = zero
	n.hash = 0
}

func roundCapacity(n int) int {
	c := 1 << bits.Len(uint(n-1))
	return max(minCapacity, c)
}

func floorPowerOf2(n int) int {
	return 1 << (bits.Len(uint(n)) - 1)
}

func (m *Map[V]) checkInvariants() {
	if invariants {
		if err := m.validate(); err != nil {
			panic(fmt.Sprintf("%v\n%s", err, m.String()))
		}
	}
}

// validate checks that the free list and the bucket chains partition the
// arena, that every chain's head and tail agree with its nodes and that
// every node sits in the bucket its hash selects.
func (m *Map[V]) validate() error {
	if m.closed {
		if m.buckets != nil || m.arena.nodes != nil || m.used != 0 {
			return fmt.Errorf("invariant failed: closed map retains storage")
		}
		return nil
	}
	if m.capacity < minCapacity || m.capacity&(m.capacity-1) != 0 {
		return fmt.Errorf("invariant failed: capacity %d is not a power of two", m.capacity)
	}
	if uint32(m.capacity-1) != m.mask {
		return fmt.Errorf("invariant failed: mask %d for capacity %d", m.mask, m.capacity)
	}
	if len(m.buckets) != m.capacity || len(m.arena.nodes) != m.capacity {
		return fmt.Errorf("invariant failed: %d buckets and %d nodes for capacity %d",
			len(m.buckets), len(m.arena.nodes), m.capacity)
	}

	seen := make([]bool, m.capacity)
	visit := func(r nodeRef, where string) error {
		if r == 0 || int(r) > m.capacity {
			return fmt.Errorf("invariant failed: %s: node %d out of range", where, r)
		}
		if seen[r-1] {
			return fmt.Errorf("invariant failed: %s: node %d reachable twice", where, r)
		}
		seen[r-1] = true
		return nil
	}

	var free int
	for r := m.arena.free; r != 0; r = m.arena.at(r).next {
		if err := visit(r, "free list"); err != nil {
			return err
		}
		free++
	}
	if free != m.arena.nfree {
		return fmt.Errorf("invariant failed: found %d free nodes, but free count is %d",
			free, m.arena.nfree)
	}

	var used int
	for i := range m.buckets {
		b := &m.buckets[i]
		if (b.head == 0) != (b.tail == 0) {
			return fmt.Errorf("invariant failed: bucket %d: head=%d tail=%d", i, b.head, b.tail)
		}
		var last nodeRef
		for r := b.head; r != 0; r = m.arena.at(r).next {
			where := fmt.Sprintf("bucket %d", i)
			if err := visit(r, where); err != nil {
				return err
			}
			n := m.arena.at(r)
			if int(n.hash&m.mask) != i {
				return fmt.Errorf("invariant failed: %s: node %d hash %08x belongs to bucket %d",
					where, r, n.hash, n.hash&m.mask)
			}
			if n.key.n == 0 {
				return fmt.Errorf("invariant failed: %s: node %d has an empty key", where, r)
			}
			last = r
			used++
		}
		if last != b.tail {
			return fmt.Errorf("invariant failed: bucket %d: tail=%d, last node is %d", i, b.tail, last)
		}
	}
	if used != m.used {
		return fmt.Errorf("invariant failed: found %d used nodes, but used count is %d", used, m.used)
	}
	if used+free != m.capacity {
		return fmt.Errorf("invariant failed: %d used + %d free nodes != capacity %d",
			used, free, m.capacity)
	}
	return nil
}

// String returns a dump of the map's buckets and chains for debugging.
func (m *Map[V]) String() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "capacity=%d  used=%d  free=%d  resizes=%d\n",
		m.capacity, m.used, m.arena.nfree, m.resizes)
	for i := range m.buckets {
		b := &m.buckets[i]
		if b.head == 0 {
			continue
		}
		fmt.Fprintf(&buf, "  %4d:", i)
		// Bound the walk so a corrupt chain cannot loop forever.
		for r, steps := b.head, 0; r != 0 && steps <= m.capacity; r, steps = m.arena.at(r).next, steps+1 {
			n := m.arena.at(r)
			fmt.Fprintf(&buf, " [%d %q h=%08x]", r, n.key.bytes(), n.hash)
		}
		fmt.Fprintf(&buf, " tail=%d\n", b.tail)
	}
	return buf.String()
}

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

// Iterator is a snapshot of references to the entries of a Map, taken by
// NewIterator. The set of entries is fixed when the snapshot is taken:
// later inserts and erases do not add to or remove from it. The entries
// themselves are owned by the map, so a Node must not be used after it has
// been erased or after the map has been cleared, resized or closed.
type Iterator[V any] struct {
	nodes []*Node[V]
	pos   int
}

// NewIterator returns a snapshot of every entry in the map, gathered by
// sweeping each bucket's chain once.
func (m *Map[V]) NewIterator() (*Iterator[V], error) {
	if err := m.usable(); err != nil {
		return nil, err
	}
	nodes := make([]*Node[V], 0, m.used)
	for i := range m.buckets {
		for r := m.buckets[i].head; r != 0; {
			n := m.arena.at(r)
			nodes = append(nodes, n)
			r = n.next
		}
	}
	return &Iterator[V]{nodes: nodes}, nil
}

// Len returns the number of entries in the snapshot.
func (it *Iterator[V]) Len() int {
	return len(it.nodes)
}

// Next returns the next entry of the snapshot, or false once all of them
// have been returned.
func (it *Iterator[V]) Next() (*Node[V], bool) {
	if it.pos >= len(it.nodes) {
		return nil, false
	}
	n := it.nodes[it.pos]
	it.pos++
	return n, true
}

// Nodes returns the entries of the snapshot. The slice is owned by the
// iterator.
func (it *Iterator[V]) Nodes() []*Node[V] {
	return it.nodes
}

// Close releases the snapshot. The entries it referenced are unaffected.
func (it *Iterator[V]) Close() {
	it.nodes = nil
	it.pos = 0
}

// All calls yield sequentially for each key and value present in the map. If
// yield returns false, iteration stops. The key passed to yield aliases the
// map's storage. The map must not be mutated during iteration; use
// NewIterator to take a snapshot first.
func (m *Map[V]) All(yield func(key []byte, value V) bool) {
	if m == nil {
		return
	}
	for i := range m.buckets {
		for r := m.buckets[i].head; r != 0; {
			n := m.arena.at(r)
			if !yield(n.key.bytes(), n.value) {
				return
			}
			r = n.next
		}
	}
}

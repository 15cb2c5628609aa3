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

// nodeRef is a 1-based index into the arena's node slice. The zero value
// refers to no node, so zeroed buckets and links are empty.
//
// Links are indexes rather than pointers so that growing the arena only
// needs to copy the nodes into a larger slice: every stored link remains
// valid without a relocation pass.
type nodeRef uint32

func refOf(i int) nodeRef {
	return nodeRef(i + 1)
}

// Node is an entry in a Map. Nodes are owned by the map and handed out only
// through an Iterator.
type Node[V any] struct {
	next  nodeRef
	hash  uint32
	key   nodeKey
	value V
}

// Key returns the key of the entry. The returned slice aliases the map's
// storage and must not be modified.
func (n *Node[V]) Key() []byte {
	return n.key.bytes()
}

// Value returns the value associated with the entry.
func (n *Node[V]) Value() V {
	return n.value
}

// Hash returns the cached digest of the entry's key.
func (n *Node[V]) Hash() uint32 {
	return n.hash
}

// arena is a pool of nodes threaded by an intrusive singly-linked free list.
// The free list and the bucket chains partition the nodes.
type arena[V any] struct {
	nodes []Node[V]
	free  nodeRef
	// The number of nodes on the free list.
	nfree int
}

// init takes ownership of nodes and places all of them on the free list.
func (a *arena[V]) init(nodes []Node[V]) {
	a.nodes = nodes
	a.free = 0
	a.nfree = 0
	a.thread(0)
}

// thread pushes nodes[start:] onto the free list, in index order.
func (a *arena[V]) thread(start int) {
	n := len(a.nodes)
	if start >= n {
		return
	}
	for i := start; i < n-1; i++ {
		a.nodes[i] = Node[V]{next: refOf(i + 1)}
	}
	a.nodes[n-1] = Node[V]{next: a.free}
	a.free = refOf(start)
	a.nfree += n - start
}

// extend copies the current nodes into the larger slice nodes, which
// becomes the arena's backing storage, and frees the added tail. The old
// slice is not modified.
func (a *arena[V]) extend(nodes []Node[V]) {
	old := len(a.nodes)
	copy(nodes, a.nodes)
	a.nodes = nodes
	a.thread(old)
}

func (a *arena[V]) at(r nodeRef) *Node[V] {
	return &a.nodes[r-1]
}

// allocate pops the head of the free list. It returns false when the arena
// is exhausted.
func (a *arena[V]) allocate() (nodeRef, bool) {
	r := a.free
	if r == 0 {
		return 0, false
	}
	n := a.at(r)
	a.free = n.next
	n.next = 0
	a.nfree--
	return r, true
}

// release pushes r onto the free list. It does not check that r was
// allocated.
func (a *arena[V]) release(r nodeRef) {
	a.at(r).next = a.free
	a.free = r
	a.nfree++
}

// splice pushes a whole chain of count nodes from head to tail onto the
// free list in O(1).
func (a *arena[V]) splice(head, tail nodeRef, count int) {
	a.at(tail).next = a.free
	a.free = head
	a.nfree += count
}

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

// Bucket anchors the chain of nodes whose hash selects it. Head and tail are
// either both empty or both set; tail lets an insert append without walking
// the chain.
type Bucket struct {
	head nodeRef
	tail nodeRef
}

// bucket returns the bucket selected by hash h.
func (m *Map[V]) bucket(h uint32) *Bucket {
	return &m.buckets[h&m.mask]
}

// appendNode links r at the tail of b.
func (m *Map[V]) appendNode(b *Bucket, r nodeRef) {
	m.arena.at(r).next = 0
	if b.tail == 0 {
		b.head = r
	} else {
		m.arena.at(b.tail).next = r
	}
	b.tail = r
}

// lookup walks the chain of b for key and returns the matching node along
// with its predecessor (0 if the match is the head). It returns r == 0 if
// the key is not present.
func (m *Map[V]) lookup(b *Bucket, h uint32, key []byte) (prev, r nodeRef) {
	for r = b.head; r != 0; prev, r = r, m.arena.at(r).next {
		n := m.arena.at(r)
		if n.hash == h && n.key.equal(key) {
			return prev, r
		}
	}
	return 0, 0
}

// unlink removes r, whose predecessor in the chain of b is prev, fixing up
// the tail when r was the last node.
func (m *Map[V]) unlink(b *Bucket, prev, r nodeRef) {
	n := m.arena.at(r)
	if prev == 0 {
		b.head = n.next
	} else {
		m.arena.at(prev).next = n.next
	}
	if b.tail == r {
		b.tail = prev
	}
	n.next = 0
}

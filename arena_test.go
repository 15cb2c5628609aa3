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
	"testing"

	"github.com/stretchr/testify/require"
)

func freeList[V any](a *arena[V]) []nodeRef {
	var r []nodeRef
	for n := a.free; n != 0; n = a.at(n).next {
		r = append(r, n)
	}
	return r
}

func TestArenaInit(t *testing.T) {
	var a arena[int]
	a.init(make([]Node[int], 4))
	require.Equal(t, []nodeRef{1, 2, 3, 4}, freeList(&a))
	require.Equal(t, 4, a.nfree)
}

func TestArenaAllocateRelease(t *testing.T) {
	var a arena[int]
	a.init(make([]Node[int], 3))

	var refs []nodeRef
	for {
		r, ok := a.allocate()
		if !ok {
			break
		}
		require.Zero(t, a.at(r).next)
		refs = append(refs, r)
	}
	require.Equal(t, []nodeRef{1, 2, 3}, refs)
	require.Equal(t, 0, a.nfree)
	require.Zero(t, a.free)

	// The free list is LIFO.
	a.release(2)
	a.release(3)
	require.Equal(t, []nodeRef{3, 2}, freeList(&a))
	r, ok := a.allocate()
	require.True(t, ok)
	require.EqualValues(t, 3, r)
	require.Equal(t, 1, a.nfree)
}

func TestArenaExtend(t *testing.T) {
	var a arena[int]
	old := make([]Node[int], 4)
	a.init(old)

	// Allocate 1 and 3, leaving 2 and 4 free.
	r1, _ := a.allocate()
	r2, _ := a.allocate()
	r3, _ := a.allocate()
	a.release(r2)
	a.at(r1).value = 10
	a.at(r1).next = r3
	a.at(r3).value = 30

	a.extend(make([]Node[int], 8))
	require.Len(t, a.nodes, 8)
	require.Equal(t, 6, a.nfree)
	// The added nodes come first, followed by the previous free list.
	require.Equal(t, []nodeRef{5, 6, 7, 8, 2, 4}, freeList(&a))
	// Live nodes and their links survive unchanged.
	require.Equal(t, 10, a.at(r1).value)
	require.Equal(t, r3, a.at(r1).next)
	require.Equal(t, 30, a.at(r3).value)
	// The old slice is left as it was.
	require.Equal(t, 10, old[0].value)
}

func TestArenaSplice(t *testing.T) {
	var a arena[int]
	a.init(make([]Node[int], 4))
	r1, _ := a.allocate()
	r2, _ := a.allocate()
	r3, _ := a.allocate()
	a.at(r1).next = r2
	a.at(r2).next = r3

	a.splice(r1, r3, 3)
	require.Equal(t, []nodeRef{1, 2, 3, 4}, freeList(&a))
	require.Equal(t, 4, a.nfree)
}

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

func TestIterator(t *testing.T) {
	m := newMap[int](t, 4)
	for i := 0; i < 50; i++ {
		_, err := m.Insert(longKey(i), i)
		require.NoError(t, err)
	}
	for i := 0; i < 50; i += 5 {
		_, err := m.Erase(longKey(i))
		require.NoError(t, err)
	}

	it, err := m.NewIterator()
	require.NoError(t, err)
	require.Equal(t, m.Len(), it.Len())

	seen := make(map[string]bool)
	for n, ok := it.Next(); ok; n, ok = it.Next() {
		k := string(n.Key())
		require.False(t, seen[k], "duplicate entry")
		seen[k] = true

		v, ok := m.Find(n.Key())
		require.True(t, ok)
		require.Equal(t, v, n.Value())
		require.Equal(t, XX(n.Key()), n.Hash())
		require.NotZero(t, n.Value()%5)
	}
	require.Len(t, seen, 40)

	_, ok := it.Next()
	require.False(t, ok)

	it.Close()
	require.Equal(t, 0, it.Len())
	require.Nil(t, it.Nodes())
}

func TestIteratorSnapshot(t *testing.T) {
	m := newMap[int](t, 64)
	for i := 0; i < 10; i++ {
		_, err := m.Insert(intKey(i), i)
		require.NoError(t, err)
	}
	it, err := m.NewIterator()
	require.NoError(t, err)
	defer it.Close()

	// Later inserts do not extend the snapshot.
	for i := 10; i < 20; i++ {
		_, err := m.Insert(intKey(i), i)
		require.NoError(t, err)
	}
	require.Equal(t, 10, it.Len())
	require.Len(t, it.Nodes(), 10)
	for _, n := range it.Nodes() {
		require.Less(t, n.Value(), 10)
	}
}

func TestIteratorEmpty(t *testing.T) {
	m := newMap[int](t, 8)
	it, err := m.NewIterator()
	require.NoError(t, err)
	require.Equal(t, 0, it.Len())
	_, ok := it.Next()
	require.False(t, ok)
}

func TestAllStop(t *testing.T) {
	m := newMap[int](t, 8)
	for i := 0; i < 8; i++ {
		_, err := m.Insert(intKey(i), i)
		require.NoError(t, err)
	}
	var calls int
	m.All(func([]byte, int) bool {
		calls++
		return calls < 3
	})
	require.Equal(t, 3, calls)
}

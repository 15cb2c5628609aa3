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
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScalarKeys(t *testing.T) {
	m := newMap[string](t, 8)

	_, err := InsertScalar(m, uint8(7), "u8")
	require.NoError(t, err)
	_, err = InsertScalar(m, int32(7), "i32")
	require.NoError(t, err)
	_, err = InsertScalar(m, int64(7), "i64")
	require.NoError(t, err)
	_, err = InsertScalar(m, 7.5, "f64")
	require.NoError(t, err)

	// The same number at different widths gives different keys.
	require.Equal(t, 4, m.Len())
	for _, c := range []struct {
		v    string
		find func() (string, bool)
	}{
		{"u8", func() (string, bool) { return FindScalar(m, uint8(7)) }},
		{"i32", func() (string, bool) { return FindScalar(m, int32(7)) }},
		{"i64", func() (string, bool) { return FindScalar(m, int64(7)) }},
		{"f64", func() (string, bool) { return FindScalar(m, 7.5) }},
	} {
		v, ok := c.find()
		require.True(t, ok, c.v)
		require.Equal(t, c.v, v)
	}

	ok, err := EraseScalar(m, int32(7))
	require.NoError(t, err)
	require.True(t, ok)
	_, ok = FindScalar(m, int32(7))
	require.False(t, ok)
	_, ok = FindScalar(m, int64(7))
	require.True(t, ok)
}

func TestScalarFloatBits(t *testing.T) {
	m := newMap[int](t, 8)
	_, err := InsertScalar(m, 0.0, 1)
	require.NoError(t, err)
	_, ok := FindScalar(m, math.Copysign(0, -1))
	require.False(t, ok)

	nan := math.NaN()
	_, err = InsertScalar(m, nan, 2)
	require.NoError(t, err)
	v, ok := FindScalar(m, nan)
	require.True(t, ok)
	require.Equal(t, 2, v)
}

func TestScalarOf(t *testing.T) {
	m := newMap[int](t, 8)
	for i := int64(-5); i < 5; i++ {
		_, err := InsertScalar(m, i, int(i))
		require.NoError(t, err)
	}
	m.All(func(k []byte, v int) bool {
		i, ok := ScalarOf[int64](k)
		require.True(t, ok)
		require.EqualValues(t, v, i)
		_, ok = ScalarOf[int32](k)
		require.False(t, ok)
		return true
	})
}

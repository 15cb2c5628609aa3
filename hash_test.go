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
	"fmt"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/require"
)

func TestHasherValues(t *testing.T) {
	testCases := []struct {
		name     string
		hasher   Hasher
		expected [3]uint32
	}{
		{"bkdr", BKDR, [3]uint32{0x2f372e8e, 0x61, 0x9978a613}},
		{"bp", BP, [3]uint32{0x8cbb366f, 0x61, 0xe419b7f8}},
		{"dek", DEK, [3]uint32{0x0cb33def, 0x41, 0x55bde8b7}},
		{"djb", DJB, [3]uint32{0x0f923099, 0x2b606, 0x97c3fcf8}},
		{"elf", ELF, [3]uint32{0x006ec32f, 0x61, 0x03ba7e18}},
		{"fnv", FNV, [3]uint32{0x1ec04c0e, 0x61, 0x4b1e2ba3}},
		{"js", JS, [3]uint32{0x6718efcb, 0xaef5004d, 0x48dacb22}},
		{"pjw", PJW, [3]uint32{0x006ec32f, 0x61, 0x03ba7e18}},
		{"rs", RS, [3]uint32{0x3ad49e92, 0x61, 0x3e55aebf}},
		{"sdbm", SDBM, [3]uint32{0x28d19932, 0x61, 0x8d17ac23}},
	}
	inputs := []string{"hello", "a", "The quick brown fox"}
	for _, c := range testCases {
		t.Run(c.name, func(t *testing.T) {
			for i, in := range inputs {
				require.Equalf(t, c.expected[i], c.hasher([]byte(in)),
					"%s(%q)", c.name, in)
			}
		})
	}
}

func TestHasherXX(t *testing.T) {
	for _, s := range []string{"a", "hello", "The quick brown fox"} {
		h := xxhash.Sum64String(s)
		require.Equal(t, uint32(h>>32)^uint32(h), XX([]byte(s)))
	}
	require.NotEqual(t, XX([]byte("ab")), XX([]byte("ba")))
}

func TestHasherByName(t *testing.T) {
	for _, name := range Hashers() {
		h, ok := HasherByName(name)
		require.True(t, ok, name)
		require.NotNil(t, h, name)
	}
	_, ok := HasherByName("md5")
	require.False(t, ok)

	names := Hashers()
	names[0] = "md5"
	require.Equal(t, "xx", Hashers()[0])
}

// TestHasherHighBytes checks that bytes >= 0x80 are folded in as unsigned
// values.
func TestHasherHighBytes(t *testing.T) {
	require.EqualValues(t, 0xff, BKDR([]byte{0xff}))
	require.EqualValues(t, 5381*33+0x80, DJB([]byte{0x80}))
}

// TestHasherSpread verifies that every strategy is usable as a Map hasher:
// each one must keep all keys retrievable regardless of its distribution.
func TestHasherSpread(t *testing.T) {
	for _, name := range Hashers() {
		t.Run(name, func(t *testing.T) {
			h, _ := HasherByName(name)
			m, err := New[int](8, WithHasher[int](h))
			require.NoError(t, err)
			for i := 0; i < 500; i++ {
				ok, err := m.Insert([]byte(fmt.Sprintf("key-%d", i)), i)
				require.NoError(t, err)
				require.True(t, ok)
			}
			for i := 0; i < 500; i++ {
				v, ok := m.Find([]byte(fmt.Sprintf("key-%d", i)))
				require.True(t, ok)
				require.Equal(t, i, v)
			}
			require.NoError(t, m.validate())
		})
	}
}

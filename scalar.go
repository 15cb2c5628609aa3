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
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Scalar is a fixed-width number usable directly as a key. The key is the
// value's in-memory bytes, so for floats +0 and -0 are distinct keys while
// NaNs with the same bit pattern are equal.
type Scalar interface {
	constraints.Integer | constraints.Float
}

// scalarKey returns the bytes of *k without copying.
func scalarKey[K Scalar](k *K) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(k)), unsafe.Sizeof(*k))
}

// InsertScalar is Insert with the bytes of key as the key.
func InsertScalar[K Scalar, V any](m *Map[V], key K, value V) (bool, error) {
	return m.Insert(scalarKey(&key), value)
}

// FindScalar is Find with the bytes of key as the key.
func FindScalar[K Scalar, V any](m *Map[V], key K) (V, bool) {
	return m.Find(scalarKey(&key))
}

// EraseScalar is Erase with the bytes of key as the key.
func EraseScalar[K Scalar, V any](m *Map[V], key K) (bool, error) {
	return m.Erase(scalarKey(&key))
}

// ScalarOf decodes a key stored by InsertScalar. It returns false if the
// key does not have the width of K.
func ScalarOf[K Scalar](key []byte) (K, bool) {
	var k K
	if uintptr(len(key)) != unsafe.Sizeof(k) {
		return k, false
	}
	copy(scalarKey(&k), key)
	return k, true
}

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

import "github.com/cespare/xxhash/v2"

// Hasher maps a key to a 32-bit digest. A Hasher must be a pure function of
// its input: the digest is cached in each node and reused when the map
// grows, so it is never recomputed for a stored key.
//
// The named string hashes below fold each byte in as an unsigned value, so
// keys containing bytes >= 0x80 hash the same on every platform.
type Hasher func(key []byte) uint32

// XX folds the 64-bit xxHash digest of key into 32 bits. It is the default
// Hasher.
func XX(key []byte) uint32 {
	h := xxhash.Sum64(key)
	return uint32(h>>32) ^ uint32(h)
}

// BKDR is the Kernighan and Ritchie hash with seed 131.
func BKDR(key []byte) uint32 {
	const seed = 131 // 31 131 1313 13131 131313 etc.
	var h uint32
	for _, c := range key {
		h = h*seed + uint32(c)
	}
	return h
}

// BP is a shift-xor hash. Only the trailing bytes of long keys influence the
// result, which makes it a poor choice for long keys with common suffixes.
func BP(key []byte) uint32 {
	var h uint32
	for _, c := range key {
		h = h<<7 ^ uint32(c)
	}
	return h
}

// DEK is Donald E. Knuth's hash from The Art of Computer Programming,
// Volume 3.
func DEK(key []byte) uint32 {
	h := uint32(len(key))
	for _, c := range key {
		h = ((h << 5) ^ (h >> 27)) ^ uint32(c)
	}
	return h
}

// DJB is Daniel J. Bernstein's times-33 hash.
func DJB(key []byte) uint32 {
	h := uint32(5381)
	for _, c := range key {
		h = (h << 5) + h + uint32(c)
	}
	return h
}

// ELF is the hash used for symbol tables in the ELF object file format.
func ELF(key []byte) uint32 {
	var h uint32
	for _, c := range key {
		h = (h << 4) + uint32(c)
		x := h & 0xF0000000
		if x != 0 {
			h ^= x >> 24
		}
		h &^= x
	}
	return h
}

// FNV multiplies by the 32-bit FNV offset basis before folding in each byte.
// Note that this is not FNV-1 or FNV-1a.
func FNV(key []byte) uint32 {
	const prime = 0x811C9DC5
	var h uint32
	for _, c := range key {
		h *= prime
		h ^= uint32(c)
	}
	return h
}

// JS is Justin Sobel's bitwise hash.
func JS(key []byte) uint32 {
	h := uint32(1315423911)
	for _, c := range key {
		h ^= (h << 5) + uint32(c) + (h >> 2)
	}
	return h
}

// PJW is Peter J. Weinberger's hash.
func PJW(key []byte) uint32 {
	const (
		bitsInUint32  = 32
		threeQuarters = bitsInUint32 * 3 / 4
		oneEighth     = bitsInUint32 / 8
		highBits      = uint32(0xFFFFFFFF << (bitsInUint32 - oneEighth) & 0xFFFFFFFF)
	)
	var h uint32
	for _, c := range key {
		h = (h << oneEighth) + uint32(c)
		if t := h & highBits; t != 0 {
			h = (h ^ (t >> threeQuarters)) &^ highBits
		}
	}
	return h
}

// RS is Robert Sedgewick's hash from Algorithms in C.
func RS(key []byte) uint32 {
	const b = 378551
	a := uint32(63689)
	var h uint32
	for _, c := range key {
		h = h*a + uint32(c)
		a *= b
	}
	return h
}

// SDBM is the hash used by the sdbm database library.
func SDBM(key []byte) uint32 {
	var h uint32
	for _, c := range key {
		h = uint32(c) + (h << 6) + (h << 16) - h
	}
	return h
}

var hasherNames = []string{
	"xx", "bkdr", "bp", "dek", "djb", "elf", "fnv", "js", "pjw", "rs", "sdbm",
}

// Hashers returns the names accepted by HasherByName. The returned slice is
// a copy.
func Hashers() []string {
	return append([]string(nil), hasherNames...)
}

// HasherByName returns the Hasher with the given lowercase name.
func HasherByName(name string) (Hasher, bool) {
	switch name {
	case "xx":
		return XX, true
	case "bkdr":
		return BKDR, true
	case "bp":
		return BP, true
	case "dek":
		return DEK, true
	case "djb":
		return DJB, true
	case "elf":
		return ELF, true
	case "fnv":
		return FNV, true
	case "js":
		return JS, true
	case "pjw":
		return PJW, true
	case "rs":
		return RS, true
	case "sdbm":
		return SDBM, true
	}
	return nil, false
}

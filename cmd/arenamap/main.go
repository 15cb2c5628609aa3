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

// arenamap runs a short insert/find/erase/clear sequence against an
// arenamap.Map and prints the lookups and the final occupancy as JSON.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/arenamap"
	"github.com/sugawarayuuta/sonnet"
)

func main() {
	hashName := flag.String("hash", "bp",
		"hash function: "+strings.Join(arenamap.Hashers(), ", "))
	capacity := flag.Int("capacity", 8, "initial capacity")
	maxCapacity := flag.Int("max-capacity", 1024, "max capacity, 0 for unbounded")
	flag.Parse()

	hasher, ok := arenamap.HasherByName(*hashName)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown hash function %q\n", *hashName)
		os.Exit(2)
	}
	if err := run(hasher, *capacity, *maxCapacity); err != nil {
		fmt.Fprintf(os.Stderr, "arenamap: %v\n", err)
		os.Exit(1)
	}
}

func run(hasher arenamap.Hasher, capacity, maxCapacity int) error {
	m, err := arenamap.New[int](capacity,
		arenamap.WithHasher[int](hasher),
		arenamap.WithMaxCapacity[int](maxCapacity))
	if err != nil {
		return err
	}
	defer m.Close()

	find := func(k int32) {
		if v, ok := arenamap.FindScalar(m, k); ok {
			fmt.Printf("find(%d) = %d\n", k, v)
		} else {
			fmt.Printf("find(%d) = absent\n", k)
		}
	}

	for _, k := range []int32{4, 8, 28} {
		if _, err := arenamap.InsertScalar(m, k, int(k)); err != nil {
			return err
		}
	}
	find(4)
	find(8)
	find(28)
	if _, err := arenamap.EraseScalar(m, int32(4)); err != nil {
		return err
	}
	find(4)
	find(8)

	for i, s := range []string{"alpha", "bravo", "charl", "delta", "echoo", "foxtr", "golfy"} {
		if _, err := m.Insert([]byte(s), 100+i); err != nil {
			return err
		}
	}
	for _, s := range []string{"alpha", "golfy"} {
		v, _ := m.Find([]byte(s))
		fmt.Printf("find(%q) = %d\n", s, v)
	}

	stats, err := sonnet.Marshal(m.Stats())
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", stats)

	m.Clear()
	find(8)
	find(28)
	return nil
}

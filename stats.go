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

// Stats describes the occupancy of a Map.
type Stats struct {
	Size         int     `json:"size"`
	Capacity     int     `json:"capacity"`
	FreeNodes    int     `json:"free_nodes"`
	UsedBuckets  int     `json:"used_buckets"`
	LongestChain int     `json:"longest_chain"`
	HeapKeys     int     `json:"heap_keys"`
	Resizes      int     `json:"resizes"`
	LoadFactor   float64 `json:"load_factor"`
}

// Stats walks every chain and returns the map's occupancy.
func (m *Map[V]) Stats() Stats {
	if m == nil {
		return Stats{}
	}
	s := Stats{
		Size:      m.used,
		Capacity:  m.capacity,
		FreeNodes: m.arena.nfree,
		Resizes:   m.resizes,
	}
	if m.capacity > 0 {
		s.LoadFactor = float64(m.used) / float64(m.capacity)
	}
	for i := range m.buckets {
		chain := 0
		for r := m.buckets[i].head; r != 0; r = m.arena.at(r).next {
			if m.arena.at(r).key.isHeap() {
				s.HeapKeys++
			}
			chain++
		}
		if chain > 0 {
			s.UsedBuckets++
		}
		s.LongestChain = max(s.LongestChain, chain)
	}
	return s
}

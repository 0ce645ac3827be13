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

package quadmap

// Stats describes the shape of a Map at a point in time.
type Stats struct {
	Len        int
	Capacity   int
	LoadFactor float64
	// Resizes is the number of times the map has grown since New.
	Resizes int
	// MaxProbeLength is the largest number of probe steps needed to reach
	// any stored key. A key in its home slot has probe length 0.
	MaxProbeLength int
}

// Stats returns statistics about the map. It walks every occupied slot and is
// O(Capacity) plus the cost of re-probing each key.
func (m *Map[V]) Stats() Stats {
	s := Stats{
		Len:        m.used,
		Capacity:   m.capacity,
		LoadFactor: m.LoadFactor(),
		Resizes:    m.resizes,
	}
	for i := range m.slots {
		if !m.slots[i].used {
			continue
		}
		if p := m.probeLength(m.slots[i].key); p > s.MaxProbeLength {
			s.MaxProbeLength = p
		}
	}
	return s
}

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

// Package quadmap is an open-addressing hash table keyed by strings. Keys are
// hashed with Horner's rule over a bounded prefix and collisions are resolved
// with quadratic probing.
//
// # Layout
//
// A Map owns a single contiguous array of slots. Each slot is either empty or
// holds exactly one key and its value; occupancy is tracked by a flag in the
// slot so the empty string is an ordinary key. There are no tombstones: the
// map supports insertion, update and lookup, but not deletion.
//
// # Hashing
//
// The default hash is HornerHash, which evaluates the polynomial
//
//	c[0]*31^(n-1) + c[1]*31^(n-2) + ... + c[n-1]
//
// over the code points of the first n = min(len(key), 8) runes of the key and
// reduces the result modulo the current capacity. Bounding the prefix keeps
// the cost of hashing independent of key length. The hash is never cached:
// every operation recomputes it against the capacity in effect at the time.
//
// # Probing
//
// Starting at h0 = hash(key), the probe sequence visits
//
//	(h0 + j^2) mod capacity   for j = 0, 1, 2, ...
//
// until it reaches a slot holding the key or an empty slot. For arbitrary
// capacities this sequence does not visit every slot. It does repeat with
// period capacity, so a walk is bounded to capacity steps. A lookup that
// exhausts its walk reports a miss; a Put that exhausts its walk grows the
// table and retries.
//
// # Growth
//
// After an insertion that adds a key, if len/capacity exceeds 1/2 the map
// resizes to 2*capacity+1 slots, re-placing every entry in the order of its
// old slot index. The resize completes inside the Put call that triggered it.
// Growth never shrinks and the map has no notion of a maximum capacity.
package quadmap

import (
	"errors"
	"fmt"
	"strings"
)

const debug = false

// ErrInvalidCapacity is returned by New when the requested capacity is not
// positive.
var ErrInvalidCapacity = errors.New("quadmap: capacity must be positive")

// Slot holds a key and value.
type Slot[V any] struct {
	key   string
	value V
	// used distinguishes an occupied slot from an empty one.
	used bool
}

// Map is a hash table from string keys to values of type V with Put, Get,
// Has, Index, Keys and All operations. By default a Map hashes keys with
// HornerHash, though a different hash function can be specified using the
// WithHash option.
//
// A Map is NOT goroutine-safe. Callers sharing a Map between goroutines must
// guard every operation, including lookups, with a single lock.
type Map[V any] struct {
	// The hash function used to compute the home slot of a key.
	hash hashFn
	// The allocator to use for the slots array.
	allocator Allocator[V]
	// slots is capacity in length.
	slots []Slot[V]
	// The total number of slots.
	capacity int
	// The number of occupied slots.
	used int
	// The number of times the slots array has been grown.
	resizes int
}

// New constructs a new Map with the specified initial capacity. The capacity
// is used as given (it is not rounded to a prime or a power of two). New
// returns ErrInvalidCapacity if capacity is not positive.
func New[V any](capacity int, options ...option[V]) (*Map[V], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}

	m := &Map[V]{
		hash:      HornerHash,
		allocator: defaultAllocator[V]{},
	}

	for _, op := range options {
		op.apply(m)
	}

	m.slots = m.allocSlots(capacity)
	m.capacity = capacity
	m.checkInvariants()
	return m, nil
}

// Close releases the slots array back to the configured allocator. It is
// unnecessary to close a map using the default allocator. It is invalid to
// use a Map after it has been closed, though Close itself is idempotent.
func (m *Map[V]) Close() {
	if m.slots != nil {
		m.allocator.FreeSlots(m.slots)
		m.slots = nil
		m.capacity = 0
		m.used = 0
	}
}

// Hash returns the home slot of key for the map's current capacity.
func (m *Map[V]) Hash(key string) int {
	h := m.hash(key, m.capacity) % m.capacity
	if h < 0 {
		h += m.capacity
	}
	return h
}

// Put inserts an entry into the map, overwriting the existing value if an
// entry with the same key already exists. Overwriting never changes Len and
// never resizes the map.
func (m *Map[V]) Put(key string, value V) {
	for {
		i, ok := m.find(key)
		if ok {
			if debug {
				fmt.Printf("put(updating): index=%d  key=%q\n", i, key)
			}
			m.slots[i].value = value
			m.checkInvariants()
			return
		}

		if i >= 0 {
			if debug {
				fmt.Printf("put(inserting): index=%d  key=%q\n", i, key)
			}
			m.slots[i] = Slot[V]{key: key, value: value, used: true}
			m.used++
			if m.overloaded() {
				m.resize(2*m.capacity + 1)
			}
			m.checkInvariants()
			return
		}

		// Every slot on the probe sequence is occupied by another key. Grow
		// and try again against the new capacity.
		if debug {
			fmt.Printf("put(exhausted): key=%q  capacity=%d  used=%d\n", key, m.capacity, m.used)
		}
		m.resize(2*m.capacity + 1)
	}
}

// Get retrieves the value from the map for the specified key, returning
// ok=false if the key is not present.
func (m *Map[V]) Get(key string) (value V, ok bool) {
	i, ok := m.find(key)
	if !ok {
		return value, false
	}
	return m.slots[i].value, true
}

// Has reports whether key is present in the map.
func (m *Map[V]) Has(key string) bool {
	_, ok := m.find(key)
	return ok
}

// Index returns the index of the slot holding key, returning ok=false if the
// key is not present. The index is only meaningful until the next resize.
func (m *Map[V]) Index(key string) (int, bool) {
	i, ok := m.find(key)
	if !ok {
		return -1, false
	}
	return i, true
}

// Keys returns the keys of every occupied slot in slot order. The order is
// neither insertion order nor sorted order.
func (m *Map[V]) Keys() []string {
	keys := make([]string, 0, m.used)
	for i := range m.slots {
		if m.slots[i].used {
			keys = append(keys, m.slots[i].key)
		}
	}
	return keys
}

// All calls yield sequentially for each key and value present in the map, in
// slot order. If yield returns false, All stops the iteration. The slots
// array is captured up front, so a Put that resizes the map during iteration
// does not cause entries to be skipped or visited twice.
func (m *Map[V]) All(yield func(key string, value V) bool) {
	slots := m.slots
	for i := range slots {
		s := &slots[i]
		if !s.used {
			continue
		}
		if !yield(s.key, s.value) {
			return
		}
	}
}

// Len returns the number of entries in the map.
func (m *Map[V]) Len() int {
	return m.used
}

// Capacity returns the number of slots in the map.
func (m *Map[V]) Capacity() int {
	return m.capacity
}

// LoadFactor returns Len divided by Capacity.
func (m *Map[V]) LoadFactor() float64 {
	if m.capacity == 0 {
		return 0
	}
	return float64(m.used) / float64(m.capacity)
}

// find walks the probe sequence for key. It returns the index of the slot
// holding key and ok=true, or the index of the first empty slot on the
// sequence and ok=false. If the walk visits capacity slots without finding
// either, find returns -1 and ok=false.
func (m *Map[V]) find(key string) (idx int, ok bool) {
	seq := makeProbeSeq(m.Hash(key), m.capacity)
	if debug {
		fmt.Printf("find(%q): %s\n", key, seq)
	}

	for p := 0; p < m.capacity; p, seq = p+1, seq.next() {
		s := &m.slots[seq.offset]
		if !s.used {
			if debug {
				fmt.Printf("find(not-found): offset=%d\n", seq.offset)
			}
			return seq.offset, false
		}
		if s.key == key {
			return seq.offset, true
		}
		if debug {
			fmt.Printf("find(skipping): offset=%d  key=%q\n", seq.offset, s.key)
		}
	}
	return -1, false
}

// overloaded reports whether the load factor exceeds 1/2.
func (m *Map[V]) overloaded() bool {
	return 2*m.used > m.capacity
}

// resize grows the slots array to newCapacity and re-places every entry, in
// order of its old slot index, using plain placement with no resize check. If
// some entry cannot be placed because its probe sequence at the new capacity
// has no empty slot, the attempt is discarded and the next larger capacity
// (2n+1) is tried.
func (m *Map[V]) resize(newCapacity int) {
	oldSlots, oldCapacity := m.slots, m.capacity
	for !m.rehash(oldSlots, newCapacity) {
		newCapacity = 2*newCapacity + 1
	}
	m.resizes++

	if debug {
		fmt.Printf("resize: capacity=%d->%d  used=%d\n", oldCapacity, newCapacity, m.used)
	}

	m.allocator.FreeSlots(oldSlots)
}

// rehash replaces the slots array with an empty one of the given capacity and
// uncheckedPuts each entry of old into it. It reports false, after releasing
// the new array, if an entry could not be placed.
func (m *Map[V]) rehash(old []Slot[V], capacity int) bool {
	m.slots = m.allocSlots(capacity)
	m.capacity = capacity
	m.used = 0

	for i := range old {
		if !old[i].used {
			continue
		}
		if !m.uncheckedPut(old[i]) {
			m.allocator.FreeSlots(m.slots)
			return false
		}
	}
	return true
}

// uncheckedPut places s in the first empty slot on its probe sequence. The
// key must not already be present (violating this requirement will cause the
// map to hold duplicate keys).
func (m *Map[V]) uncheckedPut(s Slot[V]) bool {
	i, _ := m.find(s.key)
	if i < 0 {
		return false
	}
	m.slots[i] = s
	m.used++
	return true
}

func (m *Map[V]) allocSlots(n int) []Slot[V] {
	slots := m.allocator.AllocSlots(n)
	// A custom allocator may hand back recycled memory.
	clear(slots)
	return slots
}

// probeLength returns the number of probe steps taken to reach the slot
// holding key, or -1 if key is not present.
func (m *Map[V]) probeLength(key string) int {
	seq := makeProbeSeq(m.Hash(key), m.capacity)
	for p := 0; p < m.capacity; p, seq = p+1, seq.next() {
		s := &m.slots[seq.offset]
		if !s.used {
			return -1
		}
		if s.key == key {
			return p
		}
	}
	return -1
}

func (m *Map[V]) checkInvariants() {
	if invariants {
		if m.capacity <= 0 || len(m.slots) != m.capacity {
			panic(fmt.Sprintf("invariant failed: capacity=%d but %d slots\n%s",
				m.capacity, len(m.slots), m.debugString()))
		}

		// For every occupied slot, verify that the key is unique and that
		// probing for it lands on this slot.
		seen := make(map[string]int, m.used)
		var used int
		for i := range m.slots {
			s := &m.slots[i]
			if !s.used {
				continue
			}
			if j, dup := seen[s.key]; dup {
				panic(fmt.Sprintf("invariant failed: key %q in slots %d and %d\n%s",
					s.key, j, i, m.debugString()))
			}
			seen[s.key] = i
			if j, ok := m.find(s.key); !ok || j != i {
				panic(fmt.Sprintf("invariant failed: slot(%d): %q not reachable [h0=%d found=%d]\n%s",
					i, s.key, m.Hash(s.key), j, m.debugString()))
			}
			used++
		}

		if used != m.used {
			panic(fmt.Sprintf("invariant failed: found %d used slots, but used count is %d\n%s",
				used, m.used, m.debugString()))
		}

		if m.overloaded() {
			panic(fmt.Sprintf("invariant failed: load factor %d/%d exceeds 1/2\n%s",
				m.used, m.capacity, m.debugString()))
		}
	}
}

func (m *Map[V]) debugString() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "capacity=%d  used=%d  resizes=%d\n", m.capacity, m.used, m.resizes)
	for i := range m.slots {
		s := &m.slots[i]
		if !s.used {
			fmt.Fprintf(&buf, "  %4d: empty\n", i)
			continue
		}
		fmt.Fprintf(&buf, "  %4d: %q [h0=%d] %v\n", i, s.key, m.Hash(s.key), s.value)
	}
	return buf.String()
}

// probeSeq maintains the state for a probe sequence. The sequence is
//
//	p(j) := hash + j^2 (mod size)
//
// Successive squares differ by 2j-1, so the offset is advanced incrementally
// rather than by squaring j, which keeps every intermediate value below
// 3*size.
//
// Unlike the triangular sequence over a power-of-two table, this sequence is
// not a permutation of the slots. For prime sizes the first (size+1)/2 offsets
// are distinct; for other sizes fewer may be. It does repeat with period size,
// so size steps are enough to see every offset it will ever produce.
type probeSeq struct {
	size   int
	offset int
	index  int
}

func makeProbeSeq(hash, size int) probeSeq {
	return probeSeq{
		size:   size,
		offset: hash % size,
		index:  0,
	}
}

func (s probeSeq) next() probeSeq {
	s.index++
	s.offset = (s.offset + 2*s.index - 1) % s.size
	return s
}

func (s probeSeq) String() string {
	return fmt.Sprintf("size=%d offset=%d index=%d", s.size, s.offset, s.index)
}

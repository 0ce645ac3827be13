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

// option provide an interface to do work on Map while it is being created.
type option[V any] interface {
	apply(m *Map[V])
}

type hashOption[V any] struct {
	hash func(key string, size int) int
}

func (op hashOption[V]) apply(m *Map[V]) {
	m.hash = op.hash
}

// WithHash is an option to specify the hash function to use for a Map[V].
// The function receives the key and the current capacity and may return any
// int; the map reduces it modulo the capacity.
func WithHash[V any](hash func(key string, size int) int) option[V] {
	return hashOption[V]{hash}
}

// Allocator specifies an interface for allocating and releasing memory used
// by a Map. The default allocator utilizes Go's builtin make() and allows the
// GC to reclaim memory.
//
// If the allocator is manually managing memory and requires that slots be
// freed then Map.Close must be called in order to ensure FreeSlots is called
// for the final slots array. Arrays replaced by a resize are freed as part of
// the resize.
type Allocator[V any] interface {
	// AllocSlots should return a slice equivalent to make([]Slot[V], n).
	// The map clears the returned slice before use.
	AllocSlots(n int) []Slot[V]

	// FreeSlots can optional release the memory associated with the supplied
	// slice that is guaranteed to have been allocated by AllocSlots.
	FreeSlots(v []Slot[V])
}

type defaultAllocator[V any] struct{}

func (defaultAllocator[V]) AllocSlots(n int) []Slot[V] {
	return make([]Slot[V], n)
}

func (defaultAllocator[V]) FreeSlots(v []Slot[V]) {
}

type allocatorOption[V any] struct {
	allocator Allocator[V]
}

func (op allocatorOption[V]) apply(m *Map[V]) {
	m.allocator = op.allocator
}

// WithAllocator is an option for specify the Allocator to use for a Map[V].
func WithAllocator[V any](allocator Allocator[V]) option[V] {
	return allocatorOption[V]{allocator}
}

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

// hashFn computes the home slot of key in a table of size slots. The result
// is reduced modulo size by the caller, so implementations may return any
// int.
type hashFn func(key string, size int) int

const (
	// hornerPrefix is the number of leading runes of a key that contribute
	// to its hash.
	hornerPrefix = 8
	// hornerBase is the polynomial base.
	hornerBase = 31
)

// HornerHash returns the home slot of key in a table of size slots. It
// evaluates, by Horner's rule, the base-31 polynomial whose coefficients are
// the code points of the first eight runes of key, and reduces it modulo
// size. size must be positive.
//
// The largest code point is 0x10FFFF and 0x10FFFF*31^7 is well below 2^63,
// so the raw polynomial never overflows before the final reduction.
func HornerHash(key string, size int) int {
	var h uint64
	n := 0
	for _, r := range key {
		if n == hornerPrefix {
			break
		}
		h = h*hornerBase + uint64(r)
		n++
	}
	return int(h % uint64(size))
}

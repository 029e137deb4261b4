// hashalt.go -- optional, non-default hash functions an Adapter may opt into
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package cdb

import (
	"github.com/cespare/xxhash/v2"
	"github.com/opencoff/go-fasthash"
)

// HashFunc computes a key hash for use in place of the default djb-xor
// hash. An Adapter that sets Hash opts out of on-disk compatibility with
// the canonical DJB CDB format in exchange for a faster or
// better-distributed hash; the on-disk layout (bucket = low 8 bits, probe
// start = remaining bits) is unchanged.
type HashFunc func([]byte) uint64

// FastHash adapts github.com/opencoff/go-fasthash to HashFunc. salt seeds
// the hash the same way bbhash.go uses it for minimal-perfect-hash
// construction.
func FastHash(salt uint64) HashFunc {
	return func(key []byte) uint64 {
		return fasthash.Hash64(salt, key)
	}
}

// XXHash adapts github.com/cespare/xxhash/v2 to HashFunc.
func XXHash() HashFunc {
	return func(key []byte) uint64 {
		return xxhash.Sum64(key)
	}
}

// bucket.go -- per-primary-bucket accumulator used while building a database
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package cdb

// slotPair is one (hash, record-offset) pair, in either a bucket
// accumulator (builder) or a secondary table (on disk / during layout).
type slotPair struct {
	hash uint64
	off  uint64
}

// bucketAccumulator holds one primary bucket's (hash, offset) pairs in
// insertion order while a database is being built. It grows by doubling,
// the same amortized-growth idiom the teacher uses for its flat
// w.keys = append(w.keys, r.hash) slice -- generalized here to 256
// independent slices, one per bucket, since CDB (unlike BBHash's single
// flat minimal perfect hash) partitions keys into fixed buckets up front.
type bucketAccumulator struct {
	pairs []slotPair
}

func (b *bucketAccumulator) add(hash, off uint64) {
	b.pairs = append(b.pairs, slotPair{hash: hash, off: off})
}

func (b *bucketAccumulator) len() int {
	return len(b.pairs)
}

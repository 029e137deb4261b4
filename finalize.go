// finalize.go -- lays out the 256 secondary hash tables and back-patches
// the primary header; invoked exactly once by Writer.Close
//
// The per-bucket open-addressing layout is independent of every other
// bucket's layout, so it is computed concurrently, sharded across
// runtime.NumCPU() the same way the teacher's concurrent.go shards MPH key
// preprocessing across goroutines with a sync.WaitGroup barrier. Only the
// actual sequential write pass -- which must preserve on-disk bucket
// order so the primary header's offsets are contiguous -- stays
// single-threaded, honoring spec's "no internal scheduling" contract at
// the I/O boundary.
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package cdb

import (
	"runtime"
	"sync"
)

// bucketLayout is the result of laying out one primary bucket's secondary
// hash table via linear-probed open addressing.
type bucketLayout struct {
	slots     uint64 // 2 * len(bucket.pairs); 0 if the bucket is empty
	hashes    []uint64
	positions []uint64
}

// layoutBucket places each (hash, offset) pair from acc into a table of
// 2*len(acc.pairs) slots by linear probing from (hash>>8)%slots, honoring
// the spec's tie-break policy: later-inserted keys occupy the next empty
// slot ahead of the start position, which falls out naturally from
// processing acc.pairs in insertion order.
func layoutBucket(acc *bucketAccumulator) bucketLayout {
	n := acc.len()
	if n == 0 {
		return bucketLayout{}
	}

	slots := uint64(2 * n)
	hashes := make([]uint64, slots)
	positions := make([]uint64, slots)

	for _, pr := range acc.pairs {
		k := probeStart(pr.hash, slots)
		for positions[k] != 0 {
			k = (k + 1) % slots
		}
		hashes[k] = pr.hash
		positions[k] = pr.off
	}

	return bucketLayout{slots: slots, hashes: hashes, positions: positions}
}

// layoutAll computes every bucket's layout concurrently.
func layoutAll(buckets *[numBuckets]bucketAccumulator, occ *occupancy) [numBuckets]bucketLayout {
	var out [numBuckets]bucketLayout

	ncpu := runtime.NumCPU()
	if ncpu < 1 {
		ncpu = 1
	}
	if ncpu > numBuckets {
		ncpu = numBuckets
	}

	var wg sync.WaitGroup
	shard := (numBuckets + ncpu - 1) / ncpu

	for s := 0; s < ncpu; s++ {
		lo := s * shard
		hi := lo + shard
		if hi > numBuckets {
			hi = numBuckets
		}
		if lo >= hi {
			continue
		}

		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				out[i] = layoutBucket(&buckets[i])
				if out[i].slots > 0 {
					occ.set(i)
				}
			}
		}(lo, hi)
	}
	wg.Wait()

	return out
}

// Close finalizes the database if it is in create mode (laying out the
// hash tables, back-patching the primary header, and flushing the
// adapter), then releases the underlying handle. Close always releases
// resources, even if finalization fails. Calling Close on an already
// errored or already-closed Writer is a no-op beyond releasing resources.
func (w *Writer) Close() error {
	if w.closed {
		return w.err
	}
	w.closed = true

	if w.err != nil {
		w.io.close()
		return w.err
	}

	if err := w.finalize(); err != nil {
		w.fail(err)
		w.io.close()
		return w.err
	}

	return w.io.close()
}

func (w *Writer) finalize() error {
	var occ occupancy
	layouts := layoutAll(&w.buckets, &occ)
	w.occupancy = occ

	type headerEntry struct {
		position uint64
		length   uint64
	}
	var headers [numBuckets]headerEntry

	pos := w.io.position // == hash_start
	for i := 0; i < numBuckets; i++ {
		l := layouts[i]
		headers[i] = headerEntry{position: pos, length: l.slots}

		if l.slots == 0 {
			continue
		}

		for j := uint64(0); j < l.slots; j++ {
			if err := w.io.writeWordPair(l.hashes[j], l.positions[j]); err != nil {
				return err
			}
		}
		pos = w.io.position
	}

	// Back-patch the primary header at the start of the file.
	if err := w.io.seek(0); err != nil {
		return err
	}
	for i := 0; i < numBuckets; i++ {
		if err := w.io.writeWordPair(headers[i].position, headers[i].length); err != nil {
			return err
		}
	}

	return w.io.flush()
}

package cdb

import "testing"

func TestLayoutBucketEmpty(t *testing.T) {
	assert := newAsserter(t)
	var acc bucketAccumulator
	l := layoutBucket(&acc)
	assert(l.slots == 0, "empty bucket must produce zero slots, got %d", l.slots)
}

func TestLayoutBucketNoCollisionRoundTrip(t *testing.T) {
	assert := newAsserter(t)

	var acc bucketAccumulator
	acc.add(0x0100, 10)
	acc.add(0x0200, 20)
	acc.add(0x0300, 30)

	l := layoutBucket(&acc)
	assert(l.slots == 6, "3 records must produce 6 slots, got %d", l.slots)

	seen := map[uint64]uint64{}
	for i := uint64(0); i < l.slots; i++ {
		if l.positions[i] == 0 {
			continue
		}
		seen[l.hashes[i]] = l.positions[i]
	}
	for _, pr := range acc.pairs {
		off, ok := seen[pr.hash]
		assert(ok, "hash %#x missing from laid-out table", pr.hash)
		assert(off == pr.off, "hash %#x: want offset %d, got %d", pr.hash, pr.off, off)
	}
}

func TestLayoutBucketLinearProbeOnCollision(t *testing.T) {
	assert := newAsserter(t)

	var acc bucketAccumulator
	// Two hashes that collide on every probeStart for a 4-slot table:
	// (h>>8)%4 is the same for both.
	acc.add(0x0100, 111)
	acc.add(0x0500, 222) // 0x0500>>8 == 5, 5%4 == 1; 0x0100>>8 == 1, 1%4 == 1: same start

	l := layoutBucket(&acc)
	assert(l.slots == 4, "2 records must produce 4 slots, got %d", l.slots)

	var offsets []uint64
	for i := uint64(0); i < l.slots; i++ {
		if l.positions[i] != 0 {
			offsets = append(offsets, l.positions[i])
		}
	}
	assert(len(offsets) == 2, "both colliding records must be placed, got %d", len(offsets))
	assert(offsets[0] == 111 && offsets[1] == 222, "colliding records must land in insertion order: got %v", offsets)
}

func TestLayoutAllSetsOccupancy(t *testing.T) {
	assert := newAsserter(t)

	var buckets [numBuckets]bucketAccumulator
	buckets[3].add(0x0300, 1)
	buckets[200].add(0xc800, 2)

	var occ occupancy
	layouts := layoutAll(&buckets, &occ)

	assert(occ.isSet(3), "bucket 3 must be marked occupied")
	assert(occ.isSet(200), "bucket 200 must be marked occupied")
	assert(!occ.isSet(4), "bucket 4 must remain unoccupied")
	assert(occ.count() == 2, "exactly 2 buckets must be occupied, got %d", occ.count())

	assert(layouts[3].slots == 2, "bucket 3 must have 2 slots")
	assert(layouts[4].slots == 0, "bucket 4 must have 0 slots")
}

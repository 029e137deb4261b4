package cdb

import (
	"sync"
	"testing"
)

func TestOccupancySetIsSet(t *testing.T) {
	assert := newAsserter(t)

	var o occupancy
	assert(!o.isSet(5), "bit 5 must start clear")

	o.set(5)
	assert(o.isSet(5), "bit 5 must be set after set(5)")
	assert(!o.isSet(6), "bit 6 must remain clear")
	assert(o.count() == 1, "count must be 1, got %d", o.count())
}

func TestOccupancyConcurrentSet(t *testing.T) {
	assert := newAsserter(t)

	var o occupancy
	var wg sync.WaitGroup
	for i := 0; i < numBuckets; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			o.set(i)
		}(i)
	}
	wg.Wait()

	assert(o.count() == numBuckets, "all %d buckets must be set, got %d", numBuckets, o.count())
}

func TestPopcount(t *testing.T) {
	assert := newAsserter(t)
	assert(popcount(0) == 0, "popcount(0)")
	assert(popcount(1) == 1, "popcount(1)")
	assert(popcount(0xff) == 8, "popcount(0xff)")
	assert(popcount(^uint64(0)) == 64, "popcount(all-ones)")
}

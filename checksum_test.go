package cdb

import "testing"

func TestChecksumRoundTrip(t *testing.T) {
	assert := newAsserter(t)

	key := ChecksumKey{K0: 0x0123456789abcdef, K1: 0xfedcba9876543210}

	m := NewMemory()
	w, err := Create(m.Adapter(Size32), "sum.cdb")
	assert(err == nil, "create: %s", err)

	cw := NewChecksumWriter(w, key)
	assert(cw.Add([]byte("k1"), []byte("value one")) == nil, "add k1")
	assert(cw.Add([]byte("k2"), []byte("value two")) == nil, "add k2")
	assert(cw.Close() == nil, "close")

	r, err := Open(m.Adapter(Size32), "sum.cdb")
	assert(err == nil, "open: %s", err)
	defer r.Close()

	cr := NewChecksumReader(r, key)
	v, err := cr.Get([]byte("k1"))
	assert(err == nil, "get k1: %s", err)
	assert(string(v) == "value one", "k1 mismatch: %q", v)

	v, err = cr.Get([]byte("k2"))
	assert(err == nil, "get k2: %s", err)
	assert(string(v) == "value two", "k2 mismatch: %q", v)
}

func TestChecksumDetectsWrongKey(t *testing.T) {
	assert := newAsserter(t)

	key := ChecksumKey{K0: 1, K1: 2}
	wrongKey := ChecksumKey{K0: 3, K1: 4}

	m := NewMemory()
	w, err := Create(m.Adapter(Size32), "sum2.cdb")
	assert(err == nil, "create: %s", err)
	cw := NewChecksumWriter(w, key)
	assert(cw.Add([]byte("k"), []byte("v")) == nil, "add")
	assert(cw.Close() == nil, "close")

	r, err := Open(m.Adapter(Size32), "sum2.cdb")
	assert(err == nil, "open: %s", err)
	defer r.Close()

	cr := NewChecksumReader(r, wrongKey)
	_, err = cr.Get([]byte("k"))
	assert(err == ErrCorrupt, "verifying with the wrong key must fail with ErrCorrupt, got %v", err)
}

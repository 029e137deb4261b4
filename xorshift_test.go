// xorshift_test.go -- deterministic PRNG ported from
// original_source/cdb.c's cdb_tests(), used only to generate reproducible
// bulk test data; never exposed outside _test.go files (a shipped PRNG
// harness is explicitly out of scope).

package cdb

// xorshift128 mirrors cdb.c's static uint64_t xorshift128(uint64_t s[2]).
func xorshift128(s *[2]uint64) uint64 {
	if s[0] == 0 && s[1] == 0 {
		s[0] = 1
	}
	a := s[0]
	b := s[1]
	s[0] = b
	a ^= a << 23
	a ^= a >> 18
	a ^= b
	a ^= b >> 5
	s[1] = a
	return a + b
}

// genKeyVals deterministically generates n (key, value) pairs of 1..maxLen
// lowercase-letter bytes each, the same shape cdb_tests() generates for
// its bulk-insert test vector.
func genKeyVals(seed [2]uint64, n int, maxLen uint64) (keys, vals [][]byte) {
	s := seed
	keys = make([][]byte, n)
	vals = make([][]byte, n)

	for i := 0; i < n; i++ {
		kl := xorshift128(&s)%maxLen + 1
		vl := xorshift128(&s)%maxLen + 1

		k := make([]byte, kl)
		for j := range k {
			k[j] = 'a' + byte(xorshift128(&s)%26)
		}
		v := make([]byte, vl)
		for j := range v {
			v[j] = 'a' + byte(xorshift128(&s)%26)
		}
		keys[i] = k
		vals[i] = v
	}
	return keys, vals
}

// stats.go -- optional sidecar statistics, adapted from the teacher's
// marshal.go versioned-binary-header idiom
//
// The teacher marshals a BBHash's bitvectors with a 4-word (version,
// count, salt, reserved) header followed by a sequence of sub-records.
// Stats keeps the same idea with its own 5-word header -- version, bucket
// count, occupied-bucket count, max chain length, record count --
// followed by one uint64 per bucket giving its record count, since a cdb
// database has no equivalent "salt" but does have a natural
// per-bucket sequence to lay out the same way the teacher lays out its
// per-level bitvectors.
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package cdb

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const statsVersion = 1

// Stats summarizes a finalized database's bucket distribution. It is
// computed by Writer.Stats from the state Writer.Close leaves behind and
// is informational only: nothing in cdb reads it back to serve a lookup.
type Stats struct {
	Records        uint64
	Buckets        uint64 // always numBuckets; kept explicit for the wire format
	OccupiedBucket uint64
	MaxChain       uint64 // largest number of records hashed into a single bucket
	PerBucket      []uint64
}

// Stats computes bucket-distribution statistics for the database just
// written. Call it any time after Close.
func (w *Writer) Stats() Stats {
	s := Stats{
		Records:        w.nrec,
		Buckets:        numBuckets,
		OccupiedBucket: uint64(w.occupancy.count()),
		PerBucket:      make([]uint64, numBuckets),
	}
	for i := range w.buckets {
		n := uint64(w.buckets[i].len())
		s.PerBucket[i] = n
		if n > s.MaxChain {
			s.MaxChain = n
		}
	}
	return s
}

// MarshalBinary encodes s as: version, bucket count, occupied-bucket
// count, max chain length, record count, then one uint64 per bucket.
func (s *Stats) MarshalBinary(w io.Writer) error {
	var b bytes.Buffer
	var x [8]byte
	le := binary.LittleEndian

	put := func(v uint64) {
		le.PutUint64(x[:], v)
		b.Write(x[:])
	}
	put(statsVersion)
	put(s.Buckets)
	put(s.OccupiedBucket)
	put(s.MaxChain)
	put(s.Records)

	for _, n := range s.PerBucket {
		put(n)
	}

	n, err := w.Write(b.Bytes())
	if err != nil {
		return err
	}
	if n != b.Len() {
		return errShortWrite(n, b.Len())
	}
	return nil
}

// UnmarshalStats reads a previously marshaled Stats from r.
func UnmarshalStats(r io.Reader) (*Stats, error) {
	var hdr [40]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}

	le := binary.LittleEndian
	v := le.Uint64(hdr[0:8])
	if v != statsVersion {
		return nil, fmt.Errorf("cdb: stats: unsupported version %d", v)
	}

	s := &Stats{
		Buckets:        le.Uint64(hdr[8:16]),
		OccupiedBucket: le.Uint64(hdr[16:24]),
		MaxChain:       le.Uint64(hdr[24:32]),
		Records:        le.Uint64(hdr[32:40]),
	}

	s.PerBucket = make([]uint64, s.Buckets)
	buf := make([]byte, 8*s.Buckets)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	for i := range s.PerBucket {
		s.PerBucket[i] = le.Uint64(buf[i*8 : i*8+8])
	}

	return s, nil
}

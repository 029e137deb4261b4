// writer.go -- Writer: accumulates records and hash-bucket vectors while
// a database is being built
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package cdb

import "fmt"

// Writer builds a cdb database in a single pass: Add records in any order
// (including duplicate keys -- unlike the teacher's DBWriter, which
// silently discards records whose key hash already exists, cdb requires
// every Add to be retrievable, addressed by record index when keys
// repeat), then Close to finalize the two-level hash index and flush.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	io      *pio
	adapter Adapter

	buckets   [numBuckets]bucketAccumulator
	nrec      uint64
	occupancy occupancy

	err    error
	closed bool
}

// Create opens name for writing a new database via adapter. Any existing
// data at name is replaced (semantics are the adapter's: File.Adapter
// truncates; Memory.Adapter replaces the in-memory slot).
func Create(adapter Adapter, name string) (*Writer, error) {
	if !adapter.Size.valid() {
		return nil, ErrInvalidSize
	}

	h, err := adapter.Open(name, ModeCreate)
	if err != nil {
		return nil, fmt.Errorf("cdb: create %q: %w", name, err)
	}

	w := &Writer{io: newPIO(h, adapter.Size, adapter.Offset, false), adapter: adapter}

	// Force the handle to the logical start (physically adapter.Offset)
	// before the first write, so an embedded database's bytes land at
	// the right place even though logical position 0 would otherwise
	// look identical to the pio's zero value and be elided.
	if err := w.io.seek(0); err != nil {
		h.Close()
		return nil, err
	}

	// Write the placeholder primary header: 256 zero (offset, length)
	// pairs, back-patched at Close. Mirrors the teacher's "Leave some
	// space for a header; we will fill this in when we are done
	// Freezing."
	zero := make([]byte, numBuckets*2*int(adapter.Size))
	if err := w.io.write(zero); err != nil {
		h.Close()
		return nil, err
	}

	return w, nil
}

// Len returns the number of records added so far (including duplicate
// keys -- this is a record count, not a distinct-key count).
func (w *Writer) Len() int {
	return int(w.nrec)
}

// Add appends a key/value record to the database. Duplicate keys are
// permitted; each Add is independently retrievable via Lookup's
// record-index parameter, in insertion order (spec invariant 5).
func (w *Writer) Add(key, value []byte) error {
	if err := w.checkAlive(); err != nil {
		return err
	}
	if w.closed {
		return w.fail(ErrFrozen)
	}

	kn, vn := uint64(len(key)), uint64(len(value))
	if addOverflows(w.adapter.Size, kn, vn) {
		return w.fail(ErrOverflow)
	}

	h := w.adapter.hash(key)
	off := w.io.position

	hdr := make([]byte, 2*int(w.adapter.Size))
	putWord(w.adapter.Size, hdr[:w.adapter.Size], kn)
	putWord(w.adapter.Size, hdr[w.adapter.Size:], vn)

	if err := w.io.seek(w.io.position); err != nil { // elided unless displaced
		return w.fail(err)
	}
	if err := w.io.write(hdr); err != nil {
		return w.fail(err)
	}
	if len(key) > 0 {
		if err := w.io.write(key); err != nil {
			return w.fail(err)
		}
	}
	if len(value) > 0 {
		if err := w.io.write(value); err != nil {
			return w.fail(err)
		}
	}

	w.buckets[bucketIndex(h)].add(h, off)
	w.nrec++
	return nil
}

func (w *Writer) checkAlive() error {
	if w.err != nil {
		return w.err
	}
	return nil
}

func (w *Writer) fail(err error) error {
	if w.err == nil {
		w.err = err
	}
	return err
}

// Status returns the handle's latched error, or nil if it has not failed.
func (w *Writer) Status() error {
	return w.err
}

// Abort discards the in-progress database without finalizing it, closing
// the underlying handle. Use when Add has failed and the partial file
// should not be kept.
func (w *Writer) Abort() error {
	w.closed = true
	return w.io.close()
}

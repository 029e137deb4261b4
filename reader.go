// reader.go -- Reader: opens a finalized database and resolves lookups
// against its two-level hash index
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package cdb

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

// headerEntry is one primary-header (position, length) pair: position is
// the byte offset of a bucket's secondary table, length its slot count
// (2 * the number of records hashed into the bucket).
type headerEntry struct {
	position uint64
	length   uint64
}

// ReaderOption configures a Reader at Open time.
type ReaderOption func(*Reader)

// WithHeaderCache controls whether the 256-entry primary header is read
// once at Open and kept resident (the default) or re-read from the
// handle on every Lookup. Disabling it does not shrink the Reader: the
// header is still read and validated at Open, and each lookup then costs
// one extra seek+read pair to fetch its bucket's entry.
func WithHeaderCache(enabled bool) ReaderOption {
	return func(r *Reader) { r.headerCached = enabled }
}

// WithRecordCache adds an LRU cache of up to n decoded records, keyed by
// record offset. Useful for read-heavy workloads with a skewed key
// distribution; the underlying library is the same
// github.com/hashicorp/golang-lru the teacher's dbreader.go uses for its
// own optional lookup cache.
func WithRecordCache(n int) ReaderOption {
	return func(r *Reader) {
		if n <= 0 {
			return
		}
		c, err := lru.New(n)
		if err == nil {
			r.cache = c
		}
	}
}

// Reader resolves lookups against a finalized cdb database. A Reader is
// NOT safe for concurrent use by multiple goroutines: find() and readRecord
// seek and read through the single shared pio, so concurrent calls would
// race on its position. Callers that need concurrent lookups should open
// one Reader per goroutine (Open is cheap: header scan plus one seek) or
// serialize access with their own lock.
type Reader struct {
	io      *pio
	adapter Adapter

	header       [numBuckets]headerEntry
	headerCached bool
	hashStart    uint64
	fileEnd      uint64

	cache *lruCache

	err    error
	closed bool
}

type lruCache = lru.Cache

// Open opens name for reading via adapter, validates the primary header,
// and derives the logical record-region bound used to bounds-check seeks.
func Open(adapter Adapter, name string, opts ...ReaderOption) (*Reader, error) {
	if !adapter.Size.valid() {
		return nil, ErrInvalidSize
	}

	h, err := adapter.Open(name, ModeRead)
	if err != nil {
		return nil, fmt.Errorf("cdb: open %q: %w", name, err)
	}

	r := &Reader{io: newPIO(h, adapter.Size, adapter.Offset, true), adapter: adapter, headerCached: true}
	for _, o := range opts {
		o(r)
	}

	if err := r.readHeader(); err != nil {
		h.Close()
		return nil, err
	}

	return r, nil
}

// readHeader loads the 256 (position, length) pairs and validates that
// the secondary-table region is dense: the first non-empty bucket's
// position defines hash_start (the byte immediately following the record
// region), and every later non-empty bucket's table must start exactly
// where the previous one ended. A gap or a decrease indicates the file was truncated or
// patched inconsistently -- the "stale offset" corruption class the
// format itself cannot otherwise detect.
func (r *Reader) readHeader() error {
	w := r.adapter.Size
	if err := r.io.seek(0); err != nil {
		return err
	}

	headerSize := uint64(numBuckets * 2 * int(w))

	var prevPos uint64
	var sawFirst bool
	for i := 0; i < numBuckets; i++ {
		pos, length, err := r.io.readWordPair()
		if err != nil {
			return fmt.Errorf("cdb: reading header entry %d: %w", i, err)
		}
		r.header[i] = headerEntry{position: pos, length: length}

		if length == 0 {
			continue
		}
		if !sawFirst {
			if pos < headerSize {
				return fmt.Errorf("%w: bucket %d table at %d overlaps the primary header", ErrCorrupt, i, pos)
			}
			r.hashStart = pos
		} else if pos != prevPos {
			return fmt.Errorf("%w: bucket %d position %d does not follow the prior table ending at %d", ErrCorrupt, i, pos, prevPos)
		}
		end := pos + length*2*uint64(w)
		if end < pos {
			return fmt.Errorf("%w: bucket %d table overflows", ErrCorrupt, i)
		}
		prevPos = end
		sawFirst = true
	}

	if !sawFirst {
		// No records: hash_start cannot be derived from a bucket table,
		// but it's also unused (ForEach and find both no-op on an empty
		// index), so fall back to the header size.
		r.hashStart = headerSize
	}
	r.fileEnd = prevPos
	if r.fileEnd < r.hashStart {
		r.fileEnd = r.hashStart
	}

	r.io.fileStart = headerSize
	r.io.fileEnd = r.fileEnd
	return nil
}

func (r *Reader) headerEntryFor(bucket int) (headerEntry, error) {
	if r.headerCached {
		return r.header[bucket], nil
	}
	base := r.io.fileStart
	r.io.fileStart, r.io.fileEnd = 0, 0 // header lives before hashStart; lift the bound temporarily
	defer func() { r.io.fileStart, r.io.fileEnd = base, r.fileEnd }()

	w := r.adapter.Size
	if err := r.io.seek(uint64(bucket * 2 * int(w))); err != nil {
		return headerEntry{}, err
	}
	pos, length, err := r.io.readWordPair()
	if err != nil {
		return headerEntry{}, err
	}
	return headerEntry{position: pos, length: length}, nil
}

// find returns the `want`-th (0-indexed) record whose key equals key, in
// on-disk probe order -- for a database built without internal hash
// collisions, probe order matches insertion order (spec invariant 5).
// It stops at the first empty probe slot, exactly as DJB's cdb_find: the
// finalizer places every record at the first empty slot of its probe
// sequence and never removes one, so no matching record can lie past an
// empty slot.
func (r *Reader) find(key []byte, want int) ([]byte, error) {
	h := r.adapter.hash(key)
	bucket := bucketIndex(h)

	hdr, err := r.headerEntryFor(bucket)
	if err != nil {
		return nil, err
	}
	if hdr.length == 0 {
		return nil, ErrNotFound
	}

	w := uint64(r.adapter.Size)
	start := probeStart(h, hdr.length)
	match := 0

	for i := uint64(0); i < hdr.length; i++ {
		slot := (start + i) % hdr.length
		if err := r.io.seek(hdr.position + slot*2*w); err != nil {
			return nil, err
		}
		sh, off, err := r.io.readWordPair()
		if err != nil {
			return nil, err
		}
		if off == 0 {
			break
		}
		if bucketIndex(sh) != bucket {
			return nil, ErrHash
		}
		if sh != h {
			continue
		}
		if off < r.recordStart() || off >= r.hashStart {
			return nil, fmt.Errorf("%w: slot points to offset %d outside the record region", ErrCorrupt, off)
		}

		key2, val, err := r.readRecord(off)
		if err != nil {
			return nil, err
		}
		if !r.adapter.compare(key2, key) {
			continue
		}
		if match == want {
			return val, nil
		}
		match++
	}

	return nil, ErrNotFound
}

// recordStart is the byte offset immediately following the primary
// header, i.e. the start of the record region.
func (r *Reader) recordStart() uint64 {
	return uint64(numBuckets * 2 * int(r.adapter.Size))
}

func (r *Reader) readRecord(off uint64) (key, value []byte, err error) {
	if r.cache != nil {
		if v, ok := r.cache.Get(off); ok {
			rec := v.(cachedRecord)
			return rec.key, rec.value, nil
		}
	}

	if err := r.io.seek(off); err != nil {
		return nil, nil, err
	}
	kn, vn, err := r.io.readWordPair()
	if err != nil {
		return nil, nil, err
	}

	key = make([]byte, kn)
	if kn > 0 {
		if err := r.io.read(key); err != nil {
			return nil, nil, err
		}
	}
	value = make([]byte, vn)
	if vn > 0 {
		if err := r.io.read(value); err != nil {
			return nil, nil, err
		}
	}

	if r.cache != nil {
		r.cache.Add(off, cachedRecord{key: key, value: value})
	}
	return key, value, nil
}

type cachedRecord struct {
	key   []byte
	value []byte
}

// Get returns the value of the first record whose key equals key.
func (r *Reader) Get(key []byte) ([]byte, error) {
	return r.find(key, 0)
}

// Lookup returns the value of the n-th (0-indexed) record whose key
// equals key, in insertion order. Use it to retrieve every value stored
// under a duplicated key.
func (r *Reader) Lookup(key []byte, n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrBound
	}
	return r.find(key, n)
}

// Count returns the number of records stored under key.
func (r *Reader) Count(key []byte) (int, error) {
	h := r.adapter.hash(key)
	bucket := bucketIndex(h)

	hdr, err := r.headerEntryFor(bucket)
	if err != nil {
		return 0, err
	}
	if hdr.length == 0 {
		return 0, nil
	}

	w := uint64(r.adapter.Size)
	start := probeStart(h, hdr.length)
	n := 0

	for i := uint64(0); i < hdr.length; i++ {
		slot := (start + i) % hdr.length
		if err := r.io.seek(hdr.position + slot*2*w); err != nil {
			return 0, err
		}
		sh, off, err := r.io.readWordPair()
		if err != nil {
			return 0, err
		}
		if off == 0 {
			break
		}
		if bucketIndex(sh) != bucket {
			return 0, ErrHash
		}
		if sh != h {
			continue
		}
		if off < r.recordStart() || off >= r.hashStart {
			return 0, fmt.Errorf("%w: slot points to offset %d outside the record region", ErrCorrupt, off)
		}
		key2, _, err := r.readRecord(off)
		if err != nil {
			return 0, err
		}
		if r.adapter.compare(key2, key) {
			n++
		}
	}

	return n, nil
}

// RawSeek moves the Reader to an absolute byte offset within the database,
// bounds-checked to the region at or after the end of the primary header
// (the same bound find and readRecord seek within). It is a thin
// pass-through to the positioned I/O layer, grounded on cdb.h's cdb_seek,
// for callers building their own formatters directly on top of the on-disk
// layout.
func (r *Reader) RawSeek(pos uint64) error {
	return r.io.seek(pos)
}

// RawRead fills buf from the Reader's current position and advances past
// it, failing with ErrShortRead on a short read. It is a thin pass-through
// to the positioned I/O layer, grounded on cdb.h's cdb_read_word /
// cdb_read_word_pair.
func (r *Reader) RawRead(buf []byte) error {
	return r.io.read(buf)
}

// Close releases the underlying handle.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.io.close()
}

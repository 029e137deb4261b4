// errors.go -- error taxonomy for the cdb constant database
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package cdb

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by this package. A Writer latches the first of
// these it sees and every subsequent Add on it fails with the latched
// error; Close then reports it. A Reader does not latch: each lookup
// reports its own error and later lookups proceed normally.
var (
	// ErrNotFound is returned by Lookup/Get/Count when no matching record
	// exists. It is not latched: the handle remains usable afterwards.
	ErrNotFound = errors.New("cdb: key not found")

	// ErrMode is returned when an operation is attempted in the wrong
	// handle mode, e.g. Write on a storage handle opened with ModeRead.
	ErrMode = errors.New("cdb: wrong mode for operation")

	// ErrBound is returned when a seek or computed offset falls outside
	// the valid region of the file.
	ErrBound = errors.New("cdb: offset out of bounds")

	// ErrHash is returned when a secondary-table slot's stored hash
	// does not belong to the bucket it was read from -- a corrupt file.
	ErrHash = errors.New("cdb: hash/bucket mismatch")

	// ErrOverflow is returned when an offset or length computation would
	// wrap around the word size in use.
	ErrOverflow = errors.New("cdb: arithmetic overflow")

	// ErrShortRead is returned when the storage adapter delivers fewer
	// bytes than requested.
	ErrShortRead = errors.New("cdb: short read")

	// ErrShortWrite is returned when the storage adapter writes fewer
	// bytes than requested.
	ErrShortWrite = errors.New("cdb: short write")

	// ErrInvalidSize is returned when Open is given an unsupported word
	// size.
	ErrInvalidSize = errors.New("cdb: invalid word size")

	// ErrDisabled is returned when an optional feature (e.g. mmap) is
	// requested from an adapter that does not support it.
	ErrDisabled = errors.New("cdb: feature disabled")

	// ErrFrozen is returned when Add is called on a handle that has
	// already been closed/finalized.
	ErrFrozen = errors.New("cdb: database already closed")

	// ErrCorrupt is returned when Open discovers a structurally invalid
	// file (non-dense hash tables, offsets out of range, bad header).
	ErrCorrupt = errors.New("cdb: corrupt database")
)

func errShortWrite(n, want int) error {
	return fmt.Errorf("%w: wanted %d bytes, wrote %d", ErrShortWrite, want, n)
}

func errShortRead(n, want int) error {
	return fmt.Errorf("%w: wanted %d bytes, read %d", ErrShortRead, want, n)
}

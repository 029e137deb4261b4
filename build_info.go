// build_info.go -- reports the build-time configuration of this package,
// grounded on original_source/cdb.c's cdb_get_version, which packs word
// size and feature bits into a single reportable value.
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package cdb

// BuildInfo describes the static configuration of this package, mirroring
// the fields original_source/cdb.c:cdb_get_version packs into its spec
// word: word size, whether writing (Create) is available, and whether a
// read-path header cache is in effect for a given Reader.
type BuildInfo struct {
	// WordSize is the bit width of the on-disk word r was opened with
	// (Size32 * 8 = 32), matching CDB_SIZE.
	WordSize int

	// WriteSupported is always true for this package; it exists to
	// mirror CDB_WRITE_ON, a compile-time-disableable feature in the
	// original C library that this package does not need to gate.
	WriteSupported bool

	// HeaderCache reports whether r was opened with its primary header
	// held resident in memory (the default; see WithHeaderCache).
	HeaderCache bool
}

// Info returns the build configuration in effect for r.
func (r *Reader) Info() BuildInfo {
	return BuildInfo{
		WordSize:       8 * int(r.adapter.Size),
		WriteSupported: true,
		HeaderCache:    r.headerCached,
	}
}

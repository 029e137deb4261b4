// humansize.go -- print byte sizes in human-readable form, adapted from
// the teacher's root-level humansize.go (moved here since it is a CLI
// display concern, not something the library itself needs).
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package main

import "fmt"

const (
	_kB = 1 << (10 * (iota + 1))
	_MB
	_GB
	_TB
	_PB
	_EB
)

func humansize(sz uint64) string {
	var a, b uint64
	var s string

	switch {
	case sz >= _EB:
		a, b, s = sz/_EB, sz%_EB, "EB"
	case sz >= _PB:
		a, b, s = sz/_PB, sz%_PB, "PB"
	case sz >= _TB:
		a, b, s = sz/_TB, sz%_TB, "TB"
	case sz >= _GB:
		a, b, s = sz/_GB, sz%_GB, "GB"
	case sz >= _MB:
		a, b, s = sz/_MB, sz%_MB, "MB"
	case sz >= _kB:
		a, b, s = sz/_kB, sz%_kB, "kB"
	default:
		return fmt.Sprintf("%d B", sz)
	}

	if b > 0 {
		return fmt.Sprintf("%d.%2.2s %s", a, fmt.Sprintf("%d", b), s)
	}
	return fmt.Sprintf("%d %s", a, s)
}

// iterator.go -- sequential record iteration over a finalized database
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package cdb

// ForEach walks every record in the database in on-disk (insertion)
// order and calls fn(key, value) for each. fn returns false to stop the
// walk early, or an error to abort it. ForEach does not consult the hash
// index at all: it walks the record region directly, from the end of the
// primary header up to hash_start, which is exactly how the records were
// laid down by Add.
func (r *Reader) ForEach(fn func(key, value []byte) (bool, error)) error {
	w := uint64(r.adapter.Size)
	pos := uint64(numBuckets * 2 * int(r.adapter.Size))

	for pos < r.hashStart {
		if err := r.io.seek(pos); err != nil {
			return err
		}
		kn, vn, err := r.io.readWordPair()
		if err != nil {
			return err
		}

		key := make([]byte, kn)
		if kn > 0 {
			if err := r.io.read(key); err != nil {
				return err
			}
		}
		value := make([]byte, vn)
		if vn > 0 {
			if err := r.io.read(value); err != nil {
				return err
			}
		}

		cont, err := fn(key, value)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}

		pos += 2*w + kn + vn
	}

	return nil
}

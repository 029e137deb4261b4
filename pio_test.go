package cdb

import "testing"

func TestPIOWordPairRoundTrip(t *testing.T) {
	assert := newAsserter(t)

	m := NewMemory()
	a := m.Adapter(Size32)
	h, err := a.Open("p", ModeCreate)
	assert(err == nil, "open: %s", err)

	p := newPIO(h, Size32, 0, false)
	assert(p.writeWordPair(1, 2) == nil, "write pair 1")
	assert(p.writeWordPair(3, 4) == nil, "write pair 2")
	assert(p.close() == nil, "close")

	h2, err := a.Open("p", ModeRead)
	assert(err == nil, "reopen: %s", err)
	p2 := newPIO(h2, Size32, 0, true)

	x, y, err := p2.readWordPair()
	assert(err == nil && x == 1 && y == 2, "first pair mismatch: %d, %d, %v", x, y, err)
	x, y, err = p2.readWordPair()
	assert(err == nil && x == 3 && y == 4, "second pair mismatch: %d, %d, %v", x, y, err)
}

func TestPIOSeekElision(t *testing.T) {
	assert := newAsserter(t)

	m := NewMemory()
	a := m.Adapter(Size32)
	h, _ := a.Open("q", ModeCreate)
	p := newPIO(h, Size32, 0, false)

	// The first seek is always a real one (it applies the base offset);
	// only seeks after it are candidates for elision.
	assert(p.seek(0) == nil, "initial seek")
	assert(p.write([]byte("abcd")) == nil, "write")
	assert(p.position == 4, "position must advance to 4, got %d", p.position)

	// A seek to the current position must be a no-op (elided), not an
	// error, even though the underlying Memory handle happily accepts
	// real seeks too.
	assert(p.seek(4) == nil, "seek to current position must be elided cleanly")
	assert(p.position == 4, "elided seek must not move position")
}

func TestPIOBoundsCheckedInReadMode(t *testing.T) {
	assert := newAsserter(t)

	m := NewMemory()
	a := m.Adapter(Size32)
	h, _ := a.Open("r", ModeCreate)
	p := newPIO(h, Size32, 0, false)
	assert(p.write([]byte("12345678")) == nil, "write")
	assert(p.close() == nil, "close")

	h2, _ := a.Open("r", ModeRead)
	p2 := newPIO(h2, Size32, 0, true)
	p2.fileStart = 0
	p2.fileEnd = 8

	assert(p2.seek(8) == nil, "seek to fileEnd must be in bounds")
	assert(p2.seek(9) == ErrBound, "seek past fileEnd must be rejected")
}

func TestPIOAdvanceRejectsWordSizeOverflow(t *testing.T) {
	assert := newAsserter(t)

	m := NewMemory()
	h, _ := m.Adapter(Size16).Open("s16", ModeCreate)
	p := newPIO(h, Size16, 0, false)

	// Drive the logical position to the edge of what a Size16 word can
	// address (0xffff), then push one byte past it: advance must return
	// ErrOverflow rather than let the position wrap and later truncate
	// silently through putWord(Size16, ...).
	big := make([]byte, 0xfffe)
	assert(p.write(big) == nil, "fill to 0xfffe")
	assert(p.position == 0xfffe, "position must be 0xfffe, got %#x", p.position)

	assert(p.write([]byte{1}) == nil, "one more byte reaches the exact ceiling")
	assert(p.position == 0xffff, "position must be 0xffff, got %#x", p.position)

	err := p.write([]byte{1})
	assert(err == ErrOverflow, "write past the Size16 ceiling must report ErrOverflow, got %v", err)
}

func TestPIOOffsetEmbedding(t *testing.T) {
	assert := newAsserter(t)

	m := NewMemory()
	a := m.Adapter(Size32)
	h, _ := a.Open("e", ModeCreate)

	const base = 100
	p := newPIO(h, Size32, base, false)
	assert(p.seek(0) == nil, "initial seek must apply the physical base offset")
	assert(p.write([]byte("hdr!")) == nil, "write")
	assert(p.close() == nil, "close")

	// The physical file must have base bytes of padding before the
	// logical start, since memHandle.Write zero-extends on out-of-range
	// writes.
	raw := m.Bytes("e")
	assert(len(raw) == base+4, "expected %d physical bytes, got %d", base+4, len(raw))
	assert(string(raw[base:]) == "hdr!", "payload must land at the physical offset, got %q", raw[base:])
}

package tablecsv

import (
	"io"

	"github.com/klauspost/cpuid/v2"
)

const (
	byteCR = '\r'
	byteLF = '\n'
)

// cacheSizedBufferFloor is the smallest initial buffer size
// defaultInitialBufferSize will return regardless of what the CPU reports.
const cacheSizedBufferFloor = 64 * 1024

// defaultInitialBufferSize sizes the first refill buffer to the detected
// L2 cache, the way the teacher's go.mod already declared a dependency on
// cpuid/v2 for (see DESIGN.md) without ever calling it: a buffer that fits
// in L2 keeps the tokenizer's sequential scan of mem() resident in cache
// across a whole chunk. cpuid.CPU.Cache.L2 is -1 when undetectable, so the
// floor is the fallback on any platform where that's true.
func defaultInitialBufferSize() int {
	if l2 := cpuid.CPU.Cache.L2; l2 > cacheSizedBufferFloor {
		return l2
	}
	return cacheSizedBufferFloor
}

// bufferedSource is the refillable buffer the driver owns for the
// lifetime of a read. It is grounded on the teacher's chunked refill loop
// (`readAllStreaming`'s buffered reads in
// _examples/raceordie690-simdcsv/simdcsv.go) but collapsed to a single
// owned, growable byte slice rather than a channel of fixed-size chunks —
// the spec's single-threaded model has no room for the teacher's
// producer/consumer goroutines.
//
// Tokens handed out while mem() pointed at a given window must not be
// read after the next call to advance: advance may compact the buffer,
// invalidating earlier offsets.
type bufferedSource struct {
	r     io.Reader
	buf   []byte
	pos   int // start of unconsumed data
	end   int // end of valid data
	atEOF bool
}

func newBufferedSource(r io.Reader, initialSize int) *bufferedSource {
	if floor := defaultInitialBufferSize(); initialSize < floor {
		initialSize = floor
	}
	return &bufferedSource{r: r, buf: make([]byte, initialSize)}
}

// mem returns the currently buffered, unconsumed window.
func (s *bufferedSource) mem() []byte {
	return s.buf[s.pos:s.end]
}

func (s *bufferedSource) eof() bool {
	return s.atEOF && s.pos >= s.end
}

// advance consumes n bytes from the front of the buffered window.
func (s *bufferedSource) advance(n int) {
	s.pos += n
	if s.pos > s.end {
		s.pos = s.end
	}
	// Compact once the consumed prefix dominates the buffer, so growth is
	// amortized rather than unbounded.
	if s.pos > 0 && (s.pos == s.end || s.pos > len(s.buf)/2) {
		copy(s.buf, s.buf[s.pos:s.end])
		s.end -= s.pos
		s.pos = 0
	}
}

// grow doubles buffer capacity, preserving the unconsumed window at the
// front.
func (s *bufferedSource) grow() {
	n := len(s.buf) * 2
	if n == 0 {
		n = 64 * 1024
	}
	nb := make([]byte, n)
	copy(nb, s.buf[s.pos:s.end])
	s.end -= s.pos
	s.pos = 0
	s.buf = nb
}

// refill pulls more bytes in, growing the buffer first if there is no
// room left at the tail. It is a no-op once EOF has been observed.
func (s *bufferedSource) refill() error {
	if s.atEOF {
		return nil
	}
	if s.end == len(s.buf) {
		s.grow()
	}
	n, err := s.r.Read(s.buf[s.end:])
	s.end += n
	if err == io.EOF {
		s.atEOF = true
		return nil
	}
	if err != nil {
		return err
	}
	if n == 0 {
		// Some readers return (0, nil) transiently; treat a single such
		// read as "try again next time" rather than spinning forever
		// inside one call.
		return nil
	}
	return nil
}

// writeByte appends a single byte to the tail of the buffered window,
// growing if necessary. Used to synthesize a trailing newline when the
// stream ends without one.
func (s *bufferedSource) writeByte(b byte) {
	if s.end == len(s.buf) {
		s.grow()
	}
	s.buf[s.end] = b
	s.end++
}

// findFirstNewline scans mem forward from i for the first LF or CR,
// consuming a following LF to treat CR+LF as one terminator. It returns
// the index of the terminator byte (the CR, for CR+LF) and how many bytes
// the terminator itself occupies (1 or 2), or (-1, 0) if none is found.
func findFirstNewline(mem []byte, i int) (at int, width int) {
	for ; i < len(mem); i++ {
		switch mem[i] {
		case byteLF:
			return i, 1
		case byteCR:
			if i+1 < len(mem) && mem[i+1] == byteLF {
				return i, 2
			}
			return i, 1
		}
	}
	return -1, 0
}

// skiplines advances past n newlines (LF, CR, or CR+LF) and returns how
// many were actually skipped (fewer than n only at EOF).
func (s *bufferedSource) skiplines(n int) (int, error) {
	skipped := 0
	for skipped < n {
		if err := s.refill(); err != nil {
			return skipped, err
		}
		mem := s.mem()
		at, width := findFirstNewline(mem, 0)
		if at < 0 {
			if s.atEOF {
				// No more terminators available: stop early, leaving
				// any partial line unconsumed.
				return skipped, nil
			}
			s.grow()
			continue
		}
		// A CR at the very end of the buffer is ambiguous (could be the
		// start of CR+LF); grow and refill before treating it as a
		// lone CR. This mirrors the teacher's quote/ambiguity heuristics
		// in chunking.go, applied here to the CR+LF seam instead of
		// quote parity.
		if mem[at] == byteCR && at+1 == len(mem) && !s.atEOF {
			s.grow()
			if err := s.refill(); err != nil {
				return skipped, err
			}
			continue
		}
		s.advance(at + width)
		skipped++
	}
	return skipped, nil
}

// bufferLines refills, then scans from the tail toward the front to find
// the offset of the last complete record terminator in the buffered
// window. If the stream has ended without a final newline, one is
// synthesized so downstream tokenization always sees a terminated final
// record.
func (s *bufferedSource) bufferLines() (mem []byte, lastnl int, err error) {
	for {
		if err := s.refill(); err != nil {
			return nil, 0, err
		}
		mem = s.mem()
		if len(mem) == 0 {
			if s.atEOF {
				return mem, -1, nil
			}
			continue
		}

		// Ambiguous trailing CR: might be the start of CR+LF. Grow and
		// refill so the terminator kind is fully observed before we
		// commit to a lastnl.
		if mem[len(mem)-1] == byteCR && !s.atEOF {
			s.grow()
			continue
		}

		lastnl = lastTerminatorIndex(mem)
		if lastnl < 0 {
			if s.atEOF {
				// Truly no newline anywhere: synthesize a trailing LF so
				// the tokenizer can still terminate the final record.
				s.writeByte(byteLF)
				mem = s.mem()
				lastnl = len(mem) - 1
				return mem, lastnl, nil
			}
			s.grow()
			continue
		}
		return mem, lastnl, nil
	}
}

// lastTerminatorIndex scans mem from the end looking for the last LF or
// CR. It never needs to special-case CR+LF here: whichever byte of the
// pair is found scanning backward, its index is still a valid "end of the
// last complete record" boundary, and the tokenizer treats a CR
// immediately followed by LF as a single terminator when it gets there.
func lastTerminatorIndex(mem []byte) int {
	for i := len(mem) - 1; i >= 0; i-- {
		if mem[i] == byteLF || mem[i] == byteCR {
			return i
		}
	}
	return -1
}

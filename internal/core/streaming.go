package core

// streaming.go cleans up import files on the fly before CSV parsing:
//
//   - SkipBOM drops the UTF-8 byte order mark Windows tools prepend
//   - utf8Sanitizer replaces invalid UTF-8 bytes with '?'
//
// Use WrapForImport to apply both in the correct order.

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SkipBOM returns a reader that skips a leading UTF-8 BOM if present.
func SkipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// utf8Sanitizer replaces invalid UTF-8 sequences with '?' as data streams
// through. Replacement is one byte so the output never grows.
type utf8Sanitizer struct {
	r   io.Reader
	buf []byte
	out []byte // Sanitized bytes not yet returned
	err error  // Sticky error from r

	// Tail of the previous read that may be the start of a multi-byte rune
	pending []byte
}

func newUTF8Sanitizer(r io.Reader) *utf8Sanitizer {
	return &utf8Sanitizer{
		r:       r,
		buf:     make([]byte, 4096),
		pending: make([]byte, 0, utf8.UTFMax),
	}
}

// Read implements io.Reader.
func (s *utf8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	for len(s.out) == 0 {
		if s.err != nil {
			return 0, s.err
		}

		n := copy(s.buf, s.pending)
		s.pending = s.pending[:0]

		m, err := s.r.Read(s.buf[n:])
		n += m
		s.err = err

		w := s.sanitize(s.buf[:n], err != nil)
		s.out = s.buf[:w]
	}

	n := copy(p, s.out)
	s.out = s.out[n:]
	return n, nil
}

// sanitize rewrites data in place and returns the number of bytes to emit.
// Unless atEOF, an incomplete rune at the end is held back in pending.
func (s *utf8Sanitizer) sanitize(data []byte, atEOF bool) int {
	w := 0
	for r := 0; r < len(data); {
		c, size := utf8.DecodeRune(data[r:])
		if c == utf8.RuneError && size == 1 {
			if !atEOF && !utf8.FullRune(data[r:]) {
				s.pending = append(s.pending, data[r:]...)
				break
			}
			data[w] = '?'
			w++
			r++
			continue
		}
		copy(data[w:], data[r:r+size])
		w += size
		r += size
	}
	return w
}

// WrapForImport strips the BOM first, then sanitizes UTF-8.
func WrapForImport(r io.Reader) io.Reader {
	return newUTF8Sanitizer(SkipBOM(r))
}

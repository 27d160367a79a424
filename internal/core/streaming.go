package core

// streaming.go provides reader wrappers applied to every CSV source, whether
// an uploaded import or the registry file itself:
//
//   - BOMSkippingReader drops the UTF-8 byte order mark Excel writes on Windows
//   - UTF8Sanitizer replaces invalid UTF-8 bytes with '?'
//   - LimitReader fails with ErrFileTooLarge once a byte budget is spent
//
// WrapCSVSource applies the first two in the right order.

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// BOMSkippingReader removes a leading UTF-8 BOM, if present.
type BOMSkippingReader struct {
	r       *bufio.Reader
	checked bool
}

// NewBOMSkippingReader wraps r.
func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	return &BOMSkippingReader{r: bufio.NewReader(r)}
}

// Read implements io.Reader.
func (b *BOMSkippingReader) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true
		head, _ := b.r.Peek(len(utf8BOM))
		if bytes.Equal(head, utf8BOM) {
			if _, err := b.r.Discard(len(utf8BOM)); err != nil {
				return 0, err
			}
		}
	}
	return b.r.Read(p)
}

// UTF8Sanitizer replaces invalid UTF-8 bytes with '?' as data streams through.
// A multi-byte rune split across two reads is carried over, not replaced.
type UTF8Sanitizer struct {
	r       io.Reader
	pending []byte
}

// NewUTF8Sanitizer wraps r.
func NewUTF8Sanitizer(r io.Reader) *UTF8Sanitizer {
	return &UTF8Sanitizer{r: r, pending: make([]byte, 0, utf8.UTFMax)}
}

// Read implements io.Reader.
func (s *UTF8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	offset := copy(p, s.pending)
	s.pending = append(s.pending[:0], s.pending[offset:]...)
	if len(s.pending) > 0 {
		return offset, nil
	}

	n, err := s.r.Read(p[offset:])
	n += offset
	if n == 0 {
		return 0, err
	}

	atEOF := err == io.EOF
	data := p[:n]

	if !atEOF {
		if tail := incompleteTail(data); tail > 0 {
			s.pending = append(s.pending, data[len(data)-tail:]...)
			data = data[:len(data)-tail]
		}
	}

	if utf8.Valid(data) {
		return len(data), err
	}
	return replaceInvalid(data), err
}

// replaceInvalid rewrites data in place and returns the new length.
// Each invalid byte becomes a single '?', so the length never grows.
func replaceInvalid(data []byte) int {
	w := 0
	for r := 0; r < len(data); {
		ru, size := utf8.DecodeRune(data[r:])
		if ru == utf8.RuneError && size == 1 {
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

// incompleteTail returns how many trailing bytes form the start of a rune
// that has not been fully read yet.
func incompleteTail(data []byte) int {
	for i := 1; i <= utf8.UTFMax-1 && i <= len(data); i++ {
		b := data[len(data)-i]
		if b < 0x80 {
			return 0
		}
		if b >= 0xC0 {
			if i < runeLen(b) {
				return i
			}
			return 0
		}
	}
	return 0
}

// runeLen returns the encoded length announced by a UTF-8 lead byte.
func runeLen(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b < 0xC0:
		return 0
	case b < 0xE0:
		return 2
	case b < 0xF0:
		return 3
	default:
		return 4
	}
}

// LimitReader counts bytes and fails once more than Max have been read.
type LimitReader struct {
	r         io.Reader
	Max       int64
	BytesRead int64
}

// NewLimitReader wraps r with a byte budget. max <= 0 disables the limit.
func NewLimitReader(r io.Reader, max int64) *LimitReader {
	return &LimitReader{r: r, Max: max}
}

// Read implements io.Reader.
func (l *LimitReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.BytesRead += int64(n)
	if l.Max > 0 && l.BytesRead > l.Max {
		return n, fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, l.Max)
	}
	return n, err
}

// WrapCSVSource strips a BOM and then sanitizes UTF-8.
func WrapCSVSource(r io.Reader) io.Reader {
	return NewUTF8Sanitizer(NewBOMSkippingReader(r))
}

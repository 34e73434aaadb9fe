// Package blob provides the immutable byte container that all analysis runs over.
package blob

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"strings"
)

// Blob is a named, read-only sequence of bytes with a byte order that is
// assigned when the blob is loaded.
type Blob struct {
	name  string
	data  []byte
	order binary.ByteOrder
}

// New returns a new blob. The data slice is copied so that later changes by the
// caller do not affect the analysis. A nil order defaults to little endian.
func New(name string, data []byte, order binary.ByteOrder) *Blob {
	if order == nil {
		order = binary.LittleEndian
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return &Blob{
		name:  name,
		data:  buf,
		order: order,
	}
}

// Name returns the display name of the blob, usually the file name.
func (b *Blob) Name() string {
	return b.name
}

// Len returns the number of bytes in the blob.
func (b *Blob) Len() int {
	return len(b.data)
}

// Order returns the byte order used by Word.
func (b *Blob) Order() binary.ByteOrder {
	return b.order
}

// Bytes returns the underlying bytes. The returned slice must not be modified.
func (b *Blob) Bytes() []byte {
	return b.data
}

// Byte returns the byte at the given offset.
func (b *Blob) Byte(offset int) (byte, bool) {
	if offset < 0 || offset >= len(b.data) {
		return 0, false
	}
	return b.data[offset], true
}

// Word returns the 16 bit word at the given offset using the byte order of the blob.
func (b *Blob) Word(offset int) (uint16, bool) {
	return b.Uint16(offset, b.order)
}

// Uint16 returns the 16 bit word at the given offset using an explicit byte order.
// This is used by container formats with a header byte order that differs from
// the byte order of the payload.
func (b *Blob) Uint16(offset int, order binary.ByteOrder) (uint16, bool) {
	if offset < 0 || offset+2 > len(b.data) {
		return 0, false
	}
	return order.Uint16(b.data[offset:]), true
}

// Uint32 returns the 32 bit value at the given offset using an explicit byte order.
func (b *Blob) Uint32(offset int, order binary.ByteOrder) (uint32, bool) {
	if offset < 0 || offset+4 > len(b.data) {
		return 0, false
	}
	return order.Uint32(b.data[offset:]), true
}

// Slice returns length bytes starting at offset.
func (b *Blob) Slice(offset, length int) ([]byte, bool) {
	if offset < 0 || length < 0 || offset+length > len(b.data) {
		return nil, false
	}
	return b.data[offset : offset+length], true
}

// Match returns whether the bytes at the given offset equal the pattern.
func (b *Blob) Match(offset int, pattern []byte) bool {
	data, ok := b.Slice(offset, len(pattern))
	if !ok {
		return false
	}
	return bytes.Equal(data, pattern)
}

// HasExtension returns whether the blob name ends with one of the given file
// extensions. The comparison ignores case and extensions can be passed with or
// without the leading dot.
func (b *Blob) HasExtension(extensions ...string) bool {
	ext := strings.ToLower(filepath.Ext(b.name))
	if ext == "" {
		return false
	}
	for _, candidate := range extensions {
		candidate = strings.ToLower(candidate)
		if !strings.HasPrefix(candidate, ".") {
			candidate = "." + candidate
		}
		if ext == candidate {
			return true
		}
	}
	return false
}

// LengthBetween returns whether the blob length is within the inclusive range.
// A max of 0 means no upper bound.
func (b *Blob) LengthBetween(minimum, maximum int) bool {
	if len(b.data) < minimum {
		return false
	}
	return maximum == 0 || len(b.data) <= maximum
}

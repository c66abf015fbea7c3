package mif

import (
	"bytes"
	"fmt"
)

// RegisterWrite is the byte sequence of one configuration write,
// most significant byte first. It must not be modified once produced.
type RegisterWrite []byte

// Clone returns a modifiable copy.
func (w RegisterWrite) Clone() RegisterWrite {
	return append(RegisterWrite(nil), w...)
}

// String renders the write as [0x02 0x7F].
func (w RegisterWrite) String() string {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for n, b := range w {
		if n > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(&buf, "0x%02X", b)
	}
	buf.WriteByte(']')
	return buf.String()
}

// Image is the ordered list of writes, one per payload line, in file order.
type Image []RegisterWrite

// Payload drops the leading count record and returns the writes to apply.
func (img Image) Payload() (Image, error) {
	if len(img) == 0 {
		return nil, ErrEmptyImage
	}
	return img[1:], nil
}

// DeclaredCount decodes the count record.
func (img Image) DeclaredCount() (uint64, error) {
	if len(img) == 0 {
		return 0, ErrEmptyImage
	}
	rec := bytes.TrimLeft(img[0], "\x00")
	if len(rec) > 8 {
		return 0, fmt.Errorf("mif: count record %v overflows", img[0])
	}
	var count uint64
	for _, b := range rec {
		count = count<<8 | uint64(b)
	}
	return count, nil
}

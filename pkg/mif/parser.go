package mif

import (
	"bufio"
	"io"
	"math/big"
	"os"
	"strings"
)

const (
	commentMarker   = "--"
	headerMarker    = "="
	dataBeginMarker = ":"
	dataEndMarker   = ";"

	dataRadixKey = "DATA_RADIX"
)

// Radix is the numeric base of a field.
type Radix string

// Supported radixes.
const (
	RadixHex Radix = "HEX"
	RadixDec Radix = "DEC"
)

// Base returns the numeric base, 0 if unsupported.
func (r Radix) Base() int {
	switch r {
	case RadixHex:
		return 16
	case RadixDec:
		return 10
	}
	return 0
}

// Load reads the register image at path.
func Load(path string, minBytesPerField int) (Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	defer f.Close()
	img, err := Parse(f, minBytesPerField)
	if ioErr, ok := err.(*IOError); ok {
		ioErr.Path = path
	}
	return img, err
}

// Parse reads a register image. Every payload field is rendered to at
// least minBytesPerField bytes.
func Parse(r io.Reader, minBytesPerField int) (Image, error) {
	if minBytesPerField < 1 {
		minBytesPerField = 1
	}
	var (
		img    Image
		radix  Radix
		lineNo int
	)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		text := scanner.Text()
		line := text
		if pos := strings.Index(line, commentMarker); pos >= 0 {
			line = line[:pos]
		}
		if pos := strings.Index(line, headerMarker); pos >= 0 {
			if strings.ToUpper(strings.TrimSpace(line[:pos])) == dataRadixKey {
				radix = headerValue(line[pos+1:])
			}
			continue
		}
		begin, end := strings.Index(line, dataBeginMarker), strings.Index(line, dataEndMarker)
		if begin < 0 || end < 0 {
			continue
		}
		if end < begin {
			return nil, &FormatError{Line: lineNo, Text: text, Err: ErrMalformedLine}
		}
		write, err := encodeField(strings.TrimSpace(line[begin+1:end]), radix, minBytesPerField)
		if err != nil {
			return nil, &FormatError{Line: lineNo, Text: text, Err: err}
		}
		img = append(img, write)
	}
	if err := scanner.Err(); err != nil {
		if err == bufio.ErrTooLong {
			return nil, &FormatError{Line: lineNo + 1, Err: ErrLineTooLong}
		}
		return nil, &IOError{Err: err}
	}
	return img, nil
}

func headerValue(s string) Radix {
	if end := strings.Index(s, dataEndMarker); end >= 0 {
		s = s[:end]
	}
	return Radix(strings.ToUpper(strings.TrimSpace(s)))
}

func encodeField(field string, radix Radix, minBytes int) (RegisterWrite, error) {
	if radix == "" {
		return nil, ErrNoRadix
	}
	base := radix.Base()
	if base == 0 {
		return nil, ErrUnsupportedRadix
	}
	if strings.HasPrefix(field, "+") || strings.HasPrefix(field, "-") {
		return nil, ErrInvalidValue
	}
	val, ok := new(big.Int).SetString(field, base)
	if !ok || val.Sign() < 0 {
		return nil, ErrInvalidValue
	}
	raw := val.Bytes()
	if len(raw) >= minBytes {
		return RegisterWrite(raw), nil
	}
	write := make(RegisterWrite, minBytes)
	copy(write[minBytes-len(raw):], raw)
	return write, nil
}

package mif

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Header holds the directives written ahead of the content block.
type Header struct {
	Depth        int
	Width        int
	AddressRadix Radix
	DataRadix    Radix
}

// Register is one register setting exported from the vendor tool.
type Register struct {
	Address     uint16
	Value       byte
	Description string
}

// ErrRegistersNeedHex indicates WriteRegisters was asked for a non-HEX
// data radix; address and value are concatenated as hex digits.
var ErrRegistersNeedHex = errors.New("mif: register records require DATA_RADIX = HEX")

func (h Header) validate() error {
	if h.AddressRadix.Base() == 0 {
		return fmt.Errorf("mif: address radix %q: %w", h.AddressRadix, ErrUnsupportedRadix)
	}
	if h.DataRadix.Base() == 0 {
		return fmt.Errorf("mif: data radix %q: %w", h.DataRadix, ErrUnsupportedRadix)
	}
	return nil
}

func (h Header) writeTo(w *bufio.Writer) {
	fmt.Fprintf(w, "DEPTH = %d;\n", h.Depth)
	fmt.Fprintf(w, "WIDTH = %d;\n", h.Width)
	fmt.Fprintf(w, "ADDRESS_RADIX = %s;\n", h.AddressRadix)
	fmt.Fprintf(w, "DATA_RADIX = %s;\n", h.DataRadix)
	w.WriteString("CONTENT\n")
	w.WriteString("BEGIN\n")
}

func formatNumber(v uint64, radix Radix) string {
	return strings.ToUpper(strconv.FormatUint(v, radix.Base()))
}

// WriteDefault writes an image of Depth lines all holding value.
func WriteDefault(w io.Writer, h Header, value uint64) error {
	if err := h.validate(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	h.writeTo(bw)
	val := formatNumber(value, h.DataRadix)
	for addr := 0; addr < h.Depth; addr++ {
		fmt.Fprintf(bw, "%s\t:\t%s;\n", formatNumber(uint64(addr), h.AddressRadix), val)
	}
	bw.WriteString("END;\n")
	return bw.Flush()
}

// WriteRegisters writes the count record followed by one line per register.
func WriteRegisters(w io.Writer, h Header, regs []Register) error {
	if err := h.validate(); err != nil {
		return err
	}
	if h.DataRadix != RadixHex {
		return ErrRegistersNeedHex
	}
	bw := bufio.NewWriter(w)
	h.writeTo(bw)
	fmt.Fprintf(bw, "0\t:\t%s\t;\t -- Number of registers to change\n",
		formatNumber(uint64(len(regs)), h.DataRadix))
	for n, reg := range regs {
		fmt.Fprintf(bw, "%s\t:\t%04X%02X\t;\t--%s\n",
			formatNumber(uint64(n+1), h.AddressRadix), reg.Address, reg.Value, reg.Description)
	}
	bw.WriteString("END;\n")
	return bw.Flush()
}

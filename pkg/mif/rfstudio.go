package mif

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type rfStudioExport struct {
	Entries []rfStudioEntry `xml:",any"`
}

type rfStudioEntry struct {
	Address     string `xml:"Address"`
	Value       string `xml:"Value"`
	Description string `xml:"Description"`
}

// ReadRFStudioXML reads the register table exported by the vendor's
// configuration tool. Every child of the root element is one register.
func ReadRFStudioXML(r io.Reader) ([]Register, error) {
	var export rfStudioExport
	if err := xml.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("mif: rf studio export: %w", err)
	}
	regs := make([]Register, 0, len(export.Entries))
	for n, entry := range export.Entries {
		addr, err := parseHexField(entry.Address, 16)
		if err != nil {
			return nil, fmt.Errorf("mif: register %d address: %w", n, err)
		}
		val, err := parseHexField(entry.Value, 8)
		if err != nil {
			return nil, fmt.Errorf("mif: register %d value: %w", n, err)
		}
		regs = append(regs, Register{
			Address:     uint16(addr),
			Value:       byte(val),
			Description: strings.TrimSpace(entry.Description),
		})
	}
	return regs, nil
}

func parseHexField(s string, bits int) (uint64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return strconv.ParseUint(s, 16, bits)
}

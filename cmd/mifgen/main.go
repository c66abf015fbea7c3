package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/rksnider/SensorCollar/pkg/mif"
)

var (
	defaultValue = flag.Uint64("default", 0, "Fill every address with VALUE.")
	xmlFile      = flag.String("xml", "", "Convert an RF Studio register export.")
	output       = flag.String("o", "", "Output file, default stdout.")
	depth        = flag.Int("depth", 256, "DEPTH directive.")
	width        = flag.Int("width", 24, "WIDTH directive.")
	addrRadix    = flag.String("address-radix", "HEX", "ADDRESS_RADIX directive.")
	dataRadix    = flag.String("data-radix", "HEX", "DATA_RADIX directive.")
)

func main() {
	flag.Parse()
	h := mif.Header{
		Depth:        *depth,
		Width:        *width,
		AddressRadix: mif.Radix(strings.ToUpper(*addrRadix)),
		DataRadix:    mif.Radix(strings.ToUpper(*dataRadix)),
	}

	var w io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatalln(err)
		}
		defer f.Close()
		w = f
	}
	bw := bufio.NewWriter(w)

	var err error
	switch {
	case *xmlFile != "":
		err = writeXML(bw, h)
	case isFlagSet("default"):
		err = mif.WriteDefault(bw, h, *defaultValue)
	default:
		err = fmt.Errorf("-default or -xml is required")
	}
	if err == nil {
		err = bw.Flush()
	}
	if err != nil {
		log.Fatalln(err)
	}
}

func writeXML(w io.Writer, h mif.Header) error {
	f, err := os.Open(*xmlFile)
	if err != nil {
		return err
	}
	defer f.Close()
	regs, err := mif.ReadRFStudioXML(f)
	if err != nil {
		return fmt.Errorf("%s: %w", *xmlFile, err)
	}
	return mif.WriteRegisters(w, h, regs)
}

func isFlagSet(name string) (set bool) {
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return
}

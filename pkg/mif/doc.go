// Package mif reads and writes register images in the memory initialization
// file (MIF) text format.
package mif

// A register image describes the configuration writes applied to the
// transceiver at boot. The file carries a small header of `KEY = VALUE;`
// directives followed by a CONTENT/BEGIN ... END; block of payload lines:
//
//	DEPTH = 256;
//	WIDTH = 24;
//	ADDRESS_RADIX = HEX;
//	DATA_RADIX = HEX;
//	CONTENT
//	BEGIN
//	0	:	2	;	 -- Number of registers to change
//	1	:	00B0	;	--IOCFG3
//	2	:	0106	;	--IOCFG2
//	END;
//
// Only DATA_RADIX and the payload lines matter to the reader. The first
// payload line is a count record which consumers discard before applying
// the image.

package stream

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// DefaultMaxPacketSize limits the size of a single packet.
const DefaultMaxPacketSize = 4096

// ErrPacketTooLarge indicates a length prefix beyond MaxPacketSize.
var ErrPacketTooLarge = errors.New("packet too large")

// ReadWriter implements PacketReadWriter.
// Each packet is prefixed by its length as an unsigned varint.
type ReadWriter struct {
	MaxPacketSize int

	rw io.ReadWriter
	br *bufio.Reader
}

// New creates a ReadWriter with io.ReadWriter.
func New(s io.ReadWriter) *ReadWriter {
	return &ReadWriter{MaxPacketSize: DefaultMaxPacketSize, rw: s, br: bufio.NewReader(s)}
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	size, err := binary.ReadUvarint(p.br)
	if err != nil {
		return nil, err
	}
	if size > uint64(p.maxSize()) {
		return nil, fmt.Errorf("%d bytes: %w", size, ErrPacketTooLarge)
	}
	pkt := make([]byte, size)
	if _, err := io.ReadFull(p.br, pkt); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return pkt, nil
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	if len(pkt) > p.maxSize() {
		return fmt.Errorf("%d bytes: %w", len(pkt), ErrPacketTooLarge)
	}
	buf := make([]byte, binary.MaxVarintLen64, binary.MaxVarintLen64+len(pkt))
	n := binary.PutUvarint(buf, uint64(len(pkt)))
	_, err := p.rw.Write(append(buf[:n], pkt...))
	return err
}

// Close closes the underlying stream if it is an io.Closer.
func (p *ReadWriter) Close() error {
	if closer, ok := p.rw.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (p *ReadWriter) maxSize() int {
	if p.MaxPacketSize <= 0 {
		return DefaultMaxPacketSize
	}
	return p.MaxPacketSize
}

package relay

import (
	"time"

	"github.com/golang/protobuf/proto"
)

// Direction tells which way a packet went over the air.
type Direction int32

// Directions.
const (
	DirectionUnknown Direction = 0
	DirectionRX      Direction = 1
	DirectionTX      Direction = 2
)

var directionNames = map[int32]string{
	0: "UNKNOWN",
	1: "RX",
	2: "TX",
}

var directionValues = map[string]int32{
	"UNKNOWN": 0,
	"RX":      1,
	"TX":      2,
}

// String implements fmt.Stringer.
func (d Direction) String() string {
	return proto.EnumName(directionNames, int32(d))
}

// Envelope wraps a radio packet on the uplink.
type Envelope struct {
	Station     string    `protobuf:"bytes,1,opt,name=station,proto3" json:"station,omitempty"`
	TimestampNs int64     `protobuf:"varint,2,opt,name=timestamp_ns,json=timestampNs,proto3" json:"timestamp_ns,omitempty"`
	Payload     []byte    `protobuf:"bytes,3,opt,name=payload,proto3" json:"payload,omitempty"`
	Direction   Direction `protobuf:"varint,4,opt,name=direction,proto3,enum=relay.Direction" json:"direction,omitempty"`
}

// Reset implements proto.Message.
func (m *Envelope) Reset() { *m = Envelope{} }

// String implements proto.Message.
func (m *Envelope) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*Envelope) ProtoMessage() {}

// Time returns the timestamp.
func (m *Envelope) Time() time.Time {
	return time.Unix(0, m.TimestampNs)
}

// Encode marshals the envelope.
func (m *Envelope) Encode() ([]byte, error) {
	return proto.Marshal(m)
}

// DecodeEnvelope unmarshals an envelope.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	var m Envelope
	if err := proto.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func init() {
	proto.RegisterEnum("relay.Direction", directionNames, directionValues)
	proto.RegisterType((*Envelope)(nil), "relay.Envelope")
}

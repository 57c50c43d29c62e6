package packet

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Length is the byte length of one Packet's payload, encoded as a
// two-byte big-endian header ahead of the payload itself. Two bytes is
// enough headroom for a stored FIX record's MsgType, SendingTime, or raw
// wire-message sub-fields, none of which approach 64KiB.
type Length uint16

// LengthSize is the byte size of an encoded Length header.
const LengthSize = 2

// MaxLength is the largest payload a Length header can describe.
const MaxLength = (1 << (LengthSize << 3)) - 1

// LengthOf reports the Length of data, erroring if it exceeds MaxLength.
func LengthOf(data []byte) (Length, error) {
	if len(data) > MaxLength {
		return 0, fmt.Errorf("the data may not exceed %v bytes", MaxLength)
	}
	return Length(len(data)), nil
}

// DecodeLength decodes a Length previously encoded with Length.Bytes.
func DecodeLength(raw []byte) (Length, error) {
	if len(raw) != LengthSize {
		return 0, errors.New(fmt.Sprintf("a length field must be %v bytes long", LengthSize))
	}
	return Length(binary.BigEndian.Uint16(raw)), nil
}

// Bytes encodes a Length as a two-byte big-endian header.
func (l Length) Bytes() []byte {
	bytes := make([]byte, 2)
	binary.BigEndian.PutUint16(bytes, uint16(l))
	return bytes
}

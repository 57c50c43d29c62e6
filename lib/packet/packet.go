// Package packet implements the length-prefixed byte framing
// fix/store/badgerstore uses to pack a Record's variable-length
// sub-fields (MsgType, SendingTime, Raw) into a single value: each
// sub-field is written with its own two-byte length header so the three
// can be told apart again on read without a delimiter that might appear
// inside Raw itself.
package packet

import (
	"errors"
	"io"
)

// Packet is one length-prefixed sub-field.
type Packet []byte

// New constructs a Packet from a sequence of bytes.
func New(data []byte) Packet {
	return data
}

// WriteTo writes a packet's length header followed by its bytes to w.
func (p Packet) WriteTo(w io.Writer) (n int64, err error) {
	length, err := LengthOf(p)
	if err != nil {
		return
	}
	n1, err := w.Write(length.Bytes())
	if err != nil {
		return
	}
	n2, err := w.Write(p)
	n = int64(n1 + n2)
	return
}

// Decode decodes a single length-prefixed Packet from a byte slice that
// holds exactly one packet and nothing else.
func Decode(raw []byte) (packet Packet, err error) {
	if len(raw) < LengthSize {
		err = errors.New("missing length header")
		return
	}
	length, err := DecodeLength(raw[:LengthSize])
	if err != nil {
		return
	}
	if len(raw)-LengthSize != int(length) {
		err = errors.New("length of remaining bytes does not conform to header value")
		return
	}
	packet = New(raw[LengthSize:])
	return
}

// DecodeFrom reads and decodes one length-prefixed Packet from a stream
// that holds one or more packets in a row, advancing r past it.
func DecodeFrom(r io.Reader) (packet Packet, err error) {
	var header [LengthSize]byte
	_, err = io.ReadFull(r, header[:])
	if err != nil {
		return
	}
	length, err := DecodeLength(header[:])
	if err != nil {
		return
	}
	packet = make([]byte, length)
	_, err = io.ReadFull(r, packet)
	return
}

// Sequence is an ordered group of Packets written back to back, each with
// its own length header, so DecodeFrom can peel them off one at a time in
// the same order without knowing their individual sizes ahead of time.
type Sequence []Packet

// NewSequence constructs a Sequence from multiple byte slices, in order.
func NewSequence(packets ...[]byte) Sequence {
	sequence := make(Sequence, len(packets))
	for i, packet := range packets {
		sequence[i] = packet
	}
	return sequence
}

// WriteTo writes every Packet in the Sequence to w, in order.
func (p Sequence) WriteTo(w io.Writer) (n int64, err error) {
	for _, packet := range p {
		var m int64
		m, err = packet.WriteTo(w)
		n += m
		if err != nil {
			return
		}
	}
	return
}

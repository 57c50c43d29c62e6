package packet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

var msgType = []byte("0")
var sendingTime = []byte("20260806-12:00:00.000")

func TestPacket_WriteTo(t *testing.T) {
	l, err := LengthOf(msgType)
	assert.Nil(t, err)
	var b bytes.Buffer
	p := New(msgType)
	n, err := p.WriteTo(&b)
	assert.Nil(t, err)
	assert.EqualValues(t, len(msgType)+LengthSize, n)
	assert.EqualValues(t, l.Bytes(), b.Bytes()[:LengthSize])
	assert.EqualValues(t, msgType, b.Bytes()[LengthSize:])
}

func TestPacket_WriteTo_TwoPacketsBackToBack(t *testing.T) {
	l1, err := LengthOf(msgType)
	assert.Nil(t, err)
	l2, err := LengthOf(sendingTime)
	assert.Nil(t, err)
	var b bytes.Buffer
	p1 := New(msgType)
	n1, err := p1.WriteTo(&b)
	assert.Nil(t, err)
	assert.EqualValues(t, len(msgType)+LengthSize, n1)
	assert.EqualValues(t, l1.Bytes(), b.Bytes()[:LengthSize])
	assert.EqualValues(t, msgType, b.Bytes()[LengthSize:])
	p2 := New(sendingTime)
	n2, err := p2.WriteTo(&b)
	assert.Nil(t, err)
	assert.EqualValues(t, len(sendingTime)+LengthSize, n2)
	assert.EqualValues(t, l2.Bytes(), b.Bytes()[n1:n1+LengthSize])
	assert.EqualValues(t, sendingTime, b.Bytes()[n1+LengthSize:])
}

func TestDecode(t *testing.T) {
	var b bytes.Buffer
	_, err := New(msgType).WriteTo(&b)
	assert.Nil(t, err)
	data, err := Decode(b.Bytes())
	assert.Nil(t, err)
	assert.EqualValues(t, msgType, data)
}

func TestDecodeFrom(t *testing.T) {
	var b bytes.Buffer
	_, err := New(msgType).WriteTo(&b)
	assert.Nil(t, err)
	data, err := DecodeFrom(&b)
	assert.Nil(t, err)
	assert.EqualValues(t, msgType, data)
}

// TestSequence_RoundTrip mirrors fix/store/badgerstore's use of Sequence
// to frame a Record's MsgType, SendingTime, and raw wire bytes together,
// then peel them back apart in order with DecodeFrom.
func TestSequence_RoundTrip(t *testing.T) {
	raw := []byte("8=FIX.4.2\x019=5\x0135=0\x0110=000\x01")
	seq := NewSequence(msgType, sendingTime, raw)

	var b bytes.Buffer
	_, err := seq.WriteTo(&b)
	assert.Nil(t, err)

	gotType, err := DecodeFrom(&b)
	assert.Nil(t, err)
	assert.EqualValues(t, msgType, gotType)

	gotTime, err := DecodeFrom(&b)
	assert.Nil(t, err)
	assert.EqualValues(t, sendingTime, gotTime)

	gotRaw, err := DecodeFrom(&b)
	assert.Nil(t, err)
	assert.EqualValues(t, raw, gotRaw)
}

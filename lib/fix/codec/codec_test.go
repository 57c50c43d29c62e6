package codec

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solarflux/fixengine/lib/fix/dict"
	"github.com/solarflux/fixengine/lib/fix/message"
)

func testDict(t *testing.T) *dict.Dictionary {
	t.Helper()
	d, err := dict.Builtin("FIX.4.2")
	require.NoError(t, err)
	return d
}

func TestCodec_EncodeDecode_RoundTrip(t *testing.T) {
	c := New(testDict(t))
	now := time.Date(2026, 8, 6, 12, 30, 0, 0, time.UTC)

	msg := message.New(message.MsgTypeLogon)
	msg.Header.BeginString = "FIX.4.2"
	msg.Header.SendingTime = now
	msg.PrepareOutgoing("INITIATOR", "ACCEPTOR", 1, now)
	msg.Body.SetInt(message.TagEncryptMethod, 0)
	msg.Body.SetInt(message.TagHeartBtInt, 30)

	raw, err := c.Encode(msg)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "8=FIX.4.2\x01")
	assert.Contains(t, string(raw), "35=A\x01")
	assert.True(t, bytes.HasSuffix(raw, []byte{SOH}))

	decoded, err := c.NewDecoder(bytes.NewReader(raw)).Decode()
	require.NoError(t, err)
	assert.Equal(t, "FIX.4.2", decoded.Header.BeginString)
	assert.Equal(t, message.MsgTypeLogon, decoded.Header.MsgType)
	assert.Equal(t, "INITIATOR", decoded.Header.SenderCompID)
	assert.Equal(t, "ACCEPTOR", decoded.Header.TargetCompID)
	assert.Equal(t, 1, decoded.Header.MsgSeqNum)
	assert.True(t, decoded.Header.SendingTime.Equal(now))

	hb, ok := decoded.Body.GetInt(message.TagHeartBtInt)
	require.True(t, ok)
	assert.Equal(t, 30, hb)
}

func TestCodec_Decode_ChecksumMismatch(t *testing.T) {
	c := New(testDict(t))
	now := time.Now().UTC()
	msg := message.New(message.MsgTypeHeartbeat)
	msg.Header.BeginString = "FIX.4.2"
	msg.PrepareOutgoing("A", "B", 1, now)

	raw, err := c.Encode(msg)
	require.NoError(t, err)

	corrupted := append([]byte(nil), raw...)
	// mangle the checksum digit before its trailing SOH
	if corrupted[len(corrupted)-2] == '9' {
		corrupted[len(corrupted)-2] = '8'
	} else {
		corrupted[len(corrupted)-2] = '9'
	}

	_, err = c.NewDecoder(bytes.NewReader(corrupted)).Decode()
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestCodec_Decode_MultipleFramesOnOneStream(t *testing.T) {
	c := New(testDict(t))
	now := time.Now().UTC()

	m1 := message.New(message.MsgTypeHeartbeat)
	m1.Header.BeginString = "FIX.4.2"
	m1.PrepareOutgoing("A", "B", 1, now)
	m2 := message.New(message.MsgTypeTestRequest)
	m2.Header.BeginString = "FIX.4.2"
	m2.PrepareOutgoing("A", "B", 2, now)
	m2.Body.Set(message.TagTestReqID, "req-1")

	raw1, err := c.Encode(m1)
	require.NoError(t, err)
	raw2, err := c.Encode(m2)
	require.NoError(t, err)

	stream := bytes.NewReader(append(raw1, raw2...))
	dec := c.NewDecoder(stream)

	first, err := dec.Decode()
	require.NoError(t, err)
	assert.Equal(t, message.MsgTypeHeartbeat, first.Header.MsgType)

	second, err := dec.Decode()
	require.NoError(t, err)
	assert.Equal(t, message.MsgTypeTestRequest, second.Header.MsgType)
	reqID, _ := second.Body.Get(message.TagTestReqID)
	assert.Equal(t, "req-1", reqID)
}

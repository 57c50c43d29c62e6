package message

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFields_SetGet(t *testing.T) {
	var f Fields
	f.Set(TagHeartBtInt, "30")
	v, ok := f.Get(TagHeartBtInt)
	require.True(t, ok)
	assert.Equal(t, "30", v)

	f.Set(TagHeartBtInt, "45")
	v, _ = f.Get(TagHeartBtInt)
	assert.Equal(t, "45", v)

	n, ok := f.GetInt(TagHeartBtInt)
	require.True(t, ok)
	assert.Equal(t, 45, n)
}

func TestMsgType_IsAdmin(t *testing.T) {
	assert.True(t, MsgTypeLogon.IsAdmin())
	assert.True(t, MsgTypeHeartbeat.IsAdmin())
	assert.False(t, MsgType("D").IsAdmin())
}

func TestMessage_PrepareOutgoing(t *testing.T) {
	m := New(MsgTypeLogon)
	now := time.Date(2026, 8, 6, 12, 0, 0, 0, time.UTC)
	m.PrepareOutgoing("SENDER", "TARGET", 7, now)

	assert.Equal(t, "SENDER", m.Header.SenderCompID)
	assert.Equal(t, "TARGET", m.Header.TargetCompID)
	assert.Equal(t, 7, m.Header.MsgSeqNum)
	assert.True(t, m.Header.SendingTime.Equal(now))
	assert.True(t, m.IsAdmin())
}

func TestMessage_Clone_IndependentBody(t *testing.T) {
	m := New(MsgTypeHeartbeat)
	m.Body.Set(TagTestReqID, "1")

	clone := m.Clone()
	clone.Body.Set(TagTestReqID, "2")

	orig, _ := m.Body.Get(TagTestReqID)
	cloned, _ := clone.Body.Get(TagTestReqID)
	assert.Equal(t, "1", orig)
	assert.Equal(t, "2", cloned)
}

func TestMessage_MarkPossDup(t *testing.T) {
	m := New(MsgTypeLogon)
	orig := time.Date(2026, 8, 6, 11, 0, 0, 0, time.UTC)
	m.MarkPossDup(orig)
	assert.True(t, m.Header.PossDupFlag)
	assert.True(t, m.Header.OrigSendingTime.Equal(orig))
}

package message

import "time"

// Message is a decoded or to-be-encoded FIX message: a typed Header and
// Trailer plus the remaining body fields in wire order. Body never
// contains header or trailer tags; those live exclusively on Header and
// Trailer so session code can work with them without re-parsing strings.
type Message struct {
	Header Header
	Body   Fields
	Trailer Trailer
}

// New constructs an outbound message with the given admin or application
// MsgType. SenderCompID, TargetCompID, MsgSeqNum and SendingTime are filled
// in by the session layer immediately before encoding.
func New(msgType MsgType) *Message {
	return &Message{
		Header: Header{MsgType: msgType},
	}
}

// Clone returns a deep-enough copy of m suitable for independent mutation
// (used when resending a stored message with PossDupFlag set).
func (m *Message) Clone() *Message {
	clone := *m
	clone.Body = m.Body.Clone()
	return &clone
}

// IsAdmin reports whether this message's MsgType is one of the
// administrative sub-protocol types.
func (m *Message) IsAdmin() bool {
	return m.Header.MsgType.IsAdmin()
}

// PrepareOutgoing stamps the fields that only the sending session knows at
// send time: sender/target identity, the next outgoing sequence number,
// and the current sending time.
func (m *Message) PrepareOutgoing(senderCompID, targetCompID string, seqNum int, sendingTime time.Time) {
	m.Header.SenderCompID = senderCompID
	m.Header.TargetCompID = targetCompID
	m.Header.MsgSeqNum = seqNum
	m.Header.SendingTime = sendingTime
}

// MarkPossDup flags m as a retransmission of a previously sent message,
// recording the original sending time per spec.md's resend semantics.
func (m *Message) MarkPossDup(origSendingTime time.Time) {
	m.Header.PossDupFlag = true
	m.Header.OrigSendingTime = origSendingTime
}

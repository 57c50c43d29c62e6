package message

import "time"

// Header holds the fields common to every FIX message, as named in
// spec.md's data model. BodyLength and CheckSum are framing artifacts
// computed by the codec at encode time and verified at decode time; they
// are not meaningful inputs when building a message to send.
type Header struct {
	BeginString     string
	BodyLength      int
	MsgType         MsgType
	SenderCompID    string
	TargetCompID    string
	MsgSeqNum       int
	SendingTime     time.Time
	PossDupFlag     bool
	PossResend      bool
	OrigSendingTime time.Time
}

// Trailer holds the fields common to every FIX message's trailer.
type Trailer struct {
	CheckSum string
}

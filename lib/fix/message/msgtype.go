package message

// MsgType is the value of tag 35. Admin types are a closed set; all other
// values are treated as application messages and passed through unparsed.
type MsgType string

const (
	MsgTypeHeartbeat      MsgType = "0"
	MsgTypeTestRequest    MsgType = "1"
	MsgTypeResendRequest  MsgType = "2"
	MsgTypeReject         MsgType = "3"
	MsgTypeSequenceReset  MsgType = "4"
	MsgTypeLogout         MsgType = "5"
	MsgTypeLogon          MsgType = "A"
)

// IsAdmin reports whether t is one of the administrative message types
// handled directly by the session layer rather than forwarded to the
// application.
func (t MsgType) IsAdmin() bool {
	switch t {
	case MsgTypeHeartbeat, MsgTypeTestRequest, MsgTypeResendRequest,
		MsgTypeReject, MsgTypeSequenceReset, MsgTypeLogout, MsgTypeLogon:
		return true
	default:
		return false
	}
}

func (t MsgType) String() string { return string(t) }

package admin

import "github.com/solarflux/fixengine/lib/fix/message"

// RejectReason mirrors the small set of SessionRejectReason values the
// session layer itself can produce (as opposed to application-level
// business rejects, which are out of scope per spec.md's Non-goals).
type RejectReason int

const (
	RejectInvalidTagNumber        RejectReason = 0
	RejectRequiredTagMissing      RejectReason = 1
	RejectTagNotDefinedForMessage RejectReason = 2
	RejectValueIncorrect          RejectReason = 5
	RejectIncorrectDataFormat     RejectReason = 6
	RejectCompIDProblem           RejectReason = 9
	RejectSendingTimeAccuracy     RejectReason = 10
	RejectInvalidMsgType          RejectReason = 11
)

// RejectParams describes an outbound session-level Reject.
type RejectParams struct {
	RefSeqNum  int
	RefTagID   int
	RefMsgType string
	Reason     RejectReason
	Text       string
}

// BuildReject constructs an outbound Reject referencing the offending
// message, per spec.md §7: the session FSM is the sole authority that
// decides whether a protocol error becomes a Reject or a Logout, and
// this is the message it emits for the Reject branch.
func BuildReject(p RejectParams) *message.Message {
	m := message.New(message.MsgTypeReject)
	m.Body.SetInt(message.TagRefSeqNum, p.RefSeqNum)
	if p.RefTagID != 0 {
		m.Body.SetInt(message.TagRefTagID, p.RefTagID)
	}
	if p.RefMsgType != "" {
		m.Body.Set(message.TagRefMsgType, p.RefMsgType)
	}
	m.Body.SetInt(message.TagSessionRejectReason, int(p.Reason))
	if p.Text != "" {
		m.Body.Set(message.TagText, p.Text)
	}
	return m
}

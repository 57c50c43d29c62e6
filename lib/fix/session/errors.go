package session

import (
	"fmt"

	"github.com/solarflux/fixengine/lib/fix/admin"
)

// Disposition tells the engine runner what to do with the transport once
// a ProtocolError has been handled, per spec.md §7's rule that the FSM
// alone decides between a Reject (stay connected) and a Logout (tear
// down).
type Disposition int

const (
	// DispositionReject means the error produced a session-level Reject
	// but the session remains AUTHENTICATED.
	DispositionReject Disposition = iota
	// DispositionLogout means the error forces an orderly logout.
	DispositionLogout
	// DispositionDrop means the error forces an immediate, non-orderly
	// transport teardown (no Logout exchange attempted), reserved for
	// failures severe enough that continuing to speak the protocol to
	// this peer isn't safe (e.g. a checksum failure suggests a corrupted
	// stream, not a single bad message).
	DispositionDrop
)

// ProtocolError is the distinguished error type spec.md §7 requires: a
// session-protocol violation carries its own disposition so the FSM
// never has to string-match a generic error to decide what to do.
type ProtocolError struct {
	Disposition  Disposition
	Reason       string
	RefSeqNum    int
	RefTagID     int
	RefMsgType   string
	RejectReason admin.RejectReason
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("session: protocol error (seq=%d): %s", e.RefSeqNum, e.Reason)
}

// NewRejectError builds a ProtocolError whose disposition is Reject.
func NewRejectError(refSeqNum int, reason string) *ProtocolError {
	return &ProtocolError{Disposition: DispositionReject, RefSeqNum: refSeqNum, Reason: reason, RejectReason: admin.RejectValueIncorrect}
}

// NewHeaderRejectError builds a Reject-disposition ProtocolError for one
// of spec.md §4.2's header-level rejection criteria: missing required
// field, CompID/BeginString mismatch, PossDupFlag without
// OrigSendingTime, or a stale SendingTime. refTagID, when non-zero,
// becomes the Reject's RefTagID.
func NewHeaderRejectError(refSeqNum, refTagID int, rejectReason admin.RejectReason, reason string) *ProtocolError {
	return &ProtocolError{
		Disposition:  DispositionReject,
		RefSeqNum:    refSeqNum,
		RefTagID:     refTagID,
		RejectReason: rejectReason,
		Reason:       reason,
	}
}

// NewUnknownMsgTypeError builds a Reject-disposition ProtocolError for an
// unrecognized MsgType, per spec.md §4.2's rejection criteria.
func NewUnknownMsgTypeError(refSeqNum int, msgType string) *ProtocolError {
	return &ProtocolError{
		Disposition:  DispositionReject,
		RefSeqNum:    refSeqNum,
		RefMsgType:   msgType,
		RejectReason: admin.RejectInvalidMsgType,
		Reason:       fmt.Sprintf("unknown MsgType %q", msgType),
	}
}

// NewLogoutError builds a ProtocolError whose disposition is Logout.
func NewLogoutError(refSeqNum int, reason string) *ProtocolError {
	return &ProtocolError{Disposition: DispositionLogout, RefSeqNum: refSeqNum, Reason: reason}
}

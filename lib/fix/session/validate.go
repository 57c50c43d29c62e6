package session

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/solarflux/fixengine/lib/fix/admin"
	"github.com/solarflux/fixengine/lib/fix/codec"
	"github.com/solarflux/fixengine/lib/fix/dict"
	"github.com/solarflux/fixengine/lib/fix/message"
)

// validateHeader applies spec.md §4.2's rejection criteria to an inbound
// message's header: a missing required field, a BeginString or
// SenderCompID/TargetCompID mismatch, PossDupFlag=Y without
// OrigSendingTime, a SendingTime outside the configured accuracy window,
// or an unknown MsgType. It runs before checkIncomingSeq's result is
// acted on, so a header violation never advances incoming_seqnum even
// when the MsgSeqNum itself was in order.
func (m *Machine) validateHeader(msg *message.Message) *ProtocolError {
	h := msg.Header

	if tag := firstMissingHeaderTag(h); tag != 0 {
		return NewHeaderRejectError(h.MsgSeqNum, int(tag), admin.RejectRequiredTagMissing, "missing required header field")
	}
	if h.BeginString != m.cfg.Identity.BeginString {
		return NewHeaderRejectError(h.MsgSeqNum, int(message.TagBeginString), admin.RejectValueIncorrect, "BeginString mismatch")
	}
	if h.SenderCompID != m.cfg.Identity.TargetCompID || h.TargetCompID != m.cfg.Identity.SenderCompID {
		return NewHeaderRejectError(h.MsgSeqNum, int(message.TagSenderCompID), admin.RejectCompIDProblem, "SenderCompID/TargetCompID mismatch")
	}
	if h.PossDupFlag && h.OrigSendingTime.IsZero() {
		return NewHeaderRejectError(h.MsgSeqNum, int(message.TagOrigSendingTime), admin.RejectRequiredTagMissing, "PossDupFlag without OrigSendingTime")
	}
	if absDuration(time.Now().UTC().Sub(h.SendingTime)) > m.cfg.SendingTimeAccuracy {
		return NewHeaderRejectError(h.MsgSeqNum, int(message.TagSendingTime), admin.RejectSendingTimeAccuracy, "SendingTime outside accuracy window")
	}
	def, ok := m.cd.Dict.Message(string(h.MsgType))
	if !ok {
		return NewUnknownMsgTypeError(h.MsgSeqNum, string(h.MsgType))
	}
	return m.validateBody(h.MsgSeqNum, def, msg.Body)
}

// validateBody checks every non-header field of an inbound message
// against def: an undeclared tag number is RejectInvalidTagNumber, a tag
// the dictionary knows but this MsgType does not carry is
// RejectTagNotDefinedForMessage, and a value that does not parse as the
// field's declared type is RejectIncorrectDataFormat.
func (m *Machine) validateBody(refSeqNum int, def dict.MessageDef, body message.Fields) *ProtocolError {
	allowed := make(map[int]bool, len(def.Fields))
	for _, tag := range def.Fields {
		allowed[tag] = true
	}
	for _, f := range body {
		tag := int(f.Tag)
		fd, ok := m.cd.Dict.Field(tag)
		if !ok {
			return NewHeaderRejectError(refSeqNum, tag, admin.RejectInvalidTagNumber, "unknown tag number")
		}
		if !allowed[tag] {
			return NewHeaderRejectError(refSeqNum, tag, admin.RejectTagNotDefinedForMessage, "tag not defined for this message type")
		}
		if !fieldFormatValid(fd.Type, f.Value) {
			return NewHeaderRejectError(refSeqNum, tag, admin.RejectIncorrectDataFormat, "value does not match the field's declared type")
		}
	}
	return nil
}

// fieldFormatValid reports whether value parses as typ. String-shaped
// types (including enumerations and repeating-group members not modeled
// here) are accepted as-is; only the types with a strict wire grammar are
// actually checked.
func fieldFormatValid(typ dict.FieldType, value string) bool {
	switch typ {
	case dict.TypeInt, dict.TypeSeqNum, dict.TypeNumInGroup, dict.TypeLength:
		_, err := strconv.Atoi(value)
		return err == nil
	case dict.TypeFloat, dict.TypeQty, dict.TypePrice:
		_, err := decimal.NewFromString(value)
		return err == nil
	case dict.TypeBoolean:
		return value == "Y" || value == "N"
	case dict.TypeChar:
		return len(value) == 1
	case dict.TypeUTCTimestamp:
		_, err := codec.ParseUTCTimestamp(value)
		return err == nil
	default:
		return true
	}
}

// firstMissingHeaderTag reports the first of the always-present header
// fields (spec.md §3) that h is missing, or 0 if none are.
func firstMissingHeaderTag(h message.Header) message.Tag {
	switch {
	case h.SenderCompID == "":
		return message.TagSenderCompID
	case h.TargetCompID == "":
		return message.TagTargetCompID
	case h.SendingTime.IsZero():
		return message.TagSendingTime
	default:
		return 0
	}
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

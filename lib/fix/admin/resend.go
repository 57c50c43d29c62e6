package admin

import (
	"github.com/solarflux/fixengine/lib/fix/message"
	"github.com/solarflux/fixengine/lib/fix/store"
)

// BuildResendRequest constructs an outbound ResendRequest for the
// inclusive range [beginSeqNo, endSeqNo]. endSeqNo == 0 means "through
// whatever the peer's highest sequence number turns out to be", the
// conventional FIX "0 = infinity" sentinel for this field.
func BuildResendRequest(beginSeqNo, endSeqNo int) *message.Message {
	m := message.New(message.MsgTypeResendRequest)
	m.Body.SetInt(message.TagBeginSeqNo, beginSeqNo)
	m.Body.SetInt(message.TagEndSeqNo, endSeqNo)
	return m
}

// ParsedResendRequest is the validated content of a received
// ResendRequest.
type ParsedResendRequest struct {
	BeginSeqNo int
	EndSeqNo   int
}

// ParseResendRequest extracts BeginSeqNo/EndSeqNo from m.
func ParseResendRequest(m *message.Message) (ParsedResendRequest, bool) {
	begin, ok := m.Body.GetInt(message.TagBeginSeqNo)
	if !ok {
		return ParsedResendRequest{}, false
	}
	end, _ := m.Body.GetInt(message.TagEndSeqNo)
	return ParsedResendRequest{BeginSeqNo: begin, EndSeqNo: end}, true
}

// ResendStep is one unit of a resend plan: either a verbatim
// retransmission of a previously sent application message, or a
// SequenceReset-GapFill covering a run of administrative or missing
// sequence numbers that need not be replayed.
type ResendStep struct {
	GapFill      bool
	GapFillUpTo  int // NewSeqNo for a GapFill step: first sequence number after the run.
	GapFillFirst int // MsgSeqNum the GapFill message itself should carry: start of the run.
	Record       store.Record
}

// Plan builds the sequence of steps needed to satisfy a ResendRequest for
// [beginSeqNo, endSeqNo], given the previously logged outgoing records in
// that range (which ReadOutgoing already returns in ascending SeqNum
// order). Consecutive administrative (or missing, defensively) sequence
// numbers are coalesced into a single GapFill step rather than resent
// individually; consecutive application messages are each retransmitted
// verbatim with PossDupFlag. This coalescing technique is grounded on the
// contiguous-run bookkeeping style of the block-acknowledgement bitmap in
// _examples/jonasberge-thk-praxisprojekt/lib/session/transfer/sender.go,
// generalized from byte-block chunks to already-serialized log entries.
//
// endSeqNo == 0 is resolved by the caller to the session's current
// highest outgoing sequence number before calling Plan; records must span
// exactly [beginSeqNo, endSeqNo].
func Plan(records []store.Record, beginSeqNo, endSeqNo int) []ResendStep {
	byNum := make(map[int]store.Record, len(records))
	for _, r := range records {
		byNum[r.SeqNum] = r
	}

	var steps []ResendStep
	runStart := 0

	flushRun := func(runEnd int) {
		if runStart == 0 {
			return
		}
		steps = append(steps, ResendStep{
			GapFill:      true,
			GapFillFirst: runStart,
			GapFillUpTo:  runEnd + 1,
		})
		runStart = 0
	}

	for n := beginSeqNo; n <= endSeqNo; n++ {
		rec, ok := byNum[n]
		isAdmin := !ok || message.MsgType(rec.MsgType).IsAdmin()
		if isAdmin {
			if runStart == 0 {
				runStart = n
			}
			continue
		}
		flushRun(n - 1)
		steps = append(steps, ResendStep{Record: rec})
	}
	flushRun(endSeqNo)

	return steps
}

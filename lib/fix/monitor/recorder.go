package monitor

import (
	"github.com/solarflux/fixengine/lib/fix/session"
)

// Hub implements session.Recorder: every call here runs on the
// Machine's single event-loop goroutine, so each must return quickly
// and never block on the hub's own dispatch goroutine or on a slow
// WebSocket client.
var _ session.Recorder = (*Hub)(nil)

func (h *Hub) RecordState(id session.Identity, state session.State) {
	h.metrics.SetSessionState(id, state)
	h.publish(KindState, id, session.Name(state))
}

func (h *Hub) RecordSent(id session.Identity, msgType string) {
	h.metrics.IncMessagesSent(id, msgType)
	h.publish(KindSent, id, msgType)
}

func (h *Hub) RecordReceived(id session.Identity, msgType string) {
	h.metrics.IncMessagesReceived(id, msgType)
	h.publish(KindReceived, id, msgType)
}

func (h *Hub) RecordSequenceGap(id session.Identity) {
	h.metrics.IncSequenceGaps(id)
	h.publish(KindSequenceGap, id, "")
}

func (h *Hub) RecordResendRequest(id session.Identity) {
	h.metrics.IncResendRequests(id)
	h.publish(KindResendRequest, id, "")
}

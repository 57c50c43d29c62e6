package admin

import "github.com/solarflux/fixengine/lib/fix/message"

// BuildHeartbeat constructs an outbound Heartbeat. testReqID is non-empty
// only when answering a TestRequest, per spec.md §4.2's heartbeat/
// test-request pairing rule.
func BuildHeartbeat(testReqID string) *message.Message {
	m := message.New(message.MsgTypeHeartbeat)
	if testReqID != "" {
		m.Body.Set(message.TagTestReqID, testReqID)
	}
	return m
}

// BuildTestRequest constructs an outbound TestRequest carrying testReqID,
// sent when the session has been idle past its heartbeat interval and
// wants to confirm the peer is still alive before declaring it dead.
func BuildTestRequest(testReqID string) *message.Message {
	m := message.New(message.MsgTypeTestRequest)
	m.Body.Set(message.TagTestReqID, testReqID)
	return m
}

// HeartbeatTestReqID returns the TestReqID a received Heartbeat is
// answering, if any.
func HeartbeatTestReqID(m *message.Message) (string, bool) {
	return m.Body.Get(message.TagTestReqID)
}

// TestRequestID returns the TestReqID carried by a received TestRequest.
func TestRequestID(m *message.Message) (string, bool) {
	return m.Body.Get(message.TagTestReqID)
}

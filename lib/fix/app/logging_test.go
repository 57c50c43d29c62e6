package app

import (
	"testing"

	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap"

	"github.com/solarflux/fixengine/lib/fix/message"
)

func testIdentity() message.Identity {
	return message.Identity{BeginString: "FIX.4.2", SenderCompID: "US", TargetCompID: "THEM"}
}

func newObservedLoggingApplication() (LoggingApplication, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)
	return LoggingApplication{Log: zap.New(core)}, logs
}

func TestLoggingApplication_OnLogon_LogsAndAccepts(t *testing.T) {
	a, logs := newObservedLoggingApplication()

	decision := a.OnLogon(testIdentity(), message.New(message.MsgTypeLogon))

	if decision.Reject {
		t.Fatalf("expected Accept, got Reject: %v", decision)
	}
	if logs.Len() != 1 {
		t.Fatalf("expected 1 log entry, got %d", logs.Len())
	}
}

func TestLoggingApplication_OnApplicationMessage_LogsMsgType(t *testing.T) {
	a, logs := newObservedLoggingApplication()

	a.OnApplicationMessage(testIdentity(), message.New(message.MsgType("D")))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	found := false
	for _, f := range entries[0].Context {
		if f.Key == "msg_type" && f.String == "D" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected msg_type=D field, got %+v", entries[0].Context)
	}
}

func TestLoggingApplication_OnLogout_Logs(t *testing.T) {
	a, logs := newObservedLoggingApplication()
	a.OnLogout(testIdentity(), "done")
	if logs.Len() != 1 {
		t.Fatalf("expected 1 log entry, got %d", logs.Len())
	}
}

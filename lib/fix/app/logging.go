package app

import (
	"go.uber.org/zap"

	"github.com/solarflux/fixengine/lib/fix/message"
)

// LoggingApplication accepts every Logon and logs each lifecycle
// callback through zap, in the teacher's idiom of structured logging at
// integration boundaries. It carries no order/matching semantics,
// per spec.md's Non-goals; embedding programs with real application
// logic should implement Application directly rather than embed this.
type LoggingApplication struct {
	Log *zap.Logger
}

func (a LoggingApplication) OnLogon(id message.Identity, logon *message.Message) LogonDecision {
	a.Log.Info("logon", zap.Stringer("session", id))
	return Accept
}

func (a LoggingApplication) OnLogonReject(id message.Identity, reason string) {
	a.Log.Warn("logon rejected", zap.Stringer("session", id), zap.String("reason", reason))
}

func (a LoggingApplication) OnLogout(id message.Identity, text string) {
	a.Log.Info("logout", zap.Stringer("session", id), zap.String("text", text))
}

func (a LoggingApplication) OnApplicationMessage(id message.Identity, msg *message.Message) {
	a.Log.Info("application message", zap.Stringer("session", id), zap.String("msg_type", string(msg.Header.MsgType)))
}

func (a LoggingApplication) OnAdminReject(id message.Identity, msg *message.Message) {
	a.Log.Warn("admin reject received", zap.Stringer("session", id), zap.Int("ref_seq_num", msg.Header.MsgSeqNum))
}

var _ Application = LoggingApplication{}

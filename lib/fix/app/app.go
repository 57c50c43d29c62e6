// Package app defines the integration shell spec.md §2 names as L4: the
// hook an embedding program implements to react to session lifecycle
// events and exchange application-level messages, without needing to
// know anything about sequencing, timers, or the wire format.
package app

import (
	"github.com/solarflux/fixengine/lib/fix/message"
)

// LogonDecision is the typed result OnLogon returns, replacing the
// exception-as-reject pattern of the Python reference per spec.md §9's
// "Design Notes": the FSM decides the wire action (Logout vs proceeding
// to AUTHENTICATED) purely from this value, never from a panic or a
// sentinel error type the caller has to know to catch.
type LogonDecision struct {
	Reject bool
	Reason string
}

// Accept is the zero LogonDecision, accepting the Logon.
var Accept = LogonDecision{}

// Application is implemented by the embedding program. All methods are
// called from the owning session's single event-loop goroutine (see
// spec.md §5); implementations must not block on anything that itself
// waits on that session, or they will deadlock it.
type Application interface {
	// OnLogon is called after the session has validated an incoming
	// Logon's administrative fields (EncryptMethod, HeartBtInt) but
	// before transitioning to AUTHENTICATED, giving the application a
	// chance to apply its own acceptance policy (credentials, CompID
	// allow-list, trading hours, ...).
	OnLogon(id message.Identity, logon *message.Message) LogonDecision

	// OnLogonReject is called when a received Logon fails validation (a
	// malformed Logon, or on the initiator a HeartBtInt that differs from
	// the configured one), in which case the transport is closed without a
	// Logout being sent, and when OnLogon above rejects the peer's Logon,
	// after the Logout carrying the reason has been sent. It is not called
	// when the peer answers this session's own Logon with a Logout.
	OnLogonReject(id message.Identity, reason string)

	// OnLogout is called once the session has reached CLOSED at the end
	// of the logout handshake, whether initiated locally or by the peer,
	// and also when an authenticated session ends because the peer stopped
	// answering or the transport was lost.
	OnLogout(id message.Identity, text string)

	// OnApplicationMessage delivers one in-sequence, non-administrative
	// message. Session-layer concerns (duplicate detection, sequencing)
	// are already resolved by the time this is called.
	OnApplicationMessage(id message.Identity, msg *message.Message)

	// OnAdminReject is called when the peer sends a session-level Reject
	// referencing a message this session sent.
	OnAdminReject(id message.Identity, msg *message.Message)
}

// NopApplication is a minimal Application that accepts every Logon and
// otherwise does nothing, useful for tests and for embedding programs
// that only care about a subset of callbacks (embed it and override).
type NopApplication struct{}

func (NopApplication) OnLogon(message.Identity, *message.Message) LogonDecision { return Accept }
func (NopApplication) OnLogonReject(message.Identity, string)                  {}
func (NopApplication) OnLogout(message.Identity, string)                       {}
func (NopApplication) OnApplicationMessage(message.Identity, *message.Message) {}
func (NopApplication) OnAdminReject(message.Identity, *message.Message)        {}

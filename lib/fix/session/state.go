package session

import "github.com/solarflux/fixengine/lib/automaton"

// State is the session's position in the FSM spec.md §4.1 describes. It
// is a direct alias of automaton.State so Machine can use the kept
// automaton package's State/States/Is/IsAny helpers throughout without a
// wrapper type, and so the logon automaton in negotiate.go shares the
// exact same state values as the surrounding Machine.
type State = automaton.State

const (
	// StateDisconnected is the initial state: no transport is connected.
	StateDisconnected State = iota + 1
	// StateConnected is reached once the transport is up but before
	// either side's Logon has been exchanged.
	StateConnected
	// StateLogonSent is an initiator-only state: our Logon has been sent
	// and we are waiting for the acceptor's.
	StateLogonSent
	// StateLogonReceived is an acceptor-only state: OnLogon has accepted
	// the initiator's Logon and the reply Logon is being sent; the session
	// moves on to AUTHENTICATED as soon as that reply is out.
	StateLogonReceived
	// StateAuthenticated is the steady state: both sides have exchanged
	// valid Logons and application traffic may flow.
	StateAuthenticated
	// StateResync is entered while this session has an outstanding
	// ResendRequest of its own awaiting gap-fill/replay from the peer.
	StateResync
	// StateLogoutSent means this session initiated the logout handshake
	// and is waiting for the peer's Logout in reply.
	StateLogoutSent
	// StateLogoutReceived means the peer initiated logout and this
	// session is about to send its own Logout in reply before closing.
	StateLogoutReceived
	// StateClosed is terminal: the transport has been torn down and no
	// further events will be processed.
	StateClosed
)

var stateNames = map[State]string{
	StateDisconnected:   "DISCONNECTED",
	StateConnected:      "CONNECTED",
	StateLogonSent:      "LOGON_SENT",
	StateLogonReceived:  "LOGON_RECEIVED",
	StateAuthenticated:  "AUTHENTICATED",
	StateResync:         "RESYNC",
	StateLogoutSent:     "LOGOUT_SENT",
	StateLogoutReceived: "LOGOUT_RECEIVED",
	StateClosed:         "CLOSED",
}

// Name renders a state for logs, returning "UNKNOWN" for any state not
// in the known set (there shouldn't be one).
func Name(s State) string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "UNKNOWN"
}

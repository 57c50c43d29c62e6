package session

import "github.com/solarflux/fixengine/lib/automaton"

// logonKey names one step of the Logon handshake for the compiled
// automaton below.
type logonKey string

const (
	logonKeySend          logonKey = "send_logon"           // initiator sends its Logon
	logonKeyRecvInitiator logonKey = "recv_logon_initiator"  // initiator receives the acceptor's Logon
	logonKeyRecvAcceptor  logonKey = "recv_logon_acceptor"   // acceptor receives the initiator's Logon
	logonKeyAcceptorReply logonKey = "accept_logon"          // acceptor sends its own Logon in reply
)

// newLogonAutomaton compiles the four-step Logon handshake of spec.md
// §4.1 into a lib/automaton table bound to state: each step is legal from
// exactly one origin state, so a step attempted out of order (e.g. a
// second inbound Logon after the session is already AUTHENTICATED)
// reports an error instead of silently mutating state.
func newLogonAutomaton(state *State) automaton.CompiledAutomaton {
	return automaton.Compile(state, automaton.Transitions{
		logonKeySend:          {automaton.Transition{At: automaton.States{StateConnected}, To: StateLogonSent}},
		logonKeyRecvInitiator: {automaton.Transition{At: automaton.States{StateLogonSent}, To: StateAuthenticated}},
		logonKeyRecvAcceptor:  {automaton.Transition{At: automaton.States{StateConnected}, To: StateLogonReceived}},
		logonKeyAcceptorReply: {automaton.Transition{At: automaton.States{StateLogonReceived}, To: StateAuthenticated}},
	})
}

package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// The fixture below mirrors fix/session's four-step Logon handshake
// (see fix/session/negotiate.go): connected, sent, received, authenticated.
const (
	connected State = iota + 1
	logonSent
	logonReceived
	authenticated
)

const (
	stepSend          = "send_logon"
	stepRecvInitiator = "recv_logon_initiator"
	stepRecvAcceptor  = "recv_logon_acceptor"
	stepAcceptorReply = "accept_logon"
)

func newHandshake(state *State) CompiledAutomaton {
	return Compile(state, Transitions{
		stepSend:          {Transition{At: States{connected}, To: logonSent}},
		stepRecvInitiator: {Transition{At: States{logonSent}, To: authenticated}},
		stepRecvAcceptor:  {Transition{At: States{connected}, To: logonReceived}},
		stepAcceptorReply: {Transition{At: States{logonReceived}, To: authenticated}},
	})
}

func TestCompile_AmbiguousTransitions_Panics(t *testing.T) {
	assert.PanicsWithError(t, AmbiguousTransitions.Error(), func() {
		state := connected
		Compile(&state, Transitions{
			stepSend: {
				Transition{At: States{connected}, To: logonSent},
				Transition{At: States{connected}, To: logonReceived},
			},
		})
	})
}

func TestCompiledAutomaton_Transition_InitiatorHandshake(t *testing.T) {
	state := connected
	c := newHandshake(&state)

	to, err := c.Transition(stepSend, connected)
	assert.NoError(t, err)
	assert.Equal(t, logonSent, to)
	assert.Equal(t, logonSent, state)

	to, err = c.Transition(stepRecvInitiator, state)
	assert.NoError(t, err)
	assert.Equal(t, authenticated, to)
	assert.Equal(t, authenticated, state)
}

func TestCompiledAutomaton_Transition_AcceptorHandshake(t *testing.T) {
	state := connected
	c := newHandshake(&state)

	_, err := c.Transition(stepRecvAcceptor, state)
	assert.NoError(t, err)
	assert.Equal(t, logonReceived, state)

	_, err = c.Transition(stepAcceptorReply, state)
	assert.NoError(t, err)
	assert.Equal(t, authenticated, state)
}

func TestCompiledAutomaton_Transition_UnknownKey(t *testing.T) {
	state := connected
	c := newHandshake(&state)

	_, err := c.Transition("not_a_step", state)
	assert.ErrorIs(t, err, BadTransitionKey)
	assert.Equal(t, connected, state, "a rejected step must not mutate state")
}

func TestCompiledAutomaton_Transition_WrongOrigin(t *testing.T) {
	state := connected
	c := newHandshake(&state)

	// A second inbound Logon after the session is already AUTHENTICATED
	// has no transition defined from that origin.
	state = authenticated
	_, err := c.Transition(stepRecvInitiator, state)
	assert.ErrorIs(t, err, BadTransitionState)
	assert.Equal(t, authenticated, state)
}

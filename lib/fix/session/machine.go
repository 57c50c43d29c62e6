// Package session implements spec.md §4.1's session state machine: the
// initiator/acceptor FSM, sequence-number validation, and admin dispatch,
// driven one Event at a time from the single goroutine that owns this
// session (spec.md §5).
package session

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/solarflux/fixengine/lib/automaton"
	"github.com/solarflux/fixengine/lib/fix/admin"
	"github.com/solarflux/fixengine/lib/fix/app"
	"github.com/solarflux/fixengine/lib/fix/codec"
	"github.com/solarflux/fixengine/lib/fix/message"
	"github.com/solarflux/fixengine/lib/fix/store"
	"github.com/solarflux/fixengine/lib/fix/timer"
)

// Machine is one session's state: its position in the FSM, its sequence
// counters, and everything needed to decide what to do with an Event. It
// is not safe for concurrent use; it is meant to be driven by exactly one
// goroutine, per spec.md §5.
type Machine struct {
	cfg  Config
	key  store.Key
	st   store.Store
	cd   *codec.Codec
	tm   *timer.Service
	app  app.Application
	log  *zap.Logger

	state    State
	logonFSM automaton.CompiledAutomaton
	seq      store.SeqNums
	rec      Recorder

	outstandingTestReq string
	testReqSeq         int
}

// SetRecorder attaches an observability hook, per SPEC_FULL.md §4.7;
// fix/monitor.Hub implements Recorder. Nil-safe: passing nil restores
// NopRecorder.
func (m *Machine) SetRecorder(r Recorder) {
	if r == nil {
		r = NopRecorder{}
	}
	m.rec = r
}

func (m *Machine) setState(s State) {
	m.state = s
	m.rec.RecordState(m.cfg.Identity, s)
}

// New constructs a Machine for cfg, loading any previously persisted
// sequence counters for this identity from st.
func New(ctx context.Context, cfg Config, st store.Store, cd *codec.Codec, tm *timer.Service, application app.Application, log *zap.Logger) (*Machine, error) {
	key := store.KeyFor(cfg.Identity.BeginString, cfg.Identity.SenderCompID, cfg.Identity.TargetCompID)
	seq, err := st.GetSeqNums(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("session: load seqnums: %w", err)
	}
	if seq == (store.SeqNums{}) {
		seq = store.SeqNums{Incoming: 1, Outgoing: 1}
	}
	if cfg.SendingTimeAccuracy == 0 {
		cfg.SendingTimeAccuracy = DefaultSendingTimeAccuracy
	}

	m := &Machine{
		cfg:   cfg,
		key:   key,
		st:    st,
		cd:    cd,
		tm:    tm,
		app:   application,
		log:   log,
		state: StateDisconnected,
		seq:   seq,
		rec:   NopRecorder{},
	}
	m.logonFSM = newLogonAutomaton(&m.state)
	return m, nil
}

// State returns the session's current FSM state.
func (m *Machine) State() State { return m.state }

// SeqNums returns a copy of the session's current sequence counters.
func (m *Machine) SeqNums() store.SeqNums { return m.seq }

// Start is called once the transport is connected. For an initiator this
// sends the first Logon; for an acceptor it only arms the logon grace
// timer and waits.
func (m *Machine) Start(ctx context.Context) (Outcome, error) {
	var out Outcome
	m.setState(StateConnected)
	m.tm.Arm(timer.Logon, m.cfg.LogonTimeout)

	if m.cfg.Role == RoleInitiator {
		logon := admin.BuildLogon(admin.LogonParams{
			HeartBtInt:      m.cfg.HeartBtInt,
			ResetSeqNumFlag: m.cfg.ResetSeqNumFlag,
			Password:        m.cfg.Password,
		})
		if m.cfg.ResetSeqNumFlag {
			if err := m.st.Reset(ctx, m.key); err != nil {
				return out, fmt.Errorf("session: reset store for outgoing Logon: %w", err)
			}
			m.seq = store.SeqNums{Incoming: 1, Outgoing: 1}
		}
		frame, err := m.send(ctx, logon)
		if err != nil {
			return out, err
		}
		out.addSend(frame)
		if _, err := m.logonFSM.Transition(logonKeySend, m.state); err != nil {
			return out, fmt.Errorf("session: logon fsm: %w", err)
		}
	}
	return out, nil
}

// send assigns the next outgoing sequence number to msg, stamps its
// header, encodes it, and atomically persists the (seqnum, log entry)
// pair per spec.md §4.3, mirroring the "set_seqnums + append_outgoing in
// one transaction" requirement.
func (m *Machine) send(ctx context.Context, msg *message.Message) ([]byte, error) {
	now := time.Now().UTC()
	seqNum := m.seq.Outgoing
	msg.Header.BeginString = m.cfg.Identity.BeginString
	msg.PrepareOutgoing(m.cfg.Identity.SenderCompID, m.cfg.Identity.TargetCompID, seqNum, now)

	frame, err := m.cd.Encode(msg)
	if err != nil {
		return nil, fmt.Errorf("session: encode outgoing: %w", err)
	}

	newSeq := store.SeqNums{Incoming: m.seq.Incoming, Outgoing: seqNum + 1}
	rec := store.Record{SeqNum: seqNum, MsgType: string(msg.Header.MsgType), SendingTime: now, Raw: frame}
	if err := m.st.SetAndAppend(ctx, m.key, newSeq, rec); err != nil {
		return nil, fmt.Errorf("session: persist outgoing: %w", err)
	}
	m.seq = newSeq
	m.tm.Arm(timer.Heartbeat, m.cfg.HeartBtInt)
	m.rec.RecordSent(m.cfg.Identity, string(msg.Header.MsgType))
	return frame, nil
}

// sendResend encodes msg as a retransmission carrying an explicit,
// historical sequence number rather than the next one this session would
// otherwise assign, per the PossDup resend semantics of spec.md §4.2.
// Unlike send, it never advances or persists the outgoing counter: it is
// replaying history, not creating it.
func (m *Machine) sendResend(msg *message.Message, seqNum int, origSendingTime time.Time) ([]byte, error) {
	msg.Header.BeginString = m.cfg.Identity.BeginString
	msg.PrepareOutgoing(m.cfg.Identity.SenderCompID, m.cfg.Identity.TargetCompID, seqNum, time.Now().UTC())
	msg.MarkPossDup(origSendingTime)
	return m.cd.Encode(msg)
}

// sendGapFill encodes a SequenceReset-GapFill carrying an explicit
// historical sequence number, like sendResend, but without PossDupFlag:
// a gap-fill is a fresh session-management message, not a replay of one
// that was actually sent before.
func (m *Machine) sendGapFill(msg *message.Message, seqNum int) ([]byte, error) {
	msg.Header.BeginString = m.cfg.Identity.BeginString
	msg.PrepareOutgoing(m.cfg.Identity.SenderCompID, m.cfg.Identity.TargetCompID, seqNum, time.Now().UTC())
	return m.cd.Encode(msg)
}

func (m *Machine) persistIncoming(ctx context.Context) error {
	return m.st.SetSeqNums(ctx, m.key, m.seq)
}

func (m *Machine) nextTestReqID() string {
	m.testReqSeq++
	return fmt.Sprintf("%s-%d", m.cfg.Identity.Key(), m.testReqSeq)
}

// Step is the session's single entry point once it is running: every
// occurrence the event loop observes, per spec.md §5, is fed through
// here one at a time and answered with an Outcome. A non-nil error here
// means something below the protocol layer failed (encoding, the store,
// a programming error); protocol-level faults are never returned this
// way, they are converted to a Reject/Logout Outcome by
// handleProtocolError at the point they are detected.
func (m *Machine) Step(ctx context.Context, ev Event) (Outcome, error) {
	switch e := ev.(type) {
	case FrameReceived:
		return m.onFrame(ctx, e.Message)
	case TimerFired:
		return m.onTimer(ctx, e.ID)
	case TransportClosed:
		return m.onTransportClosed(ctx, e)
	case Shutdown:
		return m.onShutdown(ctx, e)
	default:
		return Outcome{}, fmt.Errorf("session: unknown event type %T", ev)
	}
}

// onFrame routes a decoded incoming message through the Logon handshake
// while it is pending, and through ordinary sequence validation and
// admin dispatch once the session is authenticated.
func (m *Machine) onFrame(ctx context.Context, msg *message.Message) (Outcome, error) {
	m.rec.RecordReceived(m.cfg.Identity, string(msg.Header.MsgType))

	if msg.Header.MsgType == message.MsgTypeLogon && m.state.IsAny(StateConnected, StateLogonSent, StateLogonReceived) {
		return m.onHandshakeLogon(ctx, msg)
	}

	if m.state.IsNone(StateAuthenticated, StateResync, StateLogoutSent, StateLogoutReceived) {
		return m.handleProtocolError(ctx, NewLogoutError(msg.Header.MsgSeqNum, "message received before session authenticated"))
	}

	if perr := m.validateHeader(msg); perr != nil {
		return m.handleProtocolError(ctx, perr)
	}

	// Any inbound traffic answers the receive-idle watchdog.
	m.tm.Arm(timer.TestRequest, m.cfg.HeartBtInt*6/5)
	m.tm.Cancel(timer.DeadPeer)

	// A SequenceReset in Reset mode is applied whatever its MsgSeqNum.
	if msg.Header.MsgType == message.MsgTypeSequenceReset {
		if reset, ok := admin.ParseSequenceReset(msg); ok && !reset.GapFill {
			return m.onSequenceReset(ctx, msg)
		}
	}

	result, protoErr := m.checkIncomingSeq(msg.Header.MsgSeqNum, msg.Header.PossDupFlag)
	if protoErr != nil {
		return m.handleProtocolError(ctx, protoErr)
	}

	switch result {
	case seqGap:
		return m.onSequenceGap(ctx)
	case seqDuplicate:
		return m.dispatchDuplicate(ctx, msg)
	}

	m.seq.Incoming = msg.Header.MsgSeqNum + 1
	if err := m.persistIncoming(ctx); err != nil {
		return Outcome{}, err
	}
	return m.dispatchAdmin(ctx, msg)
}

// onHandshakeLogon advances the compiled Logon automaton in negotiate.go
// for whichever side of the handshake this session is playing.
func (m *Machine) onHandshakeLogon(ctx context.Context, msg *message.Message) (Outcome, error) {
	var out Outcome
	m.tm.Cancel(timer.Logon)

	if perr := m.validateHeader(msg); perr != nil {
		return m.handleProtocolError(ctx, perr)
	}

	parsed, err := admin.ParseLogon(msg)
	if err != nil {
		out.Close = true
		m.app.OnLogonReject(m.cfg.Identity, err.Error())
		return out, nil
	}

	switch {
	case m.cfg.Role == RoleInitiator && m.state.Is(StateLogonSent):
		if parsed.HeartBtInt != m.cfg.HeartBtInt {
			out.Close = true
			m.app.OnLogonReject(m.cfg.Identity, "HeartBtInt mismatch")
			return out, nil
		}

		decision := m.app.OnLogon(m.cfg.Identity, msg)
		if decision.Reject {
			logout := admin.BuildLogout(decision.Reason)
			frame, err := m.send(ctx, logout)
			if err != nil {
				return out, err
			}
			out.addSend(frame)
			out.Close = true
			m.app.OnLogonReject(m.cfg.Identity, decision.Reason)
			return out, nil
		}

		if parsed.ResetSeqNumFlag {
			if err := m.st.Reset(ctx, m.key); err != nil {
				return out, fmt.Errorf("session: reset store on peer ResetSeqNumFlag: %w", err)
			}
			m.seq.Outgoing = 1
		}
		m.seq.Incoming = msg.Header.MsgSeqNum + 1
		if err := m.persistIncoming(ctx); err != nil {
			return out, err
		}
		if _, err := m.logonFSM.Transition(logonKeyRecvInitiator, m.state); err != nil {
			return out, fmt.Errorf("session: logon fsm: %w", err)
		}
		m.tm.Arm(timer.TestRequest, m.cfg.HeartBtInt*6/5)
		return out, nil

	case m.cfg.Role == RoleAcceptor && m.state.Is(StateConnected):
		decision := m.app.OnLogon(m.cfg.Identity, msg)
		if decision.Reject {
			logout := admin.BuildLogout(decision.Reason)
			frame, err := m.send(ctx, logout)
			if err != nil {
				return out, err
			}
			out.addSend(frame)
			out.Close = true
			m.app.OnLogonReject(m.cfg.Identity, decision.Reason)
			return out, nil
		}

		if parsed.ResetSeqNumFlag {
			if err := m.st.Reset(ctx, m.key); err != nil {
				return out, fmt.Errorf("session: reset store on peer ResetSeqNumFlag: %w", err)
			}
			m.seq.Outgoing = 1
		}
		m.seq.Incoming = msg.Header.MsgSeqNum + 1
		if err := m.persistIncoming(ctx); err != nil {
			return out, err
		}
		if _, err := m.logonFSM.Transition(logonKeyRecvAcceptor, m.state); err != nil {
			return out, fmt.Errorf("session: logon fsm: %w", err)
		}

		reply := admin.BuildLogon(admin.LogonParams{
			HeartBtInt:      m.cfg.HeartBtInt,
			ResetSeqNumFlag: parsed.ResetSeqNumFlag,
			Password:        m.cfg.Password,
		})
		frame, err := m.send(ctx, reply)
		if err != nil {
			return out, err
		}
		out.addSend(frame)
		if _, err := m.logonFSM.Transition(logonKeyAcceptorReply, m.state); err != nil {
			return out, fmt.Errorf("session: logon fsm: %w", err)
		}
		m.tm.Arm(timer.TestRequest, m.cfg.HeartBtInt*6/5)
		return out, nil

	default:
		return m.handleProtocolError(ctx, NewLogoutError(msg.Header.MsgSeqNum, "unexpected Logon for current state"))
	}
}

// seqCheckResult is the tri-state outcome of validating one incoming
// MsgSeqNum against the session's expected counter, per spec.md §4.1's
// sequence validation rule.
type seqCheckResult int

const (
	seqOK seqCheckResult = iota
	seqGap
	seqDuplicate
)

// checkIncomingSeq classifies n against the expected incoming sequence
// number. A lower number without PossDupFlag is a hard protocol error:
// the peer is replaying or has desynchronized in a way a gap-fill cannot
// repair, so it forces a logout rather than silent acceptance.
func (m *Machine) checkIncomingSeq(n int, possDup bool) (seqCheckResult, *ProtocolError) {
	expected := m.seq.Incoming
	switch {
	case n == expected:
		return seqOK, nil
	case n > expected:
		return seqGap, nil
	case possDup:
		return seqDuplicate, nil
	default:
		return seqDuplicate, NewLogoutError(n, fmt.Sprintf("MsgSeqNum too low: expected %d, got %d without PossDupFlag", expected, n))
	}
}

// onSequenceGap answers a detected gap by requesting a resend of
// everything from the expected sequence number onward, per spec.md
// §4.2. The message that revealed the gap is itself discarded; it will
// arrive again, in order, as part of the peer's gap-fill/resend.
func (m *Machine) onSequenceGap(ctx context.Context) (Outcome, error) {
	var out Outcome
	m.rec.RecordSequenceGap(m.cfg.Identity)
	req := admin.BuildResendRequest(m.seq.Incoming, 0)
	frame, err := m.send(ctx, req)
	if err != nil {
		return out, err
	}
	out.addSend(frame)
	if m.state.Is(StateAuthenticated) {
		m.setState(StateResync)
	}
	return out, nil
}

// dispatchAdmin routes an in-sequence (or accepted-duplicate) message by
// MsgType once sequence validation has already decided it should be
// processed.
func (m *Machine) dispatchAdmin(ctx context.Context, msg *message.Message) (Outcome, error) {
	var out Outcome
	switch msg.Header.MsgType {
	case message.MsgTypeHeartbeat:
		if testReqID, ok := admin.HeartbeatTestReqID(msg); ok && testReqID != "" && testReqID == m.outstandingTestReq {
			m.outstandingTestReq = ""
			m.tm.Cancel(timer.DeadPeer)
		}
		return out, nil

	case message.MsgTypeTestRequest:
		testReqID, _ := admin.TestRequestID(msg)
		frame, err := m.send(ctx, admin.BuildHeartbeat(testReqID))
		if err != nil {
			return out, err
		}
		out.addSend(frame)
		return out, nil

	case message.MsgTypeResendRequest:
		return m.onResendRequest(ctx, msg)

	case message.MsgTypeSequenceReset:
		return m.onSequenceReset(ctx, msg)

	case message.MsgTypeReject:
		m.app.OnAdminReject(m.cfg.Identity, msg)
		return out, nil

	case message.MsgTypeLogout:
		return m.onLogout(ctx, msg)

	default:
		m.app.OnApplicationMessage(m.cfg.Identity, msg)
		return out, nil
	}
}

// dispatchDuplicate routes an accepted duplicate (MsgSeqNum < expected
// with PossDupFlag=Y) exactly like dispatchAdmin for the admin MsgTypes
// that may still require action on resend, but silently drops anything
// else, per spec.md §4.1's "silently drop unless it is a business-admin
// response requiring action": a duplicated application message must
// never reach the application hook a second time.
func (m *Machine) dispatchDuplicate(ctx context.Context, msg *message.Message) (Outcome, error) {
	switch msg.Header.MsgType {
	case message.MsgTypeHeartbeat, message.MsgTypeTestRequest, message.MsgTypeResendRequest,
		message.MsgTypeSequenceReset, message.MsgTypeReject, message.MsgTypeLogout:
		return m.dispatchAdmin(ctx, msg)
	default:
		return Outcome{}, nil
	}
}

// onResendRequest answers a ResendRequest by replaying the requested
// range as an admin.Plan, decoding each stored application message well
// enough to re-stamp it with PossDupFlag/OrigSendingTime while keeping
// its original MsgSeqNum, and collapsing administrative/missing runs
// into a single SequenceReset-GapFill, per spec.md §4.2.
func (m *Machine) onResendRequest(ctx context.Context, msg *message.Message) (Outcome, error) {
	var out Outcome
	m.rec.RecordResendRequest(m.cfg.Identity)
	parsed, ok := admin.ParseResendRequest(msg)
	if !ok {
		return m.handleProtocolError(ctx, NewRejectError(msg.Header.MsgSeqNum, "malformed ResendRequest"))
	}

	end := parsed.EndSeqNo
	if end == 0 {
		end = m.seq.Outgoing - 1
	}
	if end < parsed.BeginSeqNo {
		return out, nil
	}

	records, err := m.st.ReadOutgoing(ctx, m.key, parsed.BeginSeqNo, end)
	if err != nil {
		return out, err
	}

	for _, step := range admin.Plan(records, parsed.BeginSeqNo, end) {
		if step.GapFill {
			reset := admin.BuildSequenceReset(true, step.GapFillUpTo)
			frame, err := m.sendGapFill(reset, step.GapFillFirst)
			if err != nil {
				return out, err
			}
			out.addSend(frame)
			continue
		}

		orig, err := m.cd.NewDecoder(bytes.NewReader(step.Record.Raw)).Decode()
		if err != nil {
			return out, fmt.Errorf("session: decode stored record for resend: %w", err)
		}
		frame, err := m.sendResend(orig, step.Record.SeqNum, step.Record.SendingTime)
		if err != nil {
			return out, err
		}
		out.addSend(frame)
	}
	return out, nil
}

// onSequenceReset applies a received SequenceReset, honoring a plain
// Reset unconditionally (logging a warning and sending a Reject if it does
// not advance the expected counter, per DESIGN.md's resolution of spec.md
// §9's open question; onFrame routes it here before sequence checks) and
// a GapFill only if it actually advances past the expected counter.
func (m *Machine) onSequenceReset(ctx context.Context, msg *message.Message) (Outcome, error) {
	var out Outcome
	parsed, ok := admin.ParseSequenceReset(msg)
	if !ok {
		return m.handleProtocolError(ctx, NewRejectError(msg.Header.MsgSeqNum, "malformed SequenceReset"))
	}

	if parsed.GapFill && parsed.NewSeqNo < m.seq.Incoming {
		return out, nil
	}
	if admin.ShouldWarnOnLoweredSeqNo(parsed, m.seq.Incoming) {
		m.log.Warn("SequenceReset does not advance expected incoming sequence number",
			zap.Int("new_seq_no", parsed.NewSeqNo), zap.Int("expected", m.seq.Incoming))
		frame, err := m.send(ctx, admin.BuildReject(admin.RejectParams{
			RefSeqNum:  msg.Header.MsgSeqNum,
			RefTagID:   int(message.TagNewSeqNo),
			RefMsgType: string(message.MsgTypeSequenceReset),
			Reason:     admin.RejectValueIncorrect,
			Text:       "SequenceReset NewSeqNo does not advance expected sequence number",
		}))
		if err != nil {
			return out, err
		}
		out.addSend(frame)
	}

	m.seq.Incoming = parsed.NewSeqNo
	if err := m.persistIncoming(ctx); err != nil {
		return out, err
	}
	if m.state.Is(StateResync) {
		m.setState(StateAuthenticated)
	}
	return out, nil
}

// onLogout answers or concludes the Logout handshake of spec.md §4.1:
// a peer-initiated Logout gets an in-kind reply before the transport is
// torn down; a reply to our own earlier Logout just tears it down.
func (m *Machine) onLogout(ctx context.Context, msg *message.Message) (Outcome, error) {
	var out Outcome
	text, _ := admin.LogoutText(msg)

	if m.state.IsNot(StateLogoutSent) {
		reply := admin.BuildLogout("")
		frame, err := m.send(ctx, reply)
		if err != nil {
			return out, err
		}
		out.addSend(frame)
	}

	m.tm.Cancel(timer.Logout)
	out.Close = true
	m.setState(StateClosed)
	m.app.OnLogout(m.cfg.Identity, text)
	return out, nil
}

// onTimer answers one expired named timer.
func (m *Machine) onTimer(ctx context.Context, id timer.ID) (Outcome, error) {
	var out Outcome
	switch id {
	case timer.Logon:
		if m.state.IsNone(StateAuthenticated, StateResync) {
			out.Close = true
			m.setState(StateClosed)
			return out, nil
		}
		return out, nil

	case timer.Heartbeat:
		frame, err := m.send(ctx, admin.BuildHeartbeat(""))
		if err != nil {
			return out, err
		}
		out.addSend(frame)
		return out, nil

	case timer.TestRequest:
		if m.state.IsNone(StateAuthenticated, StateResync) {
			return out, nil
		}
		m.outstandingTestReq = m.nextTestReqID()
		frame, err := m.send(ctx, admin.BuildTestRequest(m.outstandingTestReq))
		if err != nil {
			return out, err
		}
		out.addSend(frame)
		m.tm.Arm(timer.DeadPeer, m.cfg.HeartBtInt/2)
		return out, nil

	case timer.DeadPeer:
		frame, err := m.send(ctx, admin.BuildLogout("peer unresponsive to TestRequest"))
		if err != nil {
			return out, err
		}
		out.addSend(frame)
		out.Close = true
		m.setState(StateClosed)
		m.app.OnLogout(m.cfg.Identity, "peer unresponsive to TestRequest")
		return out, nil

	case timer.Logout, timer.Shutdown:
		out.Close = true
		m.setState(StateClosed)
		return out, nil

	default:
		return out, nil
	}
}

// onTransportClosed handles the loss of the underlying connection,
// flushing the last-known incoming counter before returning control, per
// SPEC_FULL.md §3's terminal-path flush requirement.
func (m *Machine) onTransportClosed(ctx context.Context, ev TransportClosed) (Outcome, error) {
	m.tm.Cancel(timer.Logon)
	m.tm.Cancel(timer.Heartbeat)
	m.tm.Cancel(timer.TestRequest)
	m.tm.Cancel(timer.DeadPeer)
	m.tm.Cancel(timer.Logout)

	reason := "transport closed"
	if ev.Err != nil {
		reason = ev.Err.Error()
	}
	if err := m.persistIncoming(ctx); err != nil {
		m.log.Error("session: failed to flush seqnums on transport close", zap.Error(err))
	}

	wasAuthenticated := m.state.IsAny(StateAuthenticated, StateResync, StateLogoutSent, StateLogoutReceived)
	m.setState(StateClosed)
	if wasAuthenticated {
		m.app.OnLogout(m.cfg.Identity, reason)
	}
	return Outcome{}, nil
}

// onShutdown begins an orderly, locally-initiated logout if the session
// is up, or tears down immediately if it never got that far.
func (m *Machine) onShutdown(ctx context.Context, ev Shutdown) (Outcome, error) {
	var out Outcome
	if m.state.IsAny(StateAuthenticated, StateResync) {
		frame, err := m.send(ctx, admin.BuildLogout(ev.Reason))
		if err != nil {
			return out, err
		}
		out.addSend(frame)
		m.setState(StateLogoutSent)
		m.tm.Arm(timer.Logout, m.cfg.ShutdownTimeout)
		return out, nil
	}
	out.Close = true
	m.setState(StateClosed)
	return out, nil
}

// handleProtocolError is the single place a ProtocolError is translated
// into wire action, per spec.md §7's rule that the FSM alone decides
// between Reject and Logout.
func (m *Machine) handleProtocolError(ctx context.Context, perr *ProtocolError) (Outcome, error) {
	var out Outcome
	switch perr.Disposition {
	case DispositionReject:
		reject := admin.BuildReject(admin.RejectParams{
			RefSeqNum:  perr.RefSeqNum,
			RefTagID:   perr.RefTagID,
			RefMsgType: perr.RefMsgType,
			Reason:     perr.RejectReason,
			Text:       perr.Reason,
		})
		frame, err := m.send(ctx, reject)
		if err != nil {
			return out, err
		}
		out.addSend(frame)
		return out, nil

	case DispositionLogout:
		frame, err := m.send(ctx, admin.BuildLogout(perr.Reason))
		if err != nil {
			return out, err
		}
		out.addSend(frame)
		m.setState(StateLogoutSent)
		m.tm.Arm(timer.Logout, m.cfg.ShutdownTimeout)
		return out, nil

	default: // DispositionDrop
		out.Close = true
		m.setState(StateClosed)
		return out, nil
	}
}

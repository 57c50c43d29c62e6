package session

import "time"

// Role distinguishes the two symmetric endpoint types spec.md §1
// requires: an initiator dials out and sends the first Logon; an
// acceptor listens and waits for the peer's Logon before responding.
type Role int

const (
	RoleInitiator Role = iota
	RoleAcceptor
)

// Config bundles the per-session parameters spec.md §6 names plus the
// values spec.md §9 leaves as open questions, resolved in DESIGN.md.
type Config struct {
	Identity Identity
	Role     Role

	HeartBtInt time.Duration

	// LogonTimeout bounds how long this session waits for the peer's
	// Logon (initiator: reply to ours; acceptor: the initiator's first
	// message) before giving up.
	LogonTimeout time.Duration
	// ShutdownTimeout bounds how long an orderly logout waits for the
	// peer's reciprocal Logout before the transport is torn down anyway.
	ShutdownTimeout time.Duration
	// SendingTimeAccuracy is the maximum allowed skew between a received
	// message's SendingTime and this session's local clock, per spec.md
	// §6/§9 (resolved default: 120s, see DESIGN.md).
	SendingTimeAccuracy time.Duration

	// ResetSeqNumFlag requests both sides reset their sequence counters
	// to 1 as part of this Logon, per spec.md §3's ResetSeqNumFlag field.
	ResetSeqNumFlag bool
	Password        string
}

// DefaultSendingTimeAccuracy is the resolved default for
// Config.SendingTimeAccuracy (see DESIGN.md's Open Question decision).
const DefaultSendingTimeAccuracy = 120 * time.Second

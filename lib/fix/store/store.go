// Package store implements spec.md §4.3's persisted session state:
// incoming/outgoing sequence numbers and the outgoing message log, with
// the set-seqnum-and-append-outgoing pair made atomic per send.
package store

import (
	"context"
	"fmt"
	"time"
)

// Key identifies a session's persisted state, derived from its identity
// triple. Store implementations use it as their partition key.
type Key string

// KeyFor builds the storage key for a session identity.
func KeyFor(beginString, senderCompID, targetCompID string) Key {
	return Key(fmt.Sprintf("%s|%s|%s", beginString, senderCompID, targetCompID))
}

// SeqNums is the pair of sequence-number counters spec.md §3 requires:
// the next sequence number expected from the peer, and the next sequence
// number this session will assign to an outgoing message.
type SeqNums struct {
	Incoming int
	Outgoing int
}

// Record is one logged outgoing message, keyed by the sequence number it
// was sent with, used to answer ResendRequest.
type Record struct {
	SeqNum      int
	MsgType     string
	SendingTime time.Time
	Raw         []byte
}

// Store is the persistence contract every backend implements. spec.md
// requires the pair (SetSeqNums matching the message that was just
// serialized, AppendOutgoing of that same message) to be atomic; Store
// exposes that as a single SetAndAppend operation rather than two calls a
// caller could partially fail between.
type Store interface {
	// GetSeqNums returns the persisted counters for key, or the zero value
	// if the session has never been seen before.
	GetSeqNums(ctx context.Context, key Key) (SeqNums, error)

	// SetSeqNums overwrites the persisted counters for key. Used when
	// advancing the incoming counter on receipt, and during
	// SequenceReset-Reset / administrative reset.
	SetSeqNums(ctx context.Context, key Key, seq SeqNums) error

	// SetAndAppend atomically persists seq and appends rec to the
	// outgoing log for key, satisfying spec.md §4.3's atomicity
	// requirement for the send path.
	SetAndAppend(ctx context.Context, key Key, seq SeqNums, rec Record) error

	// ReadOutgoing returns previously sent messages with SeqNum in
	// [begin, end] inclusive, ordered by SeqNum ascending, for
	// ResendRequest gap-fill. end == 0 means "through the current
	// outgoing sequence number".
	ReadOutgoing(ctx context.Context, key Key, begin, end int) ([]Record, error)

	// Reset clears all persisted state for key: both counters and the
	// outgoing log. Used by administrative session reset (ResetSeqNumFlag
	// on Logon) and by operators resetting a session out of band.
	Reset(ctx context.Context, key Key) error

	// Close releases any resources held by the store.
	Close() error
}

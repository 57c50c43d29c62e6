package message

import "fmt"

// Identity is the triple that names a FIX session per spec.md §3:
// protocol version plus both counterparty CompIDs. It lives in this
// low-level package (rather than in fix/session, which would be the more
// obvious home) so that fix/app can reference it without importing
// fix/session, which itself needs to call into fix/app.
type Identity struct {
	BeginString  string
	SenderCompID string
	TargetCompID string
}

// Key renders the identity as a stable string suitable for use as a
// storage partition key.
func (id Identity) Key() string {
	return fmt.Sprintf("%s|%s|%s", id.BeginString, id.SenderCompID, id.TargetCompID)
}

// Reversed returns the identity as seen from the counterparty's side.
func (id Identity) Reversed() Identity {
	return Identity{
		BeginString:  id.BeginString,
		SenderCompID: id.TargetCompID,
		TargetCompID: id.SenderCompID,
	}
}

func (id Identity) String() string { return id.Key() }

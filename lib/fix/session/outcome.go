package session

// Outcome is everything Machine.Step decides should happen in response to
// one Event: frames to write, in order, and whether the transport should
// be closed once they have been written. Machine never performs I/O or
// timer side effects that cross goroutine ownership boundaries itself
// outside of its own timer.Service, which belongs to it exclusively under
// spec.md §5's single-goroutine-per-session model; writing to the
// transport and actually closing the socket are left to fix/engine, which
// owns the connection.
type Outcome struct {
	Send  [][]byte
	Close bool
}

func (o *Outcome) addSend(frame []byte) {
	o.Send = append(o.Send, frame)
}

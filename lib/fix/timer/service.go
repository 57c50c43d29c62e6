package timer

import (
	"container/heap"
	"sync"
	"time"
)

// farFuture is used to park the underlying time.Timer when no timers are
// armed, rather than special-casing a nil timer channel.
const farFuture = 24 * 365 * time.Hour

// Service is a per-session deadline queue driven by a single select loop,
// per spec.md §9's "Timer abstraction" design note and the single-
// goroutine-per-session concurrency model of spec.md §5: every named
// timer (logon, heartbeat, test-request, dead-peer, logout, shutdown) is
// multiplexed through one goroutine and one os-level timer, never one
// timer per name.
type Service struct {
	cmds  chan func(*entryHeap)
	fired chan ID
	done  chan struct{}
	wg    sync.WaitGroup

	closeOnce sync.Once
	seqMu     sync.Mutex
	seq       uint64
}

// NewService starts a timer service's background loop and returns it.
func NewService() *Service {
	s := &Service{
		cmds:  make(chan func(*entryHeap)),
		fired: make(chan ID, 8),
		done:  make(chan struct{}),
	}
	s.wg.Add(1)
	go s.run()
	return s
}

// Fired delivers timer IDs as they expire. The session event loop selects
// on this channel alongside frame and transport-close events.
func (s *Service) Fired() <-chan ID {
	return s.fired
}

// Arm schedules id to fire after d, replacing any existing armed timer
// with the same id.
func (s *Service) Arm(id ID, d time.Duration) {
	deadline := time.Now().Add(d)
	s.seqMu.Lock()
	s.seq++
	seq := s.seq
	s.seqMu.Unlock()

	s.send(func(h *entryHeap) {
		h.removeID(id)
		heap.Push(h, &entry{id: id, deadline: deadline, seq: seq})
	})
}

// Cancel disarms id, if it is currently armed. Canceling an id that is
// not armed is a no-op.
func (s *Service) Cancel(id ID) {
	s.send(func(h *entryHeap) { h.removeID(id) })
}

func (s *Service) send(cmd func(*entryHeap)) {
	select {
	case s.cmds <- cmd:
	case <-s.done:
	}
}

// Close stops the service's loop. Pending fired-but-undelivered timers
// are discarded.
func (s *Service) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	s.wg.Wait()
	return nil
}

func (s *Service) run() {
	defer s.wg.Done()

	h := &entryHeap{}
	heap.Init(h)

	t := time.NewTimer(farFuture)
	defer t.Stop()

	for {
		select {
		case cmd, ok := <-s.cmds:
			if !ok {
				return
			}
			cmd(h)
			resetTimer(t, h)
		case <-t.C:
			now := time.Now()
			for {
				e, ok := h.peek()
				if !ok || e.deadline.After(now) {
					break
				}
				heap.Pop(h)
				select {
				case s.fired <- e.id:
				case <-s.done:
					return
				}
			}
			resetTimer(t, h)
		case <-s.done:
			return
		}
	}
}

func resetTimer(t *time.Timer, h *entryHeap) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	if e, ok := h.peek(); ok {
		d := time.Until(e.deadline)
		if d < 0 {
			d = 0
		}
		t.Reset(d)
		return
	}
	t.Reset(farFuture)
}

package engine

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/solarflux/fixengine/lib/fix/app"
	"github.com/solarflux/fixengine/lib/fix/codec"
	"github.com/solarflux/fixengine/lib/fix/dict"
	"github.com/solarflux/fixengine/lib/fix/message"
	"github.com/solarflux/fixengine/lib/fix/session"
	"github.com/solarflux/fixengine/lib/fix/store"
	"github.com/solarflux/fixengine/lib/fix/timer"
	"github.com/solarflux/fixengine/lib/fix/transport"
)

// pipeTransport adapts a net.Conn (here, one end of a net.Pipe) to
// transport.Transport for in-process tests, standing in for a real TCP
// socket without requiring one.
type pipeTransport struct{ c net.Conn }

func (p pipeTransport) Read(b []byte) (int, error)  { return p.c.Read(b) }
func (p pipeTransport) Write(b []byte) (int, error) { return p.c.Write(b) }
func (p pipeTransport) Close() error                { return p.c.Close() }
func (p pipeTransport) LocalAddr() string           { return p.c.LocalAddr().String() }
func (p pipeTransport) RemoteAddr() string          { return p.c.RemoteAddr().String() }

var _ transport.Transport = pipeTransport{}

type memStore struct {
	mu      sync.Mutex
	seq     store.SeqNums
	records map[int]store.Record
}

func newMemStore() *memStore { return &memStore{records: map[int]store.Record{}} }

func (s *memStore) GetSeqNums(context.Context, store.Key) (store.SeqNums, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq, nil
}

func (s *memStore) SetSeqNums(_ context.Context, _ store.Key, seq store.SeqNums) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = seq
	return nil
}

func (s *memStore) SetAndAppend(_ context.Context, _ store.Key, seq store.SeqNums, rec store.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = seq
	s.records[rec.SeqNum] = rec
	return nil
}

func (s *memStore) ReadOutgoing(_ context.Context, _ store.Key, begin, end int) ([]store.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []store.Record
	for n, rec := range s.records {
		if n >= begin && (end == 0 || n <= end) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *memStore) Reset(context.Context, store.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = store.SeqNums{}
	s.records = map[int]store.Record{}
	return nil
}

func (s *memStore) Close() error { return nil }

type recordingApplication struct {
	app.NopApplication
	mu           sync.Mutex
	authenticated bool
	loggedOut     bool
}

func (r *recordingApplication) OnLogon(message.Identity, *message.Message) app.LogonDecision {
	r.mu.Lock()
	r.authenticated = true
	r.mu.Unlock()
	return app.Accept
}

func (r *recordingApplication) OnLogout(message.Identity, string) {
	r.mu.Lock()
	r.loggedOut = true
	r.mu.Unlock()
}

func (r *recordingApplication) sawLogon() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.authenticated
}

func (r *recordingApplication) sawLogout() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loggedOut
}

func TestRunner_EndToEnd_LogonThenShutdown(t *testing.T) {
	initiatorConn, acceptorConn := net.Pipe()

	d, err := dict.Builtin("FIX.4.2")
	require.NoError(t, err)

	initApp := &recordingApplication{}
	acceptApp := &recordingApplication{}

	initiatorCfg := session.Config{
		Identity:        session.Identity{BeginString: "FIX.4.2", SenderCompID: "US", TargetCompID: "THEM"},
		Role:            session.RoleInitiator,
		HeartBtInt:      30 * time.Second,
		LogonTimeout:    5 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
	acceptorCfg := session.Config{
		Identity:        session.Identity{BeginString: "FIX.4.2", SenderCompID: "THEM", TargetCompID: "US"},
		Role:            session.RoleAcceptor,
		HeartBtInt:      30 * time.Second,
		LogonTimeout:    5 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	initCd := codec.New(d)
	initTimers := timer.NewService()
	defer initTimers.Close()
	initM, err := session.New(ctx, initiatorCfg, newMemStore(), initCd, initTimers, initApp, zap.NewNop())
	require.NoError(t, err)
	initRunner := NewRunner(initM, pipeTransport{c: initiatorConn}, initCd, initTimers, zap.NewNop())

	acceptCd := codec.New(d)
	acceptTimers := timer.NewService()
	defer acceptTimers.Close()
	acceptM, err := session.New(ctx, acceptorCfg, newMemStore(), acceptCd, acceptTimers, acceptApp, zap.NewNop())
	require.NoError(t, err)
	acceptRunner := NewRunner(acceptM, pipeTransport{c: acceptorConn}, acceptCd, acceptTimers, zap.NewNop())

	var wg sync.WaitGroup
	wg.Add(2)
	var initErr, acceptErr error
	go func() { defer wg.Done(); initErr = initRunner.Run(ctx) }()
	go func() { defer wg.Done(); acceptErr = acceptRunner.Run(ctx) }()

	require.Eventually(t, initApp.sawLogon, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, acceptApp.sawLogon, 2*time.Second, 10*time.Millisecond)

	initRunner.Shutdown("test complete")

	wg.Wait()
	assert.NoError(t, initErr)
	assert.NoError(t, acceptErr)
	assert.True(t, initApp.sawLogout())
	assert.True(t, acceptApp.sawLogout())
}

package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_FiresInDeadlineOrder(t *testing.T) {
	s := NewService()
	defer s.Close()

	s.Arm(Heartbeat, 30*time.Millisecond)
	s.Arm(Logon, 10*time.Millisecond)
	s.Arm(TestRequest, 20*time.Millisecond)

	var order []ID
	timeout := time.After(500 * time.Millisecond)
	for len(order) < 3 {
		select {
		case id := <-s.Fired():
			order = append(order, id)
		case <-timeout:
			t.Fatal("timers did not fire in time")
		}
	}
	assert.Equal(t, []ID{Logon, TestRequest, Heartbeat}, order)
}

func TestService_CancelPreventsFire(t *testing.T) {
	s := NewService()
	defer s.Close()

	s.Arm(DeadPeer, 10*time.Millisecond)
	s.Cancel(DeadPeer)
	s.Arm(Shutdown, 20*time.Millisecond)

	select {
	case id := <-s.Fired():
		assert.Equal(t, Shutdown, id)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected shutdown timer to fire")
	}
}

func TestService_RearmReplacesDeadline(t *testing.T) {
	s := NewService()
	defer s.Close()

	s.Arm(Heartbeat, 200*time.Millisecond)
	s.Arm(Heartbeat, 10*time.Millisecond)

	select {
	case id := <-s.Fired():
		require.Equal(t, Heartbeat, id)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected rearmed heartbeat to fire at the shorter deadline")
	}
}

package badgerstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solarflux/fixengine/lib/fix/store"
)

func TestStore_SetAndAppend_ReadOutgoing(t *testing.T) {
	ctx := context.Background()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	key := store.KeyFor("FIX.4.2", "INITIATOR", "ACCEPTOR")
	now := time.Now().UTC().Truncate(time.Millisecond)

	for i := 1; i <= 3; i++ {
		seq := store.SeqNums{Incoming: 1, Outgoing: i + 1}
		rec := store.Record{SeqNum: i, MsgType: "0", SendingTime: now, Raw: []byte("frame-" + string(rune('0'+i)))}
		require.NoError(t, s.SetAndAppend(ctx, key, seq, rec))
	}

	got, err := s.GetSeqNums(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, store.SeqNums{Incoming: 1, Outgoing: 4}, got)

	records, err := s.ReadOutgoing(ctx, key, 1, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 1, records[0].SeqNum)
	assert.Equal(t, 3, records[2].SeqNum)
	assert.True(t, records[0].SendingTime.Equal(now))

	ranged, err := s.ReadOutgoing(ctx, key, 2, 2)
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, 2, ranged[0].SeqNum)
}

func TestStore_Reset(t *testing.T) {
	ctx := context.Background()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	key := store.KeyFor("FIX.4.2", "A", "B")
	require.NoError(t, s.SetAndAppend(ctx, key, store.SeqNums{Incoming: 1, Outgoing: 2},
		store.Record{SeqNum: 1, MsgType: "0", SendingTime: time.Now(), Raw: []byte("x")}))

	require.NoError(t, s.Reset(ctx, key))

	seq, err := s.GetSeqNums(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, store.SeqNums{}, seq)

	records, err := s.ReadOutgoing(ctx, key, 1, 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStore_GetSeqNums_UnknownSessionIsZero(t *testing.T) {
	ctx := context.Background()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	seq, err := s.GetSeqNums(ctx, store.KeyFor("FIX.4.2", "X", "Y"))
	require.NoError(t, err)
	assert.Equal(t, store.SeqNums{}, seq)
}

package sqlstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solarflux/fixengine/lib/fix/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fix.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_SetAndAppend_ReadOutgoing(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	key := store.KeyFor("FIX.4.4", "INITIATOR", "ACCEPTOR")
	now := time.Now().UTC().Truncate(time.Second)

	for i := 1; i <= 3; i++ {
		seq := store.SeqNums{Incoming: 1, Outgoing: i + 1}
		rec := store.Record{SeqNum: i, MsgType: "0", SendingTime: now, Raw: []byte("frame")}
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
}

func TestStore_SetAndAppend_UpsertOnResend(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	key := store.KeyFor("FIX.4.4", "A", "B")
	now := time.Now().UTC().Truncate(time.Second)

	rec := store.Record{SeqNum: 1, MsgType: "0", SendingTime: now, Raw: []byte("first")}
	require.NoError(t, s.SetAndAppend(ctx, key, store.SeqNums{Incoming: 1, Outgoing: 2}, rec))

	rec.Raw = []byte("resent")
	require.NoError(t, s.SetAndAppend(ctx, key, store.SeqNums{Incoming: 1, Outgoing: 2}, rec))

	records, err := s.ReadOutgoing(ctx, key, 1, 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []byte("resent"), records[0].Raw)
}

func TestStore_Reset(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	key := store.KeyFor("FIX.4.4", "A", "B")

	require.NoError(t, s.SetAndAppend(ctx, key, store.SeqNums{Incoming: 1, Outgoing: 2},
		store.Record{SeqNum: 1, MsgType: "0", SendingTime: time.Now(), Raw: []byte("x")}))
	require.NoError(t, s.Reset(ctx, key))

	seq, err := s.GetSeqNums(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, store.SeqNums{}, seq)
}

// Package badgerstore implements fix/store.Store as an embedded on-disk
// key-value store, the "file-tree" backend named in spec.md §4.3. It is
// grounded on the transactional enqueue/iterate pattern of
// _examples/Aidin1998-finalex/internal/trading/orderqueue/badger_queue.go,
// adapted from a FIFO order queue to a per-session sequence-number and
// outgoing-message log.
package badgerstore

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v3"

	"github.com/solarflux/fixengine/lib/fix/store"
	"github.com/solarflux/fixengine/lib/packet"
)

// Store is a badger-backed fix/store.Store. Badger itself persists as a
// directory of SST and value-log files, which is what makes it a literal
// "file-tree" representation of session state rather than a single flat
// file or a client/server relational database.
type Store struct {
	db *badger.DB
}

// Open opens (creating if necessary) a badger database rooted at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badgerstore: open %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func seqKey(key store.Key) []byte {
	return []byte(string(key) + "/seq")
}

func outKeyPrefix(key store.Key) []byte {
	return []byte(string(key) + "/out/")
}

func outKey(key store.Key, seqNum int) []byte {
	return []byte(fmt.Sprintf("%s%020d", outKeyPrefix(key), seqNum))
}

func encodeSeqNums(seq store.SeqNums) []byte {
	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf[0:8], uint64(seq.Incoming))
	binary.BigEndian.PutUint64(buf[8:16], uint64(seq.Outgoing))
	return buf
}

func decodeSeqNums(buf []byte) (store.SeqNums, error) {
	if len(buf) != 16 {
		return store.SeqNums{}, fmt.Errorf("badgerstore: malformed seqnums record (%d bytes)", len(buf))
	}
	return store.SeqNums{
		Incoming: int(binary.BigEndian.Uint64(buf[0:8])),
		Outgoing: int(binary.BigEndian.Uint64(buf[8:16])),
	}, nil
}

// encodeRecord frames a Record's variable-length sub-fields (MsgType,
// SendingTime, Raw) as a packet.Sequence, so the badger value for one
// outgoing message can hold all three without a custom delimiter scheme.
func encodeRecord(rec store.Record) ([]byte, error) {
	sendingTime := []byte(rec.SendingTime.UTC().Format(time.RFC3339Nano))
	seq := packet.NewSequence([]byte(rec.MsgType), sendingTime, rec.Raw)
	var buf bytes.Buffer
	if _, err := seq.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeRecord(seqNum int, raw []byte) (store.Record, error) {
	r := bytes.NewReader(raw)

	msgTypePkt, err := packet.DecodeFrom(r)
	if err != nil {
		return store.Record{}, fmt.Errorf("badgerstore: decode msg type: %w", err)
	}
	sendingTimePkt, err := packet.DecodeFrom(r)
	if err != nil {
		return store.Record{}, fmt.Errorf("badgerstore: decode sending time: %w", err)
	}
	rawPkt, err := packet.DecodeFrom(r)
	if err != nil {
		return store.Record{}, fmt.Errorf("badgerstore: decode raw message: %w", err)
	}

	sendingTime, err := time.Parse(time.RFC3339Nano, string(sendingTimePkt))
	if err != nil {
		return store.Record{}, fmt.Errorf("badgerstore: malformed sending time: %w", err)
	}

	return store.Record{
		SeqNum:      seqNum,
		MsgType:     string(msgTypePkt),
		SendingTime: sendingTime,
		Raw:         append([]byte(nil), []byte(rawPkt)...),
	}, nil
}

func (s *Store) GetSeqNums(_ context.Context, key store.Key) (store.SeqNums, error) {
	var seq store.SeqNums
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(seqKey(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		buf, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		seq, err = decodeSeqNums(buf)
		return err
	})
	return seq, err
}

func (s *Store) SetSeqNums(_ context.Context, key store.Key, seq store.SeqNums) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(seqKey(key), encodeSeqNums(seq))
	})
}

func (s *Store) SetAndAppend(_ context.Context, key store.Key, seq store.SeqNums, rec store.Record) error {
	value, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(seqKey(key), encodeSeqNums(seq)); err != nil {
			return err
		}
		return txn.Set(outKey(key, rec.SeqNum), value)
	})
}

func (s *Store) ReadOutgoing(_ context.Context, key store.Key, begin, end int) ([]store.Record, error) {
	var records []store.Record
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = outKeyPrefix(key)
		it := txn.NewIterator(opts)
		defer it.Close()

		startKey := outKey(key, begin)
		for it.Seek(startKey); it.ValidForPrefix(opts.Prefix); it.Next() {
			item := it.Item()
			seqNum, err := parseSeqNumFromKey(item.Key(), outKeyPrefix(key))
			if err != nil {
				return err
			}
			if end != 0 && seqNum > end {
				break
			}
			buf, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			rec, err := decodeRecord(seqNum, buf)
			if err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	return records, err
}

func parseSeqNumFromKey(key, prefix []byte) (int, error) {
	suffix := bytes.TrimPrefix(key, prefix)
	var n int
	if _, err := fmt.Sscanf(string(suffix), "%020d", &n); err != nil {
		return 0, fmt.Errorf("badgerstore: malformed outgoing key %q: %w", key, err)
	}
	return n, nil
}

func (s *Store) Reset(_ context.Context, key store.Key) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(seqKey(key)); err != nil && err != badger.ErrKeyNotFound {
			return err
		}
		opts := badger.DefaultIteratorOptions
		opts.Prefix = outKeyPrefix(key)
		it := txn.NewIterator(opts)
		defer it.Close()

		var toDelete [][]byte
		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			toDelete = append(toDelete, append([]byte(nil), it.Item().Key()...))
		}
		for _, k := range toDelete {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

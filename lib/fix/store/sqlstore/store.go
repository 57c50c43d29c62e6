package sqlstore

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/solarflux/fixengine/lib/fix/store"
)

// Store is a GORM-backed fix/store.Store.
type Store struct {
	db *gorm.DB
}

// OpenSQLite opens (creating and migrating if necessary) a sqlite-backed
// store at path. Suitable for local development and the test suite.
func OpenSQLite(path string) (*Store, error) {
	return open(sqlite.Open(path))
}

// OpenPostgres opens a postgres-backed store using dsn, the production
// configuration of the relational backend.
func OpenPostgres(dsn string) (*Store, error) {
	return open(postgres.Open(dsn))
}

func open(dialector gorm.Dialector) (*Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open: %w", err)
	}
	if err := db.AutoMigrate(&seqNumModel{}, &outgoingMessageModel{}); err != nil {
		return nil, fmt.Errorf("sqlstore: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) GetSeqNums(ctx context.Context, key store.Key) (store.SeqNums, error) {
	var row seqNumModel
	err := s.db.WithContext(ctx).Where("session_key = ?", string(key)).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return store.SeqNums{}, nil
	}
	if err != nil {
		return store.SeqNums{}, err
	}
	return store.SeqNums{Incoming: row.Incoming, Outgoing: row.Outgoing}, nil
}

func (s *Store) SetSeqNums(ctx context.Context, key store.Key, seq store.SeqNums) error {
	return s.upsertSeqNums(s.db.WithContext(ctx), key, seq)
}

func (s *Store) upsertSeqNums(tx *gorm.DB, key store.Key, seq store.SeqNums) error {
	row := seqNumModel{
		ID:         newID(),
		SessionKey: string(key),
		Incoming:   seq.Incoming,
		Outgoing:   seq.Outgoing,
		UpdatedAt:  time.Now().UTC(),
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"incoming", "outgoing", "updated_at"}),
	}).Create(&row).Error
}

func (s *Store) SetAndAppend(ctx context.Context, key store.Key, seq store.SeqNums, rec store.Record) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.upsertSeqNums(tx, key, seq); err != nil {
			return err
		}
		msg := outgoingMessageModel{
			ID:          newID(),
			SessionKey:  string(key),
			SeqNum:      rec.SeqNum,
			MsgType:     rec.MsgType,
			SendingTime: rec.SendingTime.UTC(),
			Raw:         rec.Raw,
			CreatedAt:   time.Now().UTC(),
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_key"}, {Name: "seq_num"}},
			DoUpdates: clause.AssignmentColumns([]string{"msg_type", "sending_time", "raw"}),
		}).Create(&msg).Error
	})
}

func (s *Store) ReadOutgoing(ctx context.Context, key store.Key, begin, end int) ([]store.Record, error) {
	q := s.db.WithContext(ctx).
		Where("session_key = ? AND seq_num >= ?", string(key), begin).
		Order("seq_num ASC")
	if end != 0 {
		q = q.Where("seq_num <= ?", end)
	}

	var rows []outgoingMessageModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]store.Record, len(rows))
	for i, row := range rows {
		records[i] = store.Record{
			SeqNum:      row.SeqNum,
			MsgType:     row.MsgType,
			SendingTime: row.SendingTime,
			Raw:         row.Raw,
		}
	}
	return records, nil
}

func (s *Store) Reset(ctx context.Context, key store.Key) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_key = ?", string(key)).Delete(&seqNumModel{}).Error; err != nil {
			return err
		}
		return tx.Where("session_key = ?", string(key)).Delete(&outgoingMessageModel{}).Error
	})
}

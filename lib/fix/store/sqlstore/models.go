// Package sqlstore implements fix/store.Store as a relational backend
// over GORM, the "relational" reference backend named in spec.md §4.3.
// It is grounded on the repository-over-GORM-model pattern of
// _examples/wyfcoding-financialTrading/internal/fixgateway/infrastructure/persistence/mysql/{models,repository}.go,
// adapted from MySQL to the sqlite/postgres drivers this module carries.
package sqlstore

import (
	"time"

	"github.com/google/uuid"
)

// seqNumModel is the single-row-per-session sequence counter table.
type seqNumModel struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	SessionKey string `gorm:"uniqueIndex;type:varchar(255)"`
	Incoming   int
	Outgoing   int
	UpdatedAt  time.Time
}

func (seqNumModel) TableName() string { return "fix_session_seqnums" }

// outgoingMessageModel is one row of the outgoing message log, keyed by
// (SessionKey, SeqNum) for range lookups during ResendRequest handling.
type outgoingMessageModel struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	SessionKey  string `gorm:"uniqueIndex:idx_session_seq;type:varchar(255)"`
	SeqNum      int    `gorm:"uniqueIndex:idx_session_seq"`
	MsgType     string `gorm:"type:varchar(8)"`
	SendingTime time.Time
	Raw         []byte
	CreatedAt   time.Time
}

func (outgoingMessageModel) TableName() string { return "fix_outgoing_messages" }

func newID() string { return uuid.New().String() }

package message

// Tag identifies a FIX field by its well-known numeric tag.
type Tag int

// Header and trailer tags. These are stable across FIX.4.0-4.4 and are
// therefore modeled as concrete Go fields rather than dictionary lookups.
const (
	TagBeginString     Tag = 8
	TagBodyLength      Tag = 9
	TagCheckSum        Tag = 10
	TagMsgType         Tag = 35
	TagSenderCompID    Tag = 49
	TagTargetCompID    Tag = 56
	TagMsgSeqNum       Tag = 34
	TagSendingTime     Tag = 52
	TagPossDupFlag     Tag = 43
	TagPossResend      Tag = 97
	TagOrigSendingTime Tag = 122
)

// Admin field tags used by the session and admin handler packages.
const (
	TagEncryptMethod        Tag = 98
	TagHeartBtInt           Tag = 108
	TagTestReqID            Tag = 112
	TagBeginSeqNo           Tag = 7
	TagEndSeqNo             Tag = 16
	TagNewSeqNo             Tag = 36
	TagGapFillFlag          Tag = 123
	TagResetSeqNumFlag      Tag = 141
	TagText                 Tag = 58
	TagRefSeqNum            Tag = 45
	TagRefTagID             Tag = 371
	TagRefMsgType           Tag = 372
	TagSessionRejectReason  Tag = 373
	TagPassword             Tag = 554
	TagRawData              Tag = 96
	TagRawDataLength        Tag = 95
	TagNoMsgSeqNumGroups    Tag = 0
)

package admin

import (
	"strconv"
	"time"

	"github.com/solarflux/fixengine/lib/fix/message"
)

// LogonParams is what this session needs to say in an outbound Logon:
// EncryptMethod is always "none" per spec.md's Non-goals, HeartBtInt is
// the negotiated heartbeat interval, and ResetSeqNumFlag/Password carry
// through the optional administrative fields spec.md §3 names.
type LogonParams struct {
	HeartBtInt     time.Duration
	ResetSeqNumFlag bool
	Password       string
	RawData        []byte
}

// BuildLogon constructs the outbound Logon message body. The caller
// (fix/session) stamps Header.SenderCompID/TargetCompID/MsgSeqNum/
// SendingTime immediately before encoding.
func BuildLogon(p LogonParams) *message.Message {
	m := message.New(message.MsgTypeLogon)
	m.Body.SetInt(message.TagEncryptMethod, 0)
	m.Body.SetInt(message.TagHeartBtInt, int(p.HeartBtInt/time.Second))
	if p.ResetSeqNumFlag {
		m.Body.Set(message.TagResetSeqNumFlag, "Y")
	}
	if p.Password != "" {
		m.Body.Set(message.TagPassword, p.Password)
	}
	if len(p.RawData) > 0 {
		m.Body.SetInt(message.TagRawDataLength, len(p.RawData))
		m.Body.Set(message.TagRawData, string(p.RawData))
	}
	return m
}

// ParsedLogon is the validated content of a received Logon.
type ParsedLogon struct {
	HeartBtInt      time.Duration
	ResetSeqNumFlag bool
}

// ParseLogon validates and extracts the fields of a received Logon
// message. EncryptMethod must be 0 (no encryption) and HeartBtInt must be
// present and a positive integer of seconds, per spec.md §4.1's Logon
// validation rule.
func ParseLogon(m *message.Message) (ParsedLogon, error) {
	encryptMethod, ok := m.Body.GetInt(message.TagEncryptMethod)
	if ok && encryptMethod != 0 {
		return ParsedLogon{}, ErrUnsupportedEncryptMethod
	}

	raw, ok := m.Body.Get(message.TagHeartBtInt)
	if !ok {
		return ParsedLogon{}, ErrMissingHeartBtInt
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return ParsedLogon{}, ErrInvalidHeartBtInt
	}

	resetSeqNum := false
	if v, ok := m.Body.Get(message.TagResetSeqNumFlag); ok {
		resetSeqNum = v == "Y"
	}

	return ParsedLogon{
		HeartBtInt:      time.Duration(seconds) * time.Second,
		ResetSeqNumFlag: resetSeqNum,
	}, nil
}

package dict

import "fmt"

// SupportedBeginStrings lists the FIX versions this engine's session layer
// understands, per spec.md's scope (4.0 through 4.4, no FIXT/5.x).
var SupportedBeginStrings = []string{
	"FIX.4.0", "FIX.4.1", "FIX.4.2", "FIX.4.3", "FIX.4.4",
}

func isSupported(beginString string) bool {
	for _, s := range SupportedBeginStrings {
		if s == beginString {
			return true
		}
	}
	return false
}

// Builtin returns the minimal administrative dictionary for beginString:
// header/trailer layout and the seven admin message types (Logon,
// Heartbeat, TestRequest, ResendRequest, Reject, SequenceReset, Logout).
// It exists so the session layer is self-sufficient for admin traffic
// without requiring an external YAML dictionary file; application message
// types always require a caller-supplied dictionary (via Load/LoadFile).
func Builtin(beginString string) (*Dictionary, error) {
	if !isSupported(beginString) {
		return nil, fmt.Errorf("dict: unsupported begin string %q", beginString)
	}

	fields := map[int]FieldDef{
		8:   {Number: 8, Name: "BeginString", Type: TypeString},
		9:   {Number: 9, Name: "BodyLength", Type: TypeLength},
		10:  {Number: 10, Name: "CheckSum", Type: TypeString},
		34:  {Number: 34, Name: "MsgSeqNum", Type: TypeSeqNum},
		35:  {Number: 35, Name: "MsgType", Type: TypeString},
		43:  {Number: 43, Name: "PossDupFlag", Type: TypeBoolean},
		49:  {Number: 49, Name: "SenderCompID", Type: TypeString},
		52:  {Number: 52, Name: "SendingTime", Type: TypeUTCTimestamp},
		56:  {Number: 56, Name: "TargetCompID", Type: TypeString},
		58:  {Number: 58, Name: "Text", Type: TypeString},
		97:  {Number: 97, Name: "PossResend", Type: TypeBoolean},
		98:  {Number: 98, Name: "EncryptMethod", Type: TypeInt},
		108: {Number: 108, Name: "HeartBtInt", Type: TypeInt},
		112: {Number: 112, Name: "TestReqID", Type: TypeString},
		7:   {Number: 7, Name: "BeginSeqNo", Type: TypeSeqNum},
		16:  {Number: 16, Name: "EndSeqNo", Type: TypeSeqNum},
		36:  {Number: 36, Name: "NewSeqNo", Type: TypeSeqNum},
		45:  {Number: 45, Name: "RefSeqNum", Type: TypeSeqNum},
		122: {Number: 122, Name: "OrigSendingTime", Type: TypeUTCTimestamp},
		123: {Number: 123, Name: "GapFillFlag", Type: TypeBoolean},
		141: {Number: 141, Name: "ResetSeqNumFlag", Type: TypeBoolean},
		371: {Number: 371, Name: "RefTagID", Type: TypeInt},
		372: {Number: 372, Name: "RefMsgType", Type: TypeString},
		373: {Number: 373, Name: "SessionRejectReason", Type: TypeInt},
		554: {Number: 554, Name: "Password", Type: TypeString},
		95:  {Number: 95, Name: "RawDataLength", Type: TypeLength},
		96:  {Number: 96, Name: "RawData", Type: TypeData},
	}

	d := &Dictionary{
		BeginString: beginString,
		Fields:      fields,
		Header:      []int{8, 9, 35, 49, 56, 34, 52, 43, 97, 122},
		Trailer:     []int{10},
		Messages: map[string]MessageDef{
			"A": {
				MsgType: "A", Name: "Logon",
				Fields:   []int{98, 108, 141, 554, 95, 96},
				Required: req(98, 108),
			},
			"0": {
				MsgType: "0", Name: "Heartbeat",
				Fields: []int{112},
			},
			"1": {
				MsgType: "1", Name: "TestRequest",
				Fields:   []int{112},
				Required: req(112),
			},
			"2": {
				MsgType: "2", Name: "ResendRequest",
				Fields:   []int{7, 16},
				Required: req(7, 16),
			},
			"3": {
				MsgType: "3", Name: "Reject",
				Fields:   []int{45, 371, 372, 373, 58},
				Required: req(45),
			},
			"4": {
				MsgType: "4", Name: "SequenceReset",
				Fields:   []int{123, 36},
				Required: req(36),
			},
			"5": {
				MsgType: "5", Name: "Logout",
				Fields: []int{58},
			},
		},
	}
	d.index()
	return d, nil
}

func req(tags ...int) map[int]bool {
	m := make(map[int]bool, len(tags))
	for _, t := range tags {
		m[t] = true
	}
	return m
}

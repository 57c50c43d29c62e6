package codec

import "time"

// UTCTimestamp layouts. FIX allows an optional millisecond component;
// SendingTimeAccuracy validation and re-encoding always use the
// millisecond form, but incoming messages from older counterparties may
// omit it, so decode tries both per the reference decoder's
// millisecond-aware strptime handling.
const (
	utcTimestampMillis = "20060102-15:04:05.000"
	utcTimestampNoMillis = "20060102-15:04:05"
	utcTimeOnly       = "15:04:05.000"
	localMktDate      = "20060102"
)

// ParseUTCTimestamp decodes a FIX UTCTimestamp field (tags such as
// SendingTime, OrigSendingTime), trying the millisecond form first.
func ParseUTCTimestamp(v string) (time.Time, error) {
	if t, err := time.ParseInLocation(utcTimestampMillis, v, time.UTC); err == nil {
		return t, nil
	}
	return time.ParseInLocation(utcTimestampNoMillis, v, time.UTC)
}

// FormatUTCTimestamp encodes t as a FIX UTCTimestamp with millisecond
// precision, the form this engine always emits on the wire.
func FormatUTCTimestamp(t time.Time) string {
	return t.UTC().Format(utcTimestampMillis)
}

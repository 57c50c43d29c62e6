package codec

import "errors"

var (
	// ErrBadFormat is returned when a frame does not conform to the
	// tag=value SOH-delimited wire format at all (missing '=', missing SOH).
	ErrBadFormat = errors.New("codec: malformed field")
	// ErrUnexpectedTag is returned when a required positional field
	// (BeginString, BodyLength, CheckSum) is not the tag actually found.
	ErrUnexpectedTag = errors.New("codec: unexpected tag in fixed position")
	// ErrChecksumMismatch is returned when the trailing CheckSum field does
	// not match the checksum computed over the received bytes.
	ErrChecksumMismatch = errors.New("codec: checksum mismatch")
	// ErrBodyLengthMismatch names the case where the declared BodyLength
	// does not match the number of bytes actually present between it and
	// the CheckSum field. Decoder.Decode does not return it: a wrong
	// BodyLength surfaces as ErrUnexpectedTag, ErrBadFormat or
	// ErrChecksumMismatch, or as the reader's error if the stream ends.
	ErrBodyLengthMismatch = errors.New("codec: body length mismatch")
)

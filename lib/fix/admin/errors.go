package admin

import "errors"

var (
	// ErrUnsupportedEncryptMethod is returned when a Logon's EncryptMethod
	// is anything other than 0 (none). spec.md's Non-goals exclude
	// encryption/authentication beyond RawData/EncryptMethod passthrough,
	// so this engine only accepts the "no encryption" value.
	ErrUnsupportedEncryptMethod = errors.New("admin: unsupported EncryptMethod")
	// ErrMissingHeartBtInt is returned when a Logon omits the required
	// HeartBtInt field.
	ErrMissingHeartBtInt = errors.New("admin: missing HeartBtInt")
	// ErrInvalidHeartBtInt is returned when HeartBtInt is not a positive
	// integer.
	ErrInvalidHeartBtInt = errors.New("admin: invalid HeartBtInt")
)

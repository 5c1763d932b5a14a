package packet

import "errors"

// Errors returned while encoding or decoding packets. Device-reported
// errors (ErrorFlags) are not included here; those are classified by the
// transactor package, which sees the full context of the operation.
var (
	ErrInvalidID     = errors.New("id out of range")
	ErrPayloadTooBig = errors.New("payload too large to encode")

	ErrFraming  = errors.New("framing error: malformed packet header or length")
	ErrChecksum = errors.New("checksum error: computed checksum does not match received checksum")
)

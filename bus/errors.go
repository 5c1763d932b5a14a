package bus

import "errors"

var (
	// ErrIO is returned when the underlying transport fails to read or
	// write bytes, distinct from a parse or timeout failure.
	ErrIO = errors.New("transport I/O error")

	// ErrTimedOut is returned when ReadStatusPacket's deadline elapses
	// before a full packet has been parsed.
	ErrTimedOut = errors.New("timed out waiting for status packet")
)

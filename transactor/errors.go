package transactor

import (
	"errors"
	"fmt"

	"github.com/dhylands/bioloid/packet"
)

var (
	// ErrNoStatusOnBroadcast is returned by Read, which has no meaningful
	// broadcast form: there is never exactly one reply to collect.
	ErrNoStatusOnBroadcast = errors.New("transactor: instruction does not reply to the broadcast id")

	// ErrUnexpectedPayload is returned when a status packet's payload
	// length does not match what the instruction promised.
	ErrUnexpectedPayload = errors.New("transactor: status payload length does not match request")
)

// DeviceError wraps a non-zero device-reported error byte for operations
// whose contract treats it as failure (everything but Ping; spec.md §7).
type DeviceError struct {
	Flags packet.ErrorFlags
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("device reported error: %s", e.Flags)
}

// Package bus defines the contract a half-duplex Bioloid link must
// satisfy and a generic adapter that implements it over any transport
// that can write bytes and read with a deadline. Concrete serial/TCP
// transports are external collaborators; this package never imports one.
package bus

import (
	"time"

	"github.com/dhylands/bioloid/packet"
)

// ScanResult is one responsive device found by ScanRange.
type ScanResult struct {
	ID      byte
	Model   uint16
	Version byte
}

// Bus is the contract the transactor (§4.D) drives. Implementations must
// treat WritePacket followed by an optional ReadStatusPacket as one
// atomic half-duplex transaction: the bus is a physical shared resource
// and must not be used concurrently from two goroutines at once.
type Bus interface {
	// WritePacket sends pre-encoded bytes (produced by packet.Encode) on
	// the wire. It fails with ErrIO on transport failure.
	WritePacket(b []byte) error

	// ReadStatusPacket waits up to timeout for one status packet. It
	// returns ErrTimedOut if nothing arrives in time, packet.ErrFraming
	// or packet.ErrChecksum if the bytes that did arrive could not be
	// parsed, or ErrIO on transport failure.
	ReadStatusPacket(timeout time.Duration) (*packet.StatusPacket, error)

	// ScanRange pings every id in ids and, for each that responds, reads
	// its model number and firmware version from offset 0. Implementations
	// are free to skip non-respondents quickly rather than waiting out a
	// full timeout for each one that never replies.
	ScanRange(ids []byte) ([]ScanResult, error)
}

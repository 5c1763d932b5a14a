// Package transactor drives a bus.Bus through one half-duplex request and
// optional reply: encode once, write atomically, decide whether a status
// reply is expected, and classify whatever comes back. This is spec.md
// §4.D.
package transactor

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/dhylands/bioloid/bus"
	"github.com/dhylands/bioloid/packet"
)

// StatusReturnLevel mirrors a device's status-return-level register
// (spec.md §3): it governs which instructions get a status reply.
type StatusReturnLevel int

const (
	// StatusReturnUnknown means the driver has not yet learned the
	// device's level. Per spec.md §4.D it is treated fail-safe: always
	// await a status, since a timeout is recoverable but a missed status
	// byte is not.
	StatusReturnUnknown StatusReturnLevel = iota
	StatusReturnNone
	StatusReturnReadOnly
	StatusReturnAll
)

// DefaultTimeout is used when a caller does not specify one.
const DefaultTimeout = 50 * time.Millisecond

// Transactor issues instructions over a bus.Bus and interprets the
// replies. It holds no per-device state; StatusReturnLevel is supplied by
// the caller (the device façade) on each Write, RegWrite and Reset call.
// Ping and Read take no level: they always await a reply from a
// non-broadcast id, whatever the device's status-return-level.
type Transactor struct {
	bus     bus.Bus
	timeout time.Duration
	logger  *zap.Logger
}

// New returns a Transactor driving b, waiting up to timeout for each
// status reply.
func New(b bus.Bus, timeout time.Duration, logger *zap.Logger) *Transactor {
	return &Transactor{bus: b, timeout: timeout, logger: logger}
}

// expectsStatus implements spec.md §4.D's awaiting rule:
// (id != broadcast) AND (the device is expected to return status for
// this instruction, given its status-return-level).
func expectsStatus(id byte, inst packet.Instruction, level StatusReturnLevel) bool {
	if id == packet.BroadcastID {
		return false
	}
	switch level {
	case StatusReturnNone:
		return false
	case StatusReturnReadOnly:
		return inst == packet.Ping || inst == packet.ReadData
	case StatusReturnAll:
		return true
	default: // StatusReturnUnknown: fail safe and await a reply.
		return true
	}
}

func (t *Transactor) send(id byte, inst packet.Instruction, payload []byte) error {
	b, err := packet.Encode(id, inst, payload)
	if err != nil {
		return err
	}
	if err := t.bus.WritePacket(b); err != nil {
		t.logger.Debug("write failed", zap.Uint8("id", id), zap.Stringer("instruction", inst), zap.Error(err))
		return err
	}
	return nil
}

// readStatus reads one status reply and returns it, or the bus's error,
// unchanged. Draining the input after a decode error or timeout is left
// to the bus.Bus implementation (RealBus.ReadStatusPacket does it).
func (t *Transactor) readStatus() (*packet.StatusPacket, error) {
	st, err := t.bus.ReadStatusPacket(t.timeout)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// Ping issues PING and returns the device's error flags verbatim: per
// spec.md §7, ping treats non-zero device flags as a *successful* return
// so callers can print "Rcvd Status: OverHeating" and similar.
func (t *Transactor) Ping(id byte) (packet.ErrorFlags, error) {
	if err := t.send(id, packet.Ping, nil); err != nil {
		return 0, err
	}
	if id == packet.BroadcastID {
		return 0, nil
	}
	st, err := t.readStatus()
	if err != nil {
		return 0, err
	}
	return st.Err, nil
}

// Read issues READ_DATA and returns length bytes from offset. A non-zero
// device error is treated as failure here, unlike Ping.
func (t *Transactor) Read(id byte, offset, length byte) ([]byte, error) {
	if id == packet.BroadcastID {
		return nil, ErrNoStatusOnBroadcast
	}
	if err := t.send(id, packet.ReadData, []byte{offset, length}); err != nil {
		return nil, err
	}
	st, err := t.readStatus()
	if err != nil {
		return nil, err
	}
	if !st.Err.IsNormal() {
		return nil, &DeviceError{Flags: st.Err}
	}
	if len(st.Payload) != int(length) {
		return nil, ErrUnexpectedPayload
	}
	return st.Payload, nil
}

// Write issues WRITE_DATA. If id is the broadcast address or level
// suppresses the reply, it returns as soon as the write completes.
func (t *Transactor) Write(id byte, offset byte, data []byte, level StatusReturnLevel) error {
	payload := append([]byte{offset}, data...)
	return t.writeAndMaybeCheck(id, packet.WriteData, payload, level)
}

// RegWrite issues REG_WRITE, deferred at the device until a subsequent
// Action.
func (t *Transactor) RegWrite(id byte, offset byte, data []byte, level StatusReturnLevel) error {
	payload := append([]byte{offset}, data...)
	return t.writeAndMaybeCheck(id, packet.RegWrite, payload, level)
}

func (t *Transactor) writeAndMaybeCheck(id byte, inst packet.Instruction, payload []byte, level StatusReturnLevel) error {
	if err := t.send(id, inst, payload); err != nil {
		return err
	}
	if !expectsStatus(id, inst, level) {
		return nil
	}
	st, err := t.readStatus()
	if err != nil {
		return err
	}
	if !st.Err.IsNormal() {
		return &DeviceError{Flags: st.Err}
	}
	return nil
}

// Action broadcasts ACTION, triggering any pending REG_WRITE. It never
// reads a reply: ACTION is specified as "typically broadcast" and the
// broadcast address never yields a status packet.
func (t *Transactor) Action() error {
	return t.send(packet.BroadcastID, packet.Action, nil)
}

// Reset issues RESET (factory reset semantics are out of scope; spec.md
// only describes the bare instruction).
func (t *Transactor) Reset(id byte, level StatusReturnLevel) error {
	return t.writeAndMaybeCheck(id, packet.Reset, nil, level)
}

// Scan delegates to the shared bus.Scan algorithm.
func (t *Transactor) Scan(ids []byte) ([]bus.ScanResult, error) {
	return t.bus.ScanRange(ids)
}

// IsDeviceError reports whether err is a DeviceError and, if so, returns
// its flags.
func IsDeviceError(err error) (packet.ErrorFlags, bool) {
	var de *DeviceError
	if errors.As(err, &de) {
		return de.Flags, true
	}
	return 0, false
}

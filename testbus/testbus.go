// Package testbus implements a hardware-free bus.Bus double: a scripted
// expectation queue that compares every byte the driver emits against a
// queued expectation and hands back queued (or synthesized) responses.
// It is the deterministic bus spec.md §4.C describes, used by the
// script package and by the device, transactor and script tests.
package testbus

import (
	"bytes"
	"time"

	"go.uber.org/multierr"

	"github.com/dhylands/bioloid/bus"
	"github.com/dhylands/bioloid/packet"
)

// CmdExpectation describes one expected outbound write. Raw, if non-nil,
// is compared byte-for-byte against what WritePacket receives. Otherwise
// the structured fields are re-encoded via packet.Encode before
// comparison, matching spec.md §4.C ("re-encodes via 4.A for comparison").
type CmdExpectation struct {
	Raw     []byte
	ID      byte
	Inst    packet.Instruction
	Payload []byte
}

func (e CmdExpectation) bytes() ([]byte, error) {
	if e.Raw != nil {
		return e.Raw, nil
	}
	return packet.Encode(e.ID, e.Inst, e.Payload)
}

// RspKind enumerates the four scripted response directives from spec.md §4.C.
type RspKind int

const (
	RspBytes RspKind = iota
	RspStructured
	RspTimeout
	RspNoResponse
)

// RspDirective is one queued scripted response.
type RspDirective struct {
	Kind    RspKind
	Raw     []byte
	ID      byte
	Err     packet.ErrorFlags
	Payload []byte
}

// Bus is the scripted test double. Its zero value is not usable; create
// one with New.
type Bus struct {
	cmds []CmdExpectation
	rsps []RspDirective
}

// New returns an empty Bus ready to be scripted.
func New() *Bus {
	return &Bus{}
}

// ExpectCmd enqueues one expected outbound write.
func (b *Bus) ExpectCmd(e CmdExpectation) {
	b.cmds = append(b.cmds, e)
}

// ExpectCmdRaw enqueues an exact-bytes write expectation, preamble and
// checksum included.
func (b *Bus) ExpectCmdRaw(raw []byte) {
	b.ExpectCmd(CmdExpectation{Raw: raw})
}

// ExpectCmdStruct enqueues a structured write expectation; it is
// re-encoded via packet.Encode before comparison.
func (b *Bus) ExpectCmdStruct(id byte, inst packet.Instruction, payload []byte) {
	b.ExpectCmd(CmdExpectation{ID: id, Inst: inst, Payload: payload})
}

// ScriptRsp enqueues one scripted response directive.
func (b *Bus) ScriptRsp(d RspDirective) {
	b.rsps = append(b.rsps, d)
}

// ScriptRspRaw enqueues an exact-bytes response.
func (b *Bus) ScriptRspRaw(raw []byte) {
	b.ScriptRsp(RspDirective{Kind: RspBytes, Raw: raw})
}

// ScriptRspStruct enqueues a structured response built from its fields.
func (b *Bus) ScriptRspStruct(id byte, errFlags packet.ErrorFlags, payload []byte) {
	b.ScriptRsp(RspDirective{Kind: RspStructured, ID: id, Err: errFlags, Payload: payload})
}

// ScriptTimeout enqueues a timeout directive.
func (b *Bus) ScriptTimeout() {
	b.ScriptRsp(RspDirective{Kind: RspTimeout})
}

// ScriptNoResponse enqueues a marker documenting that no read should
// happen at this point in the script (a broadcast write, or a device with
// status returns disabled). A correctly-behaving transactor never
// dequeues it; if it is ever dequeued, that is itself the bug being
// caught, and ReadStatusPacket reports ErrUnexpectedRead.
func (b *Bus) ScriptNoResponse() {
	b.ScriptRsp(RspDirective{Kind: RspNoResponse})
}

// WritePacket dequeues the next expected command and compares it
// byte-for-byte against got.
func (b *Bus) WritePacket(got []byte) error {
	if len(b.cmds) == 0 {
		return ErrUnexpectedWrite
	}
	exp := b.cmds[0]
	b.cmds = b.cmds[1:]

	want, err := exp.bytes()
	if err != nil {
		return err
	}
	if !bytes.Equal(want, got) {
		return &ExpectationMismatchError{Want: want, Got: append([]byte(nil), got...)}
	}
	return nil
}

// ReadStatusPacket dequeues the next scripted response directive.
func (b *Bus) ReadStatusPacket(_ time.Duration) (*packet.StatusPacket, error) {
	if len(b.rsps) == 0 {
		return nil, ErrUnexpectedRead
	}
	d := b.rsps[0]
	b.rsps = b.rsps[1:]

	switch d.Kind {
	case RspTimeout:
		return nil, bus.ErrTimedOut
	case RspNoResponse:
		return nil, ErrUnexpectedRead
	case RspStructured:
		return &packet.StatusPacket{ID: d.ID, Err: d.Err, Payload: d.Payload}, nil
	case RspBytes:
		return decodeFull(d.Raw)
	default:
		return nil, ErrUnexpectedRead
	}
}

// ScanRange implements bus.Bus by delegating to the shared scan algorithm
// so scripts can exercise a device scan exactly like a real bus would.
func (b *Bus) ScanRange(ids []byte) ([]bus.ScanResult, error) {
	return bus.Scan(b, ids, 0)
}

// Done reports whether the script left the bus clean: the command queue
// must be fully drained, and the response queue may only hold NoResponse
// markers (spec.md §4.C, §8 property 6). If not, it returns every
// leftover expectation aggregated into one error via multierr, rather
// than only the first.
func (b *Bus) Done() error {
	var errs error
	for _, c := range b.cmds {
		raw, err := c.bytes()
		if err != nil {
			raw = nil
		}
		errs = multierr.Append(errs, &UnconsumedCmdError{Cmd: raw})
	}
	for _, r := range b.rsps {
		if r.Kind == RspNoResponse {
			continue
		}
		errs = multierr.Append(errs, &UnconsumedRspError{Rsp: r})
	}
	return errs
}

// decodeFull parses raw fully as a status packet, returning ErrFraming or
// ErrChecksum (packet package errors) if it cannot be parsed, or
// ErrTruncatedResponse if raw ends before a complete packet is produced.
func decodeFull(raw []byte) (*packet.StatusPacket, error) {
	d := packet.NewDecoder()
	for _, b := range raw {
		pkt, err := d.Feed(b)
		if err != nil {
			return nil, err
		}
		if pkt != nil {
			return pkt, nil
		}
	}
	return nil, ErrTruncatedResponse
}

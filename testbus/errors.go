package testbus

import (
	"errors"
	"fmt"

	"github.com/dhylands/bioloid/packet"
)

var (
	// ErrUnexpectedWrite is returned when WritePacket is called with no
	// expectation queued.
	ErrUnexpectedWrite = errors.New("test bus: unexpected write, no command expectation queued")

	// ErrUnexpectedRead is returned when ReadStatusPacket is called with
	// no response directive queued, or when it dequeues a NoResponse
	// marker (spec.md §4.C).
	ErrUnexpectedRead = errors.New("test bus: unexpected read, no response directive queued")

	// ErrTruncatedResponse is returned when a scripted raw response ends
	// before a complete packet could be parsed from it.
	ErrTruncatedResponse = errors.New("test bus: scripted raw response ended before a complete packet")
)

// ExpectationMismatchError is returned by WritePacket when the bytes
// received differ from the queued expectation; it carries both byte
// strings so a failing test can show what was expected and what was
// actually written.
type ExpectationMismatchError struct {
	Want []byte
	Got  []byte
}

func (e *ExpectationMismatchError) Error() string {
	return fmt.Sprintf("test bus: expectation mismatch: want % X, got % X", e.Want, e.Got)
}

// UnconsumedCmdError reports one command expectation still queued when
// the script claimed to be done.
type UnconsumedCmdError struct {
	Cmd []byte
}

func (e *UnconsumedCmdError) Error() string {
	return fmt.Sprintf("test bus: unconsumed command expectation: % X", e.Cmd)
}

// UnconsumedRspError reports one response directive still queued when
// the script claimed to be done.
type UnconsumedRspError struct {
	Rsp RspDirective
}

func (e *UnconsumedRspError) Error() string {
	switch e.Rsp.Kind {
	case RspTimeout:
		return "test bus: unconsumed scripted response: timeout"
	case RspStructured:
		return fmt.Sprintf("test bus: unconsumed scripted response: id=%d err=%s payload=% X",
			e.Rsp.ID, packet.ErrorFlags(e.Rsp.Err), e.Rsp.Payload)
	default:
		return fmt.Sprintf("test bus: unconsumed scripted response: % X", e.Rsp.Raw)
	}
}

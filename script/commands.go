package script

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dhylands/bioloid/packet"
)

func parseHexByte(s string) (byte, error) {
	n, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("not a hex byte: %q", s)
	}
	return byte(n), nil
}

func parseHexBytes(fields []string) ([]byte, error) {
	out := make([]byte, 0, len(fields))
	for _, f := range fields {
		b, err := parseHexByte(f)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// instructionNames are the test-script spellings for packet.Instruction
// values (spec.md §6): lowercase, hyphenated, distinct from the wire
// mnemonics used by packet.Instruction.String().
var instructionNames = map[string]packet.Instruction{
	"ping":      packet.Ping,
	"read":      packet.ReadData,
	"write":     packet.WriteData,
	"reg-write": packet.RegWrite,
	"action":    packet.Action,
	"reset":     packet.Reset,
}

func parseInstructionName(s string) (packet.Instruction, error) {
	inst, ok := instructionNames[s]
	if !ok {
		return 0, fmt.Errorf("unrecognised instruction: %q", s)
	}
	return inst, nil
}

// errorFlagNames are the test-script spellings for packet.ErrorFlags bits,
// matched case-insensitively against a single name or "none".
var errorFlagNames = []struct {
	flag packet.ErrorFlags
	name string
}{
	{packet.InputVoltage, "input-voltage"},
	{packet.AngleLimit, "angle-limit"},
	{packet.OverHeating, "overheating"},
	{packet.RangeFlag, "range"},
	{packet.ChecksumFlag, "checksum"},
	{packet.Overload, "overload"},
	{packet.InstructionErr, "instruction"},
}

func parseErrorName(s string) (packet.ErrorFlags, error) {
	if strings.EqualFold(s, "none") {
		return 0, nil
	}
	for _, fn := range errorFlagNames {
		if strings.EqualFold(s, fn.name) {
			return fn.flag, nil
		}
	}
	return 0, fmt.Errorf("unrecognised error name: %q", s)
}

// dispatchCommand runs the small vocabulary of device commands a test
// script can assert against. This is not the out-of-scope interactive
// shell or its argument parser: it understands only the device façade
// operations named in spec.md §4.G. Every op but scan addresses the
// single device this Interpreter was built with, by its hex id, so a
// script catches the mistake if it names a different device.
func (in *Interpreter) dispatchCommand(args []string) (string, error) {
	if len(args) < 1 {
		return "", fmt.Errorf("empty command")
	}
	op, rest := args[0], args[1:]

	if op == "scan" {
		ids, err := parseHexBytes(rest)
		if err != nil {
			return "", err
		}
		results, err := in.dev.Scan(ids)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d device(s) found", len(results)), nil
	}

	if len(rest) < 1 {
		return "", fmt.Errorf("%s: requires a device id", op)
	}
	if err := in.requireBoundDevice(rest[0]); err != nil {
		return "", err
	}
	rest = rest[1:]

	switch op {
	case "ping":
		flags, err := in.dev.Ping()
		if err != nil {
			return "", err
		}
		return flags.String(), nil

	case "reset":
		return "", in.dev.Reset()

	case "get":
		if len(rest) != 1 {
			return "", fmt.Errorf("get: requires exactly one register name")
		}
		return in.dev.Get(rest[0])

	case "get-raw":
		if len(rest) != 1 {
			return "", fmt.Errorf("get-raw: requires exactly one register name")
		}
		return in.dev.GetRaw(rest[0])

	case "set":
		if len(rest) != 2 {
			return "", fmt.Errorf("set: requires a register name and a value")
		}
		return "", in.dev.Set(rest[0], rest[1])

	case "set-raw":
		if len(rest) != 2 {
			return "", fmt.Errorf("set-raw: requires a register name and a value")
		}
		return "", in.dev.SetRaw(rest[0], rest[1])

	case "deferred-set":
		if len(rest) != 2 {
			return "", fmt.Errorf("deferred-set: requires a register name and a value")
		}
		return "", in.dev.DeferredSet(rest[0], rest[1])

	default:
		return "", fmt.Errorf("unrecognised command: %q", op)
	}
}

func (in *Interpreter) requireBoundDevice(idHex string) error {
	id, err := parseHexByte(idHex)
	if err != nil {
		return err
	}
	if id != in.dev.ID() {
		return fmt.Errorf("device id %02x is not bound to this script", id)
	}
	return nil
}

// Package script interprets the test-script grammar from spec.md §6: a
// line-oriented language that scripts a testbus.Bus and then drives a
// device.Device against it, asserting success, failure or exact output.
// It is the automated-test collaborator, not the interactive shell (out
// of scope per spec.md §1).
package script

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dhylands/bioloid/device"
	"github.com/dhylands/bioloid/testbus"
)

// Interpreter runs one script against a scripted bus and a device façade.
type Interpreter struct {
	tb  *testbus.Bus
	dev *device.Device
	out io.Writer
}

// New returns an Interpreter that scripts tb and drives commands against
// dev, writing echoed and command output to out.
func New(tb *testbus.Bus, dev *device.Device, out io.Writer) *Interpreter {
	return &Interpreter{tb: tb, dev: dev, out: out}
}

// Run executes every line of r in order. It returns the first error
// encountered, wrapped in a *LineError giving its 1-based line number. Once
// every line has run without error, it calls tb.Done() so a script that
// leaves an unconsumed expectation or scripted response queued (spec.md §8
// property 6: both queues empty at script end) fails instead of silently
// passing.
func (in *Interpreter) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := in.runLine(line); err != nil {
			return &LineError{Line: lineNo, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return in.tb.Done()
}

func (in *Interpreter) runLine(line string) error {
	fields := tokenize(line)
	switch fields[0] {
	case "echo":
		fmt.Fprintln(in.out, strings.Join(fields[1:], " "))
		return nil
	case "test":
		if len(fields) < 2 {
			return fmt.Errorf("test: missing subcommand")
		}
		return in.runTest(fields[1], fields[2:])
	default:
		return fmt.Errorf("unrecognised line: %q", fields[0])
	}
}

func (in *Interpreter) runTest(sub string, args []string) error {
	switch sub {
	case "cmd":
		return in.testCmd(args)
	case "cmd-raw":
		raw, err := parseHexBytes(args)
		if err != nil {
			return err
		}
		in.tb.ExpectCmdRaw(raw)
		return nil
	case "rsp":
		return in.testRsp(args)
	case "rsp-raw":
		raw, err := parseHexBytes(args)
		if err != nil {
			return err
		}
		in.tb.ScriptRspRaw(raw)
		return nil
	case "rsp-timeout":
		in.tb.ScriptTimeout()
		return nil
	case "success":
		_, err := in.assertOutcome(args, true, nil)
		return err
	case "error":
		_, err := in.assertOutcome(args, false, nil)
		return err
	case "output":
		if len(args) < 1 {
			return fmt.Errorf("test output: missing expected text")
		}
		_, err := in.assertOutcome(args[1:], true, &args[0])
		return err
	default:
		return fmt.Errorf("unrecognised test subcommand: %q", sub)
	}
}

func (in *Interpreter) testCmd(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("test cmd: requires an id and an instruction")
	}
	id, err := parseHexByte(args[0])
	if err != nil {
		return err
	}
	inst, err := parseInstructionName(args[1])
	if err != nil {
		return err
	}
	payload, err := parseHexBytes(args[2:])
	if err != nil {
		return err
	}
	in.tb.ExpectCmdStruct(id, inst, payload)
	return nil
}

func (in *Interpreter) testRsp(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("test rsp: requires an id and an error name")
	}
	id, err := parseHexByte(args[0])
	if err != nil {
		return err
	}
	flags, err := parseErrorName(args[1])
	if err != nil {
		return err
	}
	payload, err := parseHexBytes(args[2:])
	if err != nil {
		return err
	}
	in.tb.ScriptRspStruct(id, flags, payload)
	return nil
}

// assertOutcome runs args as a device command and checks it against the
// expected outcome, echoing its text output to out on success. expected is
// nil for "test success"/"test error", which don't check output text; a
// non-nil expected (including one pointing at "") checks out against it
// exactly.
func (in *Interpreter) assertOutcome(args []string, wantSuccess bool, expected *string) (string, error) {
	out, err := in.dispatchCommand(args)
	if wantSuccess && err != nil {
		return "", fmt.Errorf("expected success but got error: %w", err)
	}
	if !wantSuccess && err == nil {
		return "", fmt.Errorf("expected an error but the command succeeded (output %q)", out)
	}
	if expected != nil && out != *expected {
		return "", fmt.Errorf("expected output %q, got %q", *expected, out)
	}
	if out != "" {
		fmt.Fprintln(in.out, out)
	}
	return out, nil
}

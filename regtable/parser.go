package regtable

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// LoadError reports a malformed register-table file: a duplicate offset,
// an unrecognised line, or an unterminated block (spec.md §4.E).
type LoadError struct {
	Line int
	Msg  string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("regtable: line %d: %s", e.Line, e.Msg)
}

// ParseAll reads every DeviceType block out of r. Comments ("#" to
// end-of-line) and blank lines are ignored.
func ParseAll(r io.Reader) ([]*DeviceType, error) {
	scanner := bufio.NewScanner(r)

	var types []*DeviceType
	var cur *DeviceType
	var seenOffsets map[byte]bool
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		keyword, rest := fields[0], fields[1:]
		switch keyword {
		case "DeviceType:":
			if cur != nil {
				return nil, &LoadError{lineNo, "nested DeviceType block"}
			}
			if len(rest) != 1 {
				return nil, &LoadError{lineNo, "DeviceType: requires exactly one name"}
			}
			cur = &DeviceType{
				Name:     rest[0],
				byOffset: map[byte]*Register{},
				byName:   map[string]*Register{},
			}
			seenOffsets = map[byte]bool{}

		case "Model:":
			if cur == nil {
				return nil, &LoadError{lineNo, "Model: outside a DeviceType block"}
			}
			if len(rest) != 1 {
				return nil, &LoadError{lineNo, "Model: requires exactly one value"}
			}
			n, err := strconv.ParseInt(rest[0], 0, 64)
			if err != nil {
				return nil, &LoadError{lineNo, "Model: value is not an integer: " + rest[0]}
			}
			cur.ModelNumber = int(n)

		case "Register:":
			if cur == nil {
				return nil, &LoadError{lineNo, "Register: outside a DeviceType block"}
			}
			reg, err := parseRegisterFields(rest, lineNo)
			if err != nil {
				return nil, err
			}
			if seenOffsets[reg.Offset] {
				return nil, &LoadError{lineNo, fmt.Sprintf("duplicate register offset %d", reg.Offset)}
			}
			seenOffsets[reg.Offset] = true
			cur.registers = append(cur.registers, reg)
			stored := reg
			cur.byOffset[reg.Offset] = &stored
			cur.byName[strings.ToLower(reg.Name)] = &stored

		case "EndDeviceType":
			if cur == nil {
				return nil, &LoadError{lineNo, "EndDeviceType without a matching DeviceType block"}
			}
			sortRegistersByOffset(cur.registers)
			types = append(types, cur)
			cur = nil

		default:
			return nil, &LoadError{lineNo, "unrecognised line: " + keyword}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if cur != nil {
		return nil, &LoadError{lineNo, fmt.Sprintf("unterminated DeviceType block %q", cur.Name)}
	}
	return types, nil
}

// Parse reads exactly one DeviceType block from r.
func Parse(r io.Reader) (*DeviceType, error) {
	types, err := ParseAll(r)
	if err != nil {
		return nil, err
	}
	if len(types) != 1 {
		return nil, fmt.Errorf("regtable: expected exactly one DeviceType block, found %d", len(types))
	}
	return types[0], nil
}

// parseRegisterFields parses the tokens after "Register:":
// <offset> <name> <size> <access> [raw_min raw_max] [kind].
func parseRegisterFields(fields []string, lineNo int) (Register, error) {
	if len(fields) < 4 {
		return Register{}, &LoadError{lineNo, "Register: requires at least offset, name, size and access"}
	}

	offset, err := parseUint8(fields[0])
	if err != nil {
		return Register{}, &LoadError{lineNo, "Register: bad offset: " + fields[0]}
	}
	name := fields[1]
	size, err := parseUint8(fields[2])
	if err != nil || (size != 1 && size != 2) {
		return Register{}, &LoadError{lineNo, "Register: size must be 1 or 2: " + fields[2]}
	}
	access, err := parseAccess(fields[3])
	if err != nil {
		return Register{}, &LoadError{lineNo, "Register: access must be ro or rw: " + fields[3]}
	}

	reg := Register{Offset: offset, Name: name, Size: size, Access: access}

	switch len(fields) {
	case 4:
		// No range, no kind.
	case 5:
		reg.Kind = fields[4]
	case 6:
		min, max, err := parseRange(fields[4], fields[5])
		if err != nil {
			return Register{}, &LoadError{lineNo, err.Error()}
		}
		reg.HasRange = true
		reg.RawMin, reg.RawMax = min, max
	case 7:
		min, max, err := parseRange(fields[4], fields[5])
		if err != nil {
			return Register{}, &LoadError{lineNo, err.Error()}
		}
		reg.HasRange = true
		reg.RawMin, reg.RawMax = min, max
		reg.Kind = fields[6]
	default:
		return Register{}, &LoadError{lineNo, "Register: too many fields"}
	}

	return reg, nil
}

func parseRange(minStr, maxStr string) (uint16, uint16, error) {
	min, err := strconv.ParseUint(minStr, 0, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("Register: bad raw_min: %s", minStr)
	}
	max, err := strconv.ParseUint(maxStr, 0, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("Register: bad raw_max: %s", maxStr)
	}
	return uint16(min), uint16(max), nil
}

func parseUint8(s string) (byte, error) {
	n, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, err
	}
	return byte(n), nil
}

func parseAccess(s string) (Access, error) {
	switch strings.ToLower(s) {
	case "ro":
		return ReadOnly, nil
	case "rw":
		return ReadWrite, nil
	default:
		return 0, fmt.Errorf("unknown access %q", s)
	}
}

func sortRegistersByOffset(regs []Register) {
	sort.Slice(regs, func(i, j int) bool { return regs[i].Offset < regs[j].Offset })
}

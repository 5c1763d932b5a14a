package register

import (
	"strings"

	"github.com/dhylands/bioloid/packet"
)

// alarmKind is the alarm-shutdown/alarm-LED bitfield: the same seven bits
// as a status packet's error flags (spec.md §4.F), formatted as a
// comma-joined name list.
type alarmKind struct{}

var alarmFlagNames = []struct {
	flag packet.ErrorFlags
	name string
}{
	{packet.InputVoltage, "InputVoltage"},
	{packet.AngleLimit, "AngleLimit"},
	{packet.OverHeating, "OverHeating"},
	{packet.RangeFlag, "Range"},
	{packet.ChecksumFlag, "Checksum"},
	{packet.Overload, "Overload"},
	{packet.InstructionErr, "Instruction"},
}

func (alarmKind) Format(raw uint16) string {
	f := packet.ErrorFlags(raw & 0x7F)
	if f == 0 {
		return "None"
	}
	if f == 0x7F {
		return "All"
	}
	var parts []string
	for _, fn := range alarmFlagNames {
		if f.Has(fn.flag) {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, ",")
}

func (alarmKind) Parse(text string) (uint16, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "none":
		return 0, nil
	case "all":
		return 0x7F, nil
	}

	var flags packet.ErrorFlags
	for _, tok := range strings.Split(text, ",") {
		tok = strings.TrimSpace(tok)
		matched := false
		for _, fn := range alarmFlagNames {
			if strings.EqualFold(tok, fn.name) {
				flags |= fn.flag
				matched = true
				break
			}
		}
		if !matched {
			return 0, &ParseError{Kind: "Alarm", Text: text}
		}
	}
	return uint16(flags), nil
}

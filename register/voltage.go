package register

import (
	"strconv"
	"strings"
)

// voltageKind is raw/10 volts, one decimal place, no space before the
// unit (spec.md §4.F). Like Temperature its domain is "device range", so
// bounds beyond the one-byte wire width are enforced by the owning
// register's RawMin/RawMax, not here.
type voltageKind struct{}

func (voltageKind) Format(raw uint16) string {
	return strconv.FormatFloat(float64(raw)/10, 'f', 1, 64) + "V"
}

func (voltageKind) Parse(text string) (uint16, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimSuffix(s, "V")
	s = strings.TrimSpace(s)

	val, err := strconv.ParseFloat(s, 64)
	if err != nil || val < 0 {
		return 0, &ParseError{Kind: "Voltage", Text: text}
	}
	raw := int(val*10 + 0.5)
	if raw > 0xFF {
		return 0, &ParseError{Kind: "Voltage", Text: text}
	}
	if voltageKind{}.Format(uint16(raw)) != strconv.FormatFloat(val, 'f', 1, 64)+"V" {
		return 0, &ParseError{Kind: "Voltage", Text: text}
	}
	return uint16(raw), nil
}

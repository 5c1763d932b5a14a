package register

import (
	"strconv"
	"strings"
)

// temperatureKind is a whole-degree-Celsius reading; raw is the value
// unscaled. Spec.md §4.F gives its domain as "device range" rather than
// an intrinsic subset, so the kind itself only bounds raw to the
// register's one-byte wire width and leaves per-device limits to the
// owning register's RawMin/RawMax.
type temperatureKind struct{}

func (temperatureKind) Format(raw uint16) string {
	return strconv.FormatInt(int64(raw), 10) + "C"
}

func (temperatureKind) Parse(text string) (uint16, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimSuffix(s, "C")
	s = strings.TrimSpace(s)

	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil || n < 0 || n > 0xFF {
		return 0, &ParseError{Kind: "Temperature", Text: text}
	}
	return uint16(n), nil
}

package register

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// baudRateKind maps the one-byte baud rate divisor to bps: bps = 2000000 /
// (raw + 1) (spec.md §4.F). Parse only accepts text whose bps value
// divides 2000000 exactly; anything else has no exact raw divisor.
type baudRateKind struct{}

func (baudRateKind) Format(raw uint16) string {
	bps := int(math.Round(2000000.0 / float64(raw+1)))
	return fmt.Sprintf("%d bps", bps)
}

func (baudRateKind) Parse(text string) (uint16, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimSuffix(s, "bps")
	s = strings.TrimSpace(s)

	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, &ParseError{Kind: "BaudRate", Text: text}
	}
	if 2000000%n != 0 {
		return 0, &ParseError{Kind: "BaudRate", Text: text}
	}
	raw := 2000000/n - 1
	if raw < 0 || raw > 254 {
		return 0, &ParseError{Kind: "BaudRate", Text: text}
	}
	return uint16(raw), nil
}

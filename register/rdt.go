package register

import (
	"fmt"
	"strconv"
	"strings"
)

// rdtKind is the return delay time: raw * 2 microseconds (spec.md §4.F).
type rdtKind struct{}

func (rdtKind) Format(raw uint16) string {
	return fmt.Sprintf("%d usec", int(raw)*2)
}

func (rdtKind) Parse(text string) (uint16, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimSuffix(s, "usec")
	s = strings.TrimSpace(s)

	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, &ParseError{Kind: "RDT", Text: text}
	}
	if n%2 != 0 {
		return 0, &ParseError{Kind: "RDT", Text: text}
	}
	raw := n / 2
	if raw > 254 {
		return 0, &ParseError{Kind: "RDT", Text: text}
	}
	return uint16(raw), nil
}

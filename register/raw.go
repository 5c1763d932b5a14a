package register

import (
	"strconv"
	"strings"
)

// rawKind is the default kind: the raw value formatted and parsed as a
// plain decimal (or 0x/0-prefixed hex/octal) integer, bounded only by the
// register's byte width.
type rawKind struct {
	size byte
}

// NewRaw returns the Raw kind for a register of the given width in bytes
// (1 or 2).
func NewRaw(size byte) Kind {
	return rawKind{size: size}
}

func (k rawKind) domainMax() uint64 {
	if k.size == 1 {
		return 0xFF
	}
	return 0xFFFF
}

func (rawKind) Format(raw uint16) string {
	return strconv.FormatUint(uint64(raw), 10)
}

func (k rawKind) Parse(text string) (uint16, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(text), 0, 32)
	if err != nil || n > k.domainMax() {
		return 0, &ParseError{Kind: "Raw", Text: text}
	}
	return uint16(n), nil
}

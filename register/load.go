package register

import "fmt"

// loadKind is the present-load reading: bit 10 is rotation sense, bits
// 0-9 are magnitude (spec.md §4.F). It is read-only on every device type
// that declares it, so Parse has no raw encoding to produce.
type loadKind struct{}

func (loadKind) Format(raw uint16) string {
	magnitude := raw & 0x3FF
	if raw&0x400 != 0 {
		return fmt.Sprintf("CW %d", magnitude)
	}
	return fmt.Sprintf("CCW %d", magnitude)
}

func (loadKind) Parse(text string) (uint16, error) {
	return 0, ErrReadOnlyKind
}

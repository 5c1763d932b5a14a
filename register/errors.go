package register

import "fmt"

// ParseError reports text a Kind could not parse: out of its domain,
// malformed, or (for Angle/AngularVelocity) not an exact multiple of the
// kind's resolution.
type ParseError struct {
	Kind string
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("register: %s: cannot parse %q", e.Kind, e.Text)
}

// ErrReadOnlyKind is returned by Parse on kinds that only ever describe
// device-reported values (Load).
var ErrReadOnlyKind = fmt.Errorf("register: kind is read-only, has no raw encoding to parse")

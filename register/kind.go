// Package register implements the closed set of register kinds from
// spec.md §4.F: each kind knows how to turn a raw wire value into
// human-facing text and back, with its own intrinsic raw domain on top of
// whatever range the owning register declares.
package register

// Kind is a register's semantic type: it formats a raw value for display
// and parses display text back into a raw value.
type Kind interface {
	// Format renders raw as human-facing text, including units where
	// the kind calls for them.
	Format(raw uint16) string

	// Parse is the inverse of Format for writable registers. It rejects
	// out-of-domain or unrecognised text with a *ParseError.
	Parse(text string) (uint16, error)
}

// Lookup returns the Kind named by name, sized for a register of the
// given width in bytes. An empty or unrecognised name defaults to Raw,
// per spec.md §4.E ("Unknown register types default to raw-integer
// kind.").
func Lookup(name string, size byte) Kind {
	switch name {
	case "OnOff":
		return onOffKind{}
	case "Direction":
		return directionKind{}
	case "BaudRate":
		return baudRateKind{}
	case "RDT":
		return rdtKind{}
	case "Angle":
		return newAngleKind()
	case "AngularVelocity":
		return newAngularVelocityKind()
	case "Temperature":
		return temperatureKind{}
	case "Voltage":
		return voltageKind{}
	case "StatusRet":
		return statusRetKind{}
	case "Alarm":
		return alarmKind{}
	case "Load":
		return loadKind{}
	default:
		return NewRaw(size)
	}
}

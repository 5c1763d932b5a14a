// Package regtable loads the declarative register-table file format
// (spec.md §4.E, §6) into immutable DeviceType values.
package regtable

import "strings"

// Access controls whether a register may be written.
type Access int

const (
	ReadOnly Access = iota
	ReadWrite
)

func (a Access) String() string {
	if a == ReadWrite {
		return "rw"
	}
	return "ro"
}

// Register is immutable metadata describing one addressable field of one
// device type (spec.md §3).
type Register struct {
	Offset byte
	Name   string
	Size   byte
	Access Access
	// HasRange is true when the file declared an explicit raw_min/raw_max
	// pair; when false, RawMin and RawMax are both zero and unchecked.
	HasRange bool
	RawMin   uint16
	RawMax   uint16
	// Kind names one of the register kinds register.Kind implements
	// (spec.md §4.F); an empty or unrecognised name defaults to "Raw".
	Kind string
}

// DeviceType is an immutable { name, model number, register table },
// shared by reference between every Device built against it (spec.md
// §3 "Lifecycle": built once at startup, immutable thereafter).
type DeviceType struct {
	Name        string
	ModelNumber int

	registers []Register
	byOffset  map[byte]*Register
	byName    map[string]*Register
}

// Registers returns every register in offset order.
func (dt *DeviceType) Registers() []Register {
	return dt.registers
}

// ByOffset looks up a register by its address.
func (dt *DeviceType) ByOffset(offset byte) (*Register, bool) {
	r, ok := dt.byOffset[offset]
	return r, ok
}

// ByName looks a register up by name, case-insensitively.
func (dt *DeviceType) ByName(name string) (*Register, bool) {
	r, ok := dt.byName[strings.ToLower(name)]
	return r, ok
}

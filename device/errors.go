package device

import "fmt"

// RangeError reports a raw value outside a register's declared
// [RawMin, RawMax] (spec.md §7).
type RangeError struct {
	Register string
	Raw      uint16
	Min, Max uint16
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("device: %s: raw value %d outside [%d, %d]", e.Register, e.Raw, e.Min, e.Max)
}

// UnknownRegisterError reports a name or offset with no matching register
// on the device's DeviceType.
type UnknownRegisterError struct {
	NameOrOffset string
}

func (e *UnknownRegisterError) Error() string {
	return fmt.Sprintf("device: unknown register %q", e.NameOrOffset)
}

// UnknownDeviceTypeError reports a registry lookup miss.
type UnknownDeviceTypeError struct {
	Name string
}

func (e *UnknownDeviceTypeError) Error() string {
	return fmt.Sprintf("device: unknown device type %q", e.Name)
}

// ErrReadOnlyRegister is returned by Set/SetRaw/DeferredSet against a
// register declared "ro".
var ErrReadOnlyRegister = fmt.Errorf("device: register is read-only")

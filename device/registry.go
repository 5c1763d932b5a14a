package device

import (
	"io"

	"github.com/dhylands/bioloid/regtable"
)

// Registry maps device-type name to its immutable DeviceType. Spec.md §5:
// built once at startup, read-only thereafter, so it needs no locking.
type Registry struct {
	byName map[string]*regtable.DeviceType
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: map[string]*regtable.DeviceType{}}
}

// LoadRegistry parses every DeviceType block out of r and returns a
// populated Registry.
func LoadRegistry(r io.Reader) (*Registry, error) {
	types, err := regtable.ParseAll(r)
	if err != nil {
		return nil, err
	}
	reg := NewRegistry()
	for _, dt := range types {
		reg.Add(dt)
	}
	return reg, nil
}

// Add registers dt under its own name, overwriting any earlier entry of
// the same name.
func (r *Registry) Add(dt *regtable.DeviceType) {
	r.byName[dt.Name] = dt
}

// Lookup returns the DeviceType named name.
func (r *Registry) Lookup(name string) (*regtable.DeviceType, bool) {
	dt, ok := r.byName[name]
	return dt, ok
}

// Get is Lookup with a spec.md §7 UnknownDeviceTypeError in place of the ok
// bool, for callers (device.NewFromRegistry, the interactive shell) that
// want a single error return rather than a second branch on a bool.
func (r *Registry) Get(name string) (*regtable.DeviceType, error) {
	dt, ok := r.Lookup(name)
	if !ok {
		return nil, &UnknownDeviceTypeError{Name: name}
	}
	return dt, nil
}

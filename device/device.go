// Package device implements the device-type registry and the per-device
// façade (spec.md §4.G): named, typed register access layered over a
// transactor.Transactor.
package device

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dhylands/bioloid/packet"
	"github.com/dhylands/bioloid/regtable"
	"github.com/dhylands/bioloid/register"
	"github.com/dhylands/bioloid/transactor"
)

// Device is one addressable device of a known DeviceType, reachable
// through a shared Transactor.
type Device struct {
	tr    *transactor.Transactor
	dt    *regtable.DeviceType
	id    byte
	level transactor.StatusReturnLevel
}

// New returns a façade for device id of type dt, issued over tr. level is
// the device's current status-return-level, used to decide which
// instructions expect a reply (spec.md §4.D).
func New(tr *transactor.Transactor, dt *regtable.DeviceType, id byte, level transactor.StatusReturnLevel) *Device {
	return &Device{tr: tr, dt: dt, id: id, level: level}
}

// NewFromRegistry resolves typeName against reg and returns a façade for
// device id of that type, or an *UnknownDeviceTypeError if reg has no such
// type registered.
func NewFromRegistry(reg *Registry, typeName string, tr *transactor.Transactor, id byte, level transactor.StatusReturnLevel) (*Device, error) {
	dt, err := reg.Get(typeName)
	if err != nil {
		return nil, err
	}
	return New(tr, dt, id, level), nil
}

// ID returns the device's bus address.
func (d *Device) ID() byte { return d.id }

// Ping pings the device, returning its reported error flags as success
// per spec.md §7.
func (d *Device) Ping() (packet.ErrorFlags, error) {
	return d.tr.Ping(d.id)
}

// Reset issues RESET.
func (d *Device) Reset() error {
	return d.tr.Reset(d.id, d.level)
}

// ReadData reads length raw bytes starting at the offset named by
// nameOrOffset.
func (d *Device) ReadData(nameOrOffset string, length byte) ([]byte, error) {
	offset, _, _, err := d.resolve(nameOrOffset)
	if err != nil {
		return nil, err
	}
	return d.tr.Read(d.id, offset, length)
}

// WriteData writes data starting at the offset named by nameOrOffset.
func (d *Device) WriteData(nameOrOffset string, data []byte) error {
	offset, _, _, err := d.resolve(nameOrOffset)
	if err != nil {
		return err
	}
	return d.tr.Write(d.id, offset, data, d.level)
}

// RegWrite queues data at the named offset, applied on the next broadcast
// Action.
func (d *Device) RegWrite(nameOrOffset string, data []byte) error {
	offset, _, _, err := d.resolve(nameOrOffset)
	if err != nil {
		return err
	}
	return d.tr.RegWrite(d.id, offset, data, d.level)
}

// Get reads a named register and formats it through its kind. name ==
// "all" returns a tabular listing of every readable register instead
// (spec.md §4.G).
func (d *Device) Get(name string) (string, error) {
	if strings.EqualFold(name, "all") {
		return d.GetAll()
	}
	reg, ok := d.dt.ByName(name)
	if !ok {
		return "", &UnknownRegisterError{NameOrOffset: name}
	}
	raw, err := d.readRaw(reg)
	if err != nil {
		return "", err
	}
	return register.Lookup(reg.Kind, reg.Size).Format(raw), nil
}

// GetAll formats every readable register in offset order as "name: value"
// lines.
func (d *Device) GetAll() (string, error) {
	regs := make([]regtable.Register, len(d.dt.Registers()))
	copy(regs, d.dt.Registers())
	sort.Slice(regs, func(i, j int) bool { return regs[i].Offset < regs[j].Offset })

	var lines []string
	for _, reg := range regs {
		raw, err := d.readRaw(&reg)
		if err != nil {
			return "", err
		}
		text := register.Lookup(reg.Kind, reg.Size).Format(raw)
		lines = append(lines, fmt.Sprintf("%s: %s", reg.Name, text))
	}
	return strings.Join(lines, "\n"), nil
}

// Set parses text through the named register's kind and writes the
// resulting raw value.
func (d *Device) Set(name, text string) error {
	reg, err := d.writableRegister(name)
	if err != nil {
		return err
	}
	raw, err := register.Lookup(reg.Kind, reg.Size).Parse(text)
	if err != nil {
		return err
	}
	return d.writeRaw(reg, raw)
}

// SetRaw parses text as a bare integer (decimal/hex/octal), bypassing
// kind-specific unit conversion, and writes it.
func (d *Device) SetRaw(name, text string) error {
	reg, err := d.writableRegister(name)
	if err != nil {
		return err
	}
	raw, err := parseRawInteger(text, reg.Size)
	if err != nil {
		return err
	}
	return d.writeRaw(reg, raw)
}

// DeferredSet behaves like Set but issues REG_WRITE instead of
// WRITE_DATA, so the change only takes effect on the next Action.
func (d *Device) DeferredSet(name, text string) error {
	reg, err := d.writableRegister(name)
	if err != nil {
		return err
	}
	raw, err := register.Lookup(reg.Kind, reg.Size).Parse(text)
	if err != nil {
		return err
	}
	if err := d.checkRange(reg, raw); err != nil {
		return err
	}
	return d.RegWrite(reg.Name, encodeLE(raw, reg.Size))
}

// GetRaw reads a named register and returns its raw integer value as
// decimal text, bypassing kind-specific formatting.
func (d *Device) GetRaw(name string) (string, error) {
	reg, ok := d.dt.ByName(name)
	if !ok {
		return "", &UnknownRegisterError{NameOrOffset: name}
	}
	raw, err := d.readRaw(reg)
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(uint64(raw), 10), nil
}

// Scan pings every id in ids and returns the devices that answered.
func (d *Device) Scan(ids []byte) ([]bioloidScanResult, error) {
	results, err := d.tr.Scan(ids)
	if err != nil {
		return nil, err
	}
	out := make([]bioloidScanResult, len(results))
	for i, r := range results {
		out[i] = bioloidScanResult{ID: r.ID, Model: r.Model, Version: r.Version}
	}
	return out, nil
}

// bioloidScanResult mirrors bus.ScanResult so callers of this package
// never need to import bus directly for a Scan result.
type bioloidScanResult struct {
	ID      byte
	Model   uint16
	Version byte
}

func (d *Device) readRaw(reg *regtable.Register) (uint16, error) {
	data, err := d.tr.Read(d.id, reg.Offset, reg.Size)
	if err != nil {
		return 0, err
	}
	return decodeLE(data), nil
}

func (d *Device) writeRaw(reg *regtable.Register, raw uint16) error {
	if err := d.checkRange(reg, raw); err != nil {
		return err
	}
	return d.tr.Write(d.id, reg.Offset, encodeLE(raw, reg.Size), d.level)
}

func (d *Device) writableRegister(name string) (*regtable.Register, error) {
	reg, ok := d.dt.ByName(name)
	if !ok {
		return nil, &UnknownRegisterError{NameOrOffset: name}
	}
	if reg.Access == regtable.ReadOnly {
		return nil, ErrReadOnlyRegister
	}
	return reg, nil
}

func (d *Device) checkRange(reg *regtable.Register, raw uint16) error {
	if !reg.HasRange {
		return nil
	}
	if raw < reg.RawMin || raw > reg.RawMax {
		return &RangeError{Register: reg.Name, Raw: raw, Min: reg.RawMin, Max: reg.RawMax}
	}
	return nil
}

// resolve maps a register name or a literal decimal/hex/octal offset to a
// wire offset, the register's declared size when known, and the register
// itself when the table names one at that offset.
func (d *Device) resolve(nameOrOffset string) (offset byte, size byte, reg *regtable.Register, err error) {
	if reg, ok := d.dt.ByName(nameOrOffset); ok {
		return reg.Offset, reg.Size, reg, nil
	}
	n, perr := strconv.ParseUint(nameOrOffset, 0, 8)
	if perr != nil {
		return 0, 0, nil, &UnknownRegisterError{NameOrOffset: nameOrOffset}
	}
	if reg, ok := d.dt.ByOffset(byte(n)); ok {
		return reg.Offset, reg.Size, reg, nil
	}
	return byte(n), 0, nil, nil
}

func parseRawInteger(text string, size byte) (uint16, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(text), 0, 32)
	if err != nil {
		return 0, &register.ParseError{Kind: "Raw", Text: text}
	}
	var max uint64 = 0xFF
	if size == 2 {
		max = 0xFFFF
	}
	if n > max {
		return 0, &register.ParseError{Kind: "Raw", Text: text}
	}
	return uint16(n), nil
}

func encodeLE(raw uint16, size byte) []byte {
	if size == 2 {
		return []byte{byte(raw), byte(raw >> 8)}
	}
	return []byte{byte(raw)}
}

func decodeLE(data []byte) uint16 {
	if len(data) == 2 {
		return uint16(data[0]) | uint16(data[1])<<8
	}
	if len(data) == 1 {
		return uint16(data[0])
	}
	return 0
}

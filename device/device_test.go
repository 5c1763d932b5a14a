package device_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dhylands/bioloid/device"
	"github.com/dhylands/bioloid/packet"
	"github.com/dhylands/bioloid/regtable"
	"github.com/dhylands/bioloid/testbus"
	"github.com/dhylands/bioloid/transactor"
)

const ax12Table = `
DeviceType: ax-12
Model: 12

Register: 3 id 1 rw 0 253
Register: 4 baud-rate 1 rw 0 254 BaudRate
Register: 6 cw-angle-limit 2 rw 0 1023 Angle
Register: 24 torque-enable 1 rw 0 1 OnOff
Register: 26 present-temp 1 ro
Register: 42 min-voltage 1 rw 50 140 Voltage
EndDeviceType
`

func newDevice(t *testing.T, tb *testbus.Bus) *device.Device {
	t.Helper()
	dt, err := regtable.Parse(strings.NewReader(ax12Table))
	require.NoError(t, err)
	tr := transactor.New(tb, transactor.DefaultTimeout, zap.NewNop())
	return device.New(tr, dt, 0x01, transactor.StatusReturnAll)
}

func TestGetFormatsThroughKind(t *testing.T) {
	tb := testbus.New()
	tb.ExpectCmdStruct(0x01, packet.ReadData, []byte{24, 1})
	tb.ScriptRspStruct(0x01, 0, []byte{0x01})

	d := newDevice(t, tb)
	text, err := d.Get("torque-enable")
	require.NoError(t, err)
	assert.Equal(t, "on", text)
	require.NoError(t, tb.Done())
}

func TestGetAllListsEveryReadableRegisterInOffsetOrder(t *testing.T) {
	tb := testbus.New()
	tb.ExpectCmdStruct(0x01, packet.ReadData, []byte{3, 1})
	tb.ScriptRspStruct(0x01, 0, []byte{0x01})
	tb.ExpectCmdStruct(0x01, packet.ReadData, []byte{4, 1})
	tb.ScriptRspStruct(0x01, 0, []byte{0x00})
	tb.ExpectCmdStruct(0x01, packet.ReadData, []byte{6, 2})
	tb.ScriptRspStruct(0x01, 0, []byte{0xFF, 0x03})
	tb.ExpectCmdStruct(0x01, packet.ReadData, []byte{24, 1})
	tb.ScriptRspStruct(0x01, 0, []byte{0x00})
	tb.ExpectCmdStruct(0x01, packet.ReadData, []byte{26, 1})
	tb.ScriptRspStruct(0x01, 0, []byte{40})
	tb.ExpectCmdStruct(0x01, packet.ReadData, []byte{42, 1})
	tb.ScriptRspStruct(0x01, 0, []byte{75})

	d := newDevice(t, tb)
	text, err := d.Get("all")
	require.NoError(t, err)
	lines := strings.Split(text, "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "id: 1", lines[0])
	assert.Equal(t, "cw-angle-limit: 300.0 deg", lines[2])
	assert.Equal(t, "min-voltage: 7.5V", lines[5])
	require.NoError(t, tb.Done())
}

func TestSetParsesAndWritesRaw(t *testing.T) {
	tb := testbus.New()
	tb.ExpectCmdStruct(0x01, packet.WriteData, []byte{24, 1})
	tb.ScriptRspStruct(0x01, 0, nil)

	d := newDevice(t, tb)
	require.NoError(t, d.Set("torque-enable", "on"))
	require.NoError(t, tb.Done())
}

func TestSetRejectsReadOnlyRegister(t *testing.T) {
	d := newDevice(t, testbus.New())
	err := d.Set("present-temp", "40C")
	assert.ErrorIs(t, err, device.ErrReadOnlyRegister)
}

func TestSetRejectsOutOfRangeRaw(t *testing.T) {
	d := newDevice(t, testbus.New())
	err := d.Set("id", "254")
	var rangeErr *device.RangeError
	require.ErrorAs(t, err, &rangeErr)
}

func TestSetAcceptsRangeBoundary(t *testing.T) {
	tb := testbus.New()
	tb.ExpectCmdStruct(0x01, packet.WriteData, []byte{42, 50})
	tb.ScriptRspStruct(0x01, 0, nil)

	d := newDevice(t, tb)
	require.NoError(t, d.Set("min-voltage", "5.0V"))
	require.NoError(t, tb.Done())
}

func TestSetRawBypassesUnitConversion(t *testing.T) {
	tb := testbus.New()
	tb.ExpectCmdStruct(0x01, packet.WriteData, []byte{24, 1})
	tb.ScriptRspStruct(0x01, 0, nil)

	d := newDevice(t, tb)
	require.NoError(t, d.SetRaw("torque-enable", "1"))
	require.NoError(t, tb.Done())
}

func TestDeferredSetUsesRegWrite(t *testing.T) {
	tb := testbus.New()
	tb.ExpectCmdStruct(0x01, packet.RegWrite, []byte{24, 1})
	tb.ScriptRspStruct(0x01, 0, nil)

	d := newDevice(t, tb)
	require.NoError(t, d.DeferredSet("torque-enable", "on"))
	require.NoError(t, tb.Done())
}

func TestGetRawBypassesFormatting(t *testing.T) {
	tb := testbus.New()
	tb.ExpectCmdStruct(0x01, packet.ReadData, []byte{6, 2})
	tb.ScriptRspStruct(0x01, 0, []byte{0xFF, 0x03})

	d := newDevice(t, tb)
	text, err := d.GetRaw("cw-angle-limit")
	require.NoError(t, err)
	assert.Equal(t, "1023", text)
	require.NoError(t, tb.Done())
}

func TestUnknownRegisterNameIsAnError(t *testing.T) {
	d := newDevice(t, testbus.New())
	_, err := d.Get("nonexistent")
	var unknownErr *device.UnknownRegisterError
	require.ErrorAs(t, err, &unknownErr)
}

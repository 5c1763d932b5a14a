package register_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhylands/bioloid/register"
)

func TestRawFormatAndParse(t *testing.T) {
	k := register.Lookup("", 1)
	assert.Equal(t, "255", k.Format(255))

	raw, err := k.Parse("0xFF")
	require.NoError(t, err)
	assert.Equal(t, uint16(255), raw)

	_, err = k.Parse("256")
	require.Error(t, err)
}

func TestUnknownKindDefaultsToRaw(t *testing.T) {
	k := register.Lookup("SomeFutureKind", 2)
	assert.Equal(t, "1000", k.Format(1000))
}

func TestOnOff(t *testing.T) {
	k := register.Lookup("OnOff", 1)
	assert.Equal(t, "off", k.Format(0))
	assert.Equal(t, "on", k.Format(1))

	raw, err := k.Parse("ON")
	require.NoError(t, err)
	assert.Equal(t, uint16(1), raw)

	_, err = k.Parse("maybe")
	require.Error(t, err)
}

func TestBaudRateRoundTrip(t *testing.T) {
	k := register.Lookup("BaudRate", 1)
	assert.Equal(t, "1000000 bps", k.Format(1))

	raw, err := k.Parse("1000000 bps")
	require.NoError(t, err)
	assert.Equal(t, uint16(1), raw)

	_, err = k.Parse("123456 bps")
	require.Error(t, err, "123456 does not divide 2000000 exactly")
}

func TestRDTRoundTrip(t *testing.T) {
	k := register.Lookup("RDT", 1)
	assert.Equal(t, "4 usec", k.Format(2))

	raw, err := k.Parse("4 usec")
	require.NoError(t, err)
	assert.Equal(t, uint16(2), raw)

	_, err = k.Parse("5 usec")
	require.Error(t, err, "odd microsecond counts have no raw")
}

func TestAngleExactRoundTrip(t *testing.T) {
	k := register.Lookup("Angle", 2)
	assert.Equal(t, "300.0 deg", k.Format(1023))
	assert.Equal(t, "0.0 deg", k.Format(0))

	raw, err := k.Parse("300.0 deg")
	require.NoError(t, err)
	assert.Equal(t, uint16(1023), raw)
}

func TestAngleRejectsUnreachableValue(t *testing.T) {
	k := register.Lookup("Angle", 2)
	_, err := k.Parse("300.3 deg")
	require.Error(t, err)

	var perr *register.ParseError
	require.ErrorAs(t, err, &perr)
}

func TestAngularVelocityRoundTrip(t *testing.T) {
	k := register.Lookup("AngularVelocity", 2)
	assert.Equal(t, "114.0 RPM", k.Format(1023))

	raw, err := k.Parse("114.0 RPM")
	require.NoError(t, err)
	assert.Equal(t, uint16(1023), raw)
}

func TestTemperature(t *testing.T) {
	k := register.Lookup("Temperature", 1)
	assert.Equal(t, "70C", k.Format(70))

	raw, err := k.Parse("70C")
	require.NoError(t, err)
	assert.Equal(t, uint16(70), raw)
}

func TestVoltageAcceptsExactBoundary(t *testing.T) {
	k := register.Lookup("Voltage", 1)
	assert.Equal(t, "5.0V", k.Format(50))

	raw, err := k.Parse("5.0V")
	require.NoError(t, err)
	assert.Equal(t, uint16(50), raw)
}

func TestStatusRet(t *testing.T) {
	k := register.Lookup("StatusRet", 1)
	assert.Equal(t, "all", k.Format(2))

	raw, err := k.Parse("read")
	require.NoError(t, err)
	assert.Equal(t, uint16(1), raw)
}

func TestAlarmFormatsCanonicalNames(t *testing.T) {
	k := register.Lookup("Alarm", 1)
	assert.Equal(t, "None", k.Format(0))
	assert.Equal(t, "All", k.Format(0x7F))
	assert.Equal(t, "OverHeating,Overload", k.Format(0x24))

	raw, err := k.Parse("OverHeating,Overload")
	require.NoError(t, err)
	assert.Equal(t, uint16(0x24), raw)
}

func TestLoadIsReadOnly(t *testing.T) {
	k := register.Lookup("Load", 2)
	assert.Equal(t, "CCW 100", k.Format(100))
	assert.Equal(t, "CW 100", k.Format(0x400|100))

	_, err := k.Parse("CW 100")
	assert.ErrorIs(t, err, register.ErrReadOnlyKind)
}

package bus_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dhylands/bioloid/bus"
	"github.com/dhylands/bioloid/packet"
)

// fakeTransport is a minimal bus.Transport backed by in-memory buffers.
type fakeTransport struct {
	r *bytes.Buffer
	w *bytes.Buffer
}

func (f *fakeTransport) Read(p []byte) (int, error)  { return f.r.Read(p) }
func (f *fakeTransport) Write(p []byte) (int, error) { return f.w.Write(p) }
func (f *fakeTransport) SetReadTimeout(time.Duration) error {
	return nil
}

func TestNewRealBusNoLoggingLeavesTransportUnwrapped(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	zl := zap.New(core)

	tr := &fakeTransport{r: &bytes.Buffer{}, w: &bytes.Buffer{}}
	b := bus.NewRealBus(tr, packet.NoLogging, zl)

	pingBytes, err := packet.Encode(0x01, packet.Ping, nil)
	require.NoError(t, err)
	require.NoError(t, b.WritePacket(pingBytes))

	assert.Equal(t, 0, logs.Len(), "NoLogging must not emit a happy-path log")
	assert.Equal(t, pingBytes, tr.w.Bytes())
}

func TestNewRealBusLogsHappyPathReadsAndWrites(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	zl := zap.New(core)

	// A status packet for id 1, no error flags, empty payload.
	status := []byte{0xFF, 0xFF, 0x01, 0x02, 0x00, 0xFC}
	tr := &fakeTransport{r: bytes.NewBuffer(status), w: &bytes.Buffer{}}
	b := bus.NewRealBus(tr, packet.LogReadWrite, zl)

	pingBytes, err := packet.Encode(0x01, packet.Ping, nil)
	require.NoError(t, err)
	require.NoError(t, b.WritePacket(pingBytes))

	pkt, err := b.ReadStatusPacket(time.Second)
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), pkt.ID)

	require.GreaterOrEqual(t, logs.Len(), 2)
	var sawRead, sawWrite bool
	for _, entry := range logs.All() {
		switch entry.Message {
		case "packet read":
			sawRead = true
		case "packet write":
			sawWrite = true
		}
	}
	assert.True(t, sawRead, "expected a happy-path packet read log entry")
	assert.True(t, sawWrite, "expected a happy-path packet write log entry")
}

// fakeTimeoutErr satisfies the unexported timeoutErr interface bus uses to
// distinguish a deadline expiry from a hard I/O failure.
type fakeTimeoutErr struct{}

func (fakeTimeoutErr) Error() string { return "i/o timeout" }
func (fakeTimeoutErr) Timeout() bool { return true }

// step is one canned Read result: either the next available byte, or an
// error (a timeout, or nil with n==0 to signal "no more buffered bytes
// right now" without a hard failure).
type step struct {
	b    byte
	err  error
	stop bool
}

// scriptedTransport replays a fixed sequence of Read results one byte at a
// time, so a timeout followed by late-arriving bytes can be modeled
// deterministically.
type scriptedTransport struct {
	steps []step
	i     int
	w     bytes.Buffer
}

func (s *scriptedTransport) Read(p []byte) (int, error) {
	if s.i >= len(s.steps) {
		return 0, fakeTimeoutErr{}
	}
	st := s.steps[s.i]
	s.i++
	if st.err != nil {
		return 0, st.err
	}
	if st.stop {
		return 0, nil
	}
	p[0] = st.b
	return 1, nil
}

func (s *scriptedTransport) Write(p []byte) (int, error) { return s.w.Write(p) }
func (s *scriptedTransport) SetReadTimeout(time.Duration) error {
	return nil
}

// TestReadStatusPacketResyncsAfterTimeout models a late reply to one
// transaction arriving only after its deadline has already expired: the
// bytes left over from it must be drained before the following
// transaction's own status packet is parsed (spec.md: "the transactor
// must also drain any trailing bytes up to the next preamble before
// returning, so a late reply to T1 does not corrupt T2").
func TestReadStatusPacketResyncsAfterTimeout(t *testing.T) {
	tr := &scriptedTransport{steps: []step{
		// T1's preamble and id arrive before the deadline expires.
		{b: 0xFF}, {b: 0xFF}, {b: 0x01},
		// The deadline expires before the rest of T1's reply shows up.
		{err: fakeTimeoutErr{}},
		// T1's remaining bytes trickle in just after the timeout.
		{b: 0x02}, {b: 0x00}, {b: 0xFC},
		// Nothing else is buffered yet; resync's drain loop stops here.
		{stop: true},
		// T2's own status packet (id 2, no error, empty payload) follows.
		{b: 0xFF}, {b: 0xFF}, {b: 0x02}, {b: 0x02}, {b: 0x00}, {b: 0xFB},
	}}
	b := bus.NewRealBus(tr, packet.NoLogging, zap.NewNop())

	_, err := b.ReadStatusPacket(time.Second)
	require.ErrorIs(t, err, bus.ErrTimedOut)

	pkt, err := b.ReadStatusPacket(time.Second)
	require.NoError(t, err)
	assert.Equal(t, byte(0x02), pkt.ID)
}

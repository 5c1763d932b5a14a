package bus

import (
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/dhylands/bioloid/packet"
)

// DefaultScanTimeout is the per-id response window ScanRange waits before
// deciding an id has no device listening, absent any device-specific
// return-delay-time information (spec.md §4.B: "typical 50 ms").
const DefaultScanTimeout = 50 * time.Millisecond

// ReadDeadliner lets a transport bound how long the next Read may block.
// daedaluz/goserial exposes the same shape as Options.SetReadTimeout; any
// transport that offers it (serial, a framed TCP connection, a test
// double) can back a RealBus without this package depending on a
// particular transport library.
type ReadDeadliner interface {
	SetReadTimeout(d time.Duration) error
}

// Transport is what RealBus needs from the outside world: a
// byte-oriented, half-duplex, deadline-capable channel. The concrete
// serial or TCP implementation behind it is supplied by the caller.
type Transport interface {
	io.ReadWriter
	ReadDeadliner
}

// RealBus adapts a Transport into the Bus contract, feeding bytes read
// from the transport through a packet.Decoder byte by byte until a
// status packet completes, errors, or the deadline set on the transport
// expires.
type RealBus struct {
	transport Transport
	decoder   *packet.Decoder
	logger    *zap.Logger
}

// NewRealBus wraps transport as a Bus. logger may be zap.NewNop() when no
// diagnostic output is wanted. level gates a packet.Logger wrapped around
// transport: packet.NoLogging leaves transport untouched, any other value
// logs the raw bytes crossing it (on the happy path, not just on the
// failure-path zap.Debug calls below) before they reach the decoder.
func NewRealBus(transport Transport, level byte, logger *zap.Logger) *RealBus {
	var t Transport = transport
	if level != packet.NoLogging {
		t = packet.NewLogger(transport, level, logger)
	}
	return &RealBus{
		transport: t,
		decoder:   packet.NewDecoder(),
		logger:    logger,
	}
}

func (b *RealBus) WritePacket(p []byte) error {
	if _, err := b.transport.Write(p); err != nil {
		b.logger.Debug("write failed", zap.Error(err))
		return ErrIO
	}
	return nil
}

// ReadStatusPacket sets the transport's read deadline to timeout and
// feeds bytes through the decoder one at a time until a packet, a
// framing/checksum error, or the deadline wins. On a decoder error or a
// timeout it drains every byte the transport already has available before
// returning, so a late reply cannot be misattributed to the following
// transaction.
func (b *RealBus) ReadStatusPacket(timeout time.Duration) (*packet.StatusPacket, error) {
	if err := b.transport.SetReadTimeout(timeout); err != nil {
		return nil, ErrIO
	}

	one := make([]byte, 1)
	for {
		n, err := b.transport.Read(one)
		if err != nil {
			if isTimeout(err) {
				b.resync()
				return nil, ErrTimedOut
			}
			return nil, ErrIO
		}
		if n == 0 {
			b.resync()
			return nil, ErrTimedOut
		}

		pkt, err := b.decoder.Feed(one[0])
		if err != nil {
			b.resync()
			b.logger.Debug("decode error", zap.Error(err))
			return nil, err
		}
		if pkt != nil {
			return pkt, nil
		}
	}
}

// resync resets the decoder and reads and discards bytes, with a short
// read timeout, until the transport returns no byte or an error, so a
// trailing fragment of a broken packet is not mistaken for the start of
// the next one. A preamble among those bytes is discarded too.
func (b *RealBus) resync() {
	b.decoder.Reset()
	buf := make([]byte, 1)
	_ = b.transport.SetReadTimeout(time.Millisecond)
	for {
		n, err := b.transport.Read(buf)
		if err != nil || n == 0 {
			return
		}
	}
}

func (b *RealBus) ScanRange(ids []byte) ([]ScanResult, error) {
	return Scan(b, ids, DefaultScanTimeout)
}

// timeoutErr is implemented by net.Error and similar transport errors
// that can distinguish a deadline expiry from a hard I/O failure.
type timeoutErr interface {
	Timeout() bool
}

func isTimeout(err error) bool {
	te, ok := err.(timeoutErr)
	return ok && te.Timeout()
}

package packet

// Encode renders a command packet for id, addressed with instruction and
// carrying payload, as the bytes that belong on the wire: a two-byte
// preamble, id, length, instruction code, payload and checksum.
func Encode(id byte, inst Instruction, payload []byte) ([]byte, error) {
	if id > BroadcastID {
		return nil, ErrInvalidID
	}
	if len(payload) > 251 {
		return nil, ErrPayloadTooBig
	}

	length := byte(2 + len(payload))
	out := make([]byte, 0, 6+len(payload))
	out = append(out, 0xFF, 0xFF, id, length, byte(inst))
	out = append(out, payload...)
	out = append(out, checksum(id, length, byte(inst), payload))
	return out, nil
}

type decoderState int

const (
	waitPre1 decoderState = iota
	waitPre2
	readID
	readLen
	readErr
	readPayload
	readChecksum
)

// Decoder is a byte-by-byte finite state machine that parses status
// packets out of an interleaved stream. It holds no reference to any I/O
// source; callers feed it one byte at a time as bytes arrive from the bus.
type Decoder struct {
	state   decoderState
	id      byte
	length  byte
	errByte byte
	needed  int
	payload []byte
}

// NewDecoder returns a Decoder ready to parse a fresh stream.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Reset discards any partially-parsed packet and returns the decoder to
// its initial, preamble-seeking state. It is called automatically after
// every completed packet and every error.
func (d *Decoder) Reset() {
	d.state = waitPre1
	d.id = 0
	d.length = 0
	d.errByte = 0
	d.needed = 0
	d.payload = nil
}

// Feed advances the state machine by one byte. It returns a non-nil
// StatusPacket once a full, checksum-valid packet has been read, or a
// non-nil error (ErrFraming or ErrChecksum) if the stream could not be
// parsed. Both are nil while a packet is still in progress; the decoder
// resets itself to WaitPre1 whenever it returns a packet or an error, so
// the next preamble in the stream is picked up automatically.
func (d *Decoder) Feed(b byte) (*StatusPacket, error) {
	switch d.state {
	case waitPre1:
		if b == 0xFF {
			d.state = waitPre2
		}
		return nil, nil

	case waitPre2:
		if b == 0xFF {
			d.state = readID
			return nil, nil
		}
		d.Reset()
		return nil, ErrFraming

	case readID:
		if b == 0xFF {
			// Triple (or longer) 0xFF run: only the last two consecutive
			// 0xFF bytes count as the preamble, so keep waiting for id.
			return nil, nil
		}
		d.id = b
		d.state = readLen
		return nil, nil

	case readLen:
		if b < 2 || b > 253 {
			d.Reset()
			return nil, ErrFraming
		}
		d.length = b
		d.state = readErr
		return nil, nil

	case readErr:
		d.errByte = b
		d.needed = int(d.length) - 2
		d.payload = make([]byte, 0, d.needed)
		if d.needed == 0 {
			d.state = readChecksum
		} else {
			d.state = readPayload
		}
		return nil, nil

	case readPayload:
		d.payload = append(d.payload, b)
		if len(d.payload) == d.needed {
			d.state = readChecksum
		}
		return nil, nil

	case readChecksum:
		want := checksum(d.id, d.length, d.errByte, d.payload)
		pkt := &StatusPacket{ID: d.id, Err: ErrorFlags(d.errByte), Payload: d.payload}
		d.Reset()
		if b != want {
			return nil, ErrChecksum
		}
		return pkt, nil
	}

	// Unreachable: the switch above is exhaustive over decoderState.
	return nil, nil
}

// Synced reports whether the decoder is currently mid-packet, i.e. it has
// locked onto a preamble and is not simply waiting for one.
func (d *Decoder) Synced() bool {
	return d.state != waitPre1 && d.state != waitPre2
}

// FindPreamble scans buf for the next 0xFF 0xFF pair and returns its
// starting index, or -1 if none is present.
func FindPreamble(buf []byte) int {
	for i := 0; i+1 < len(buf); i++ {
		if buf[i] == 0xFF && buf[i+1] == 0xFF {
			return i
		}
	}
	return -1
}

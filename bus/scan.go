package bus

import (
	"errors"
	"time"

	"github.com/dhylands/bioloid/packet"
)

// Scan implements the ScanRange algorithm from spec.md §4.B against any
// Bus: ping each id, and for those that answer, follow up with
// READ_DATA(offset=0, length=3) to recover model number and firmware
// version. Ids that time out on the ping are skipped rather than
// aborting the scan; any other error (framing, checksum, I/O) is
// propagated, since it indicates the bus itself is unhealthy rather than
// a device simply being absent.
func Scan(b Bus, ids []byte, timeout time.Duration) ([]ScanResult, error) {
	var results []ScanResult

	for _, id := range ids {
		pingBytes, err := packet.Encode(id, packet.Ping, nil)
		if err != nil {
			return nil, err
		}
		if err := b.WritePacket(pingBytes); err != nil {
			return nil, err
		}
		pingStatus, err := b.ReadStatusPacket(timeout)
		if errors.Is(err, ErrTimedOut) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if pingStatus.ID != id {
			continue
		}

		readBytes, err := packet.Encode(id, packet.ReadData, []byte{0x00, 0x03})
		if err != nil {
			return nil, err
		}
		if err := b.WritePacket(readBytes); err != nil {
			return nil, err
		}
		readStatus, err := b.ReadStatusPacket(timeout)
		if errors.Is(err, ErrTimedOut) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if len(readStatus.Payload) != 3 {
			continue
		}

		results = append(results, ScanResult{
			ID:      id,
			Model:   uint16(readStatus.Payload[0]) | uint16(readStatus.Payload[1])<<8,
			Version: readStatus.Payload[2],
		})
	}

	return results, nil
}

package packet

import (
	"encoding/hex"
	"io"
	"time"

	"go.uber.org/zap"
)

// Log level bitmask, matching the teacher's LogRead/LogWrite convention.
const (
	NoLogging    byte = 0
	LogRead      byte = 1 << 0
	LogWrite     byte = 1 << 1
	LogReadWrite byte = LogRead | LogWrite
)

// ReadWriteDeadliner is what Logger wraps: a transport that can read,
// write, and bound how long the next Read may block. It mirrors
// bus.Transport's shape (io.ReadWriter plus a SetReadTimeout method)
// without importing the bus package, which already imports this one.
type ReadWriteDeadliner interface {
	io.ReadWriter
	SetReadTimeout(d time.Duration) error
}

// Logger wraps a ReadWriteDeadliner and logs the bytes crossing it
// through a structured zap.Logger, gated by a LogRead/LogWrite bitmask.
// It changes nothing about the bytes themselves and forwards
// SetReadTimeout untouched, so it can be dropped in anywhere its wrapped
// transport is expected.
type Logger struct {
	rw     ReadWriteDeadliner
	level  byte
	logger *zap.Logger
}

// NewLogger wraps rw, logging reads and/or writes (per level) to logger.
func NewLogger(rw ReadWriteDeadliner, level byte, logger *zap.Logger) *Logger {
	return &Logger{rw: rw, level: level, logger: logger}
}

func (l *Logger) Read(p []byte) (int, error) {
	n, err := l.rw.Read(p)
	if l.level&LogRead != 0 && n > 0 {
		l.logger.Debug("packet read", zap.Int("byteCount", n), zap.String("hex", hex.EncodeToString(p[:n])))
	}
	return n, err
}

func (l *Logger) Write(p []byte) (int, error) {
	n, err := l.rw.Write(p)
	if l.level&LogWrite != 0 {
		l.logger.Debug("packet write", zap.Int("byteCount", n), zap.String("hex", hex.EncodeToString(p)))
	}
	return n, err
}

// SetReadTimeout forwards to the wrapped transport so Logger can stand in
// for it wherever a deadline-capable transport is expected.
func (l *Logger) SetReadTimeout(d time.Duration) error {
	return l.rw.SetReadTimeout(d)
}

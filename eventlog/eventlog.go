// Package eventlog implements the append-only circular event log: a
// bounded non-blocking submit queue draining into a 400-entry ring in
// EEPROM. Generalized from x/shmring's power-of-two byte-ring index
// arithmetic to a fixed-stride (5-byte) record ring; 400*5 isn't a power of
// two, so wrap is an explicit bounds check rather than a mask (§4.7).
package eventlog

import (
	"context"
	"time"

	"switchcore/bus"
	"switchcore/hal"
	"switchcore/sysstate"
)

// Record is one 5-byte on-disk entry: 32-bit big-endian tick, 8-bit code.
type Record struct {
	Tick uint32
	Code uint8
}

// Canonical log codes. The HAL's own read/write-op and IOException codes
// live in package hal (0x01-0x05); business-level codes used by
// persistence/handlers/auth/portmon start at 0x10 to keep the two
// namespaces visibly separate in a log dump.
const (
	CodeUserLoggedIn    uint8 = 0x10
	CodeUserLoggedOut   uint8 = 0x11
	CodeConfigSaved     uint8 = 0x12
	CodeVLANChanged     uint8 = 0x13
	CodeUserAdded       uint8 = 0x14
	CodeUserUpdated     uint8 = 0x15
	CodeUserDeleted     uint8 = 0x16
	CodePortLinkUp      uint8 = 0x17
	CodePortLinkDown    uint8 = 0x18
	CodeStackOverflow   uint8 = 0x1F // never emitted: Go has no stack-overflow hook (SPEC_FULL.md §6)
)

// BusinessEventBit maps a business-level code to its position in
// handlers.EventNames and in LogStatusFlags, the bit index RunEventMenu and
// EventStatus toggle and check. HAL codes (0x01-0x05) have no CLI-exposed
// enable/disable control and report ok=false; process always logs them.
func BusinessEventBit(code uint8) (bit uint, ok bool) {
	if code < CodeUserLoggedIn || code > CodePortLinkDown {
		return 0, false
	}
	return uint(code - CodeUserLoggedIn), true
}

// submitQueueLen bounds the non-blocking submit channel. Sized generously:
// a full queue here simply drops the newest code (§4.7: "if the task is
// not running, the code is dropped"), never halts — that fate is reserved
// for the ISR-to-task queues in i2cproto, which size themselves so a full
// queue is an unreachable invariant violation instead.
const submitQueueLen = 64

// Logger owns the submit queue, the EEPROM-backed ring, and the bus
// subscription that receives HAL-originated log codes.
type Logger struct {
	dev   *hal.Device
	st    *sysstate.State
	now   func() uint32
	queue chan uint8
	conn  *bus.Connection
	sub   *bus.Subscription
}

// New constructs a Logger. now supplies the 32-bit tick counter (spec §3:
// "timestamps are tick counters since boot", not wall-clock — callers pass
// a function reading milliseconds since process start).
func New(dev *hal.Device, st *sysstate.State, b *bus.Bus, now func() uint32) *Logger {
	conn := b.NewConnection("eventlog")
	l := &Logger{
		dev:   dev,
		st:    st,
		now:   now,
		queue: make(chan uint8, submitQueueLen),
		conn:  conn,
		sub:   conn.Subscribe(hal.LogTopic),
	}
	return l
}

// Submit enqueues code without blocking. Matches every other writer in the
// system (HAL ops arrive the same way, via the bus).
func (l *Logger) Submit(code uint8) {
	select {
	case l.queue <- code:
	default:
	}
}

// Run drains both the direct submit queue and the bus subscription until
// ctx is cancelled.
func (l *Logger) Run(ctx context.Context) {
	defer l.conn.Disconnect()
	for {
		select {
		case <-ctx.Done():
			return
		case code := <-l.queue:
			l.process(code)
		case msg, ok := <-l.sub.Channel():
			if !ok {
				return
			}
			if code, ok := msg.Payload.(uint8); ok {
				l.process(code)
			}
		}
	}
}

func (l *Logger) process(code uint8) {
	if bit, ok := BusinessEventBit(code); ok {
		flags := l.st.LogStatusFlags()
		if flags&(1<<bit) == 0 {
			return
		}
	}
	if prev, ok := l.st.PreviousLogCode(); ok && prev == code {
		return
	}
	l.st.SetPreviousLogCode(code)

	slot := l.st.AdvanceLogSlot()
	tick := l.now()
	buf := [sysstate.LogEntrySize]byte{
		byte(tick >> 24), byte(tick >> 16), byte(tick >> 8), byte(tick), code,
	}
	// LoggerTask's EEPROMSingleWrite calls in event_logger.c are equally
	// fire-and-forget: a failed write drops that one log entry rather than
	// blocking or retrying the logging path.
	_ = l.dev.BulkWrite(slot, buf[:])
}

// MonotonicTicker returns a now func reading milliseconds since it was
// called, for wiring into New from cmd/firmware and cmd/hostsim.
func MonotonicTicker() func() uint32 {
	start := time.Now()
	return func() uint32 { return uint32(time.Since(start).Milliseconds()) }
}

// ReadAll walks the full 400-entry ring in on-disk order starting at base,
// used by the CLI's event menu (§4.5) and by the eventlog and handlers tests.
func ReadAll(dev *hal.Device) ([]Record, error) {
	out := make([]Record, 0, sysstate.LogEntryCount)
	for i := 0; i < sysstate.LogEntryCount; i++ {
		addr := uint32(sysstate.LogRegionBase + i*sysstate.LogEntrySize)
		buf := make([]byte, sysstate.LogEntrySize)
		if err := dev.BulkRead(addr, buf); err != nil {
			return nil, err
		}
		out = append(out, Record{
			Tick: uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3]),
			Code: buf[4],
		})
	}
	return out, nil
}

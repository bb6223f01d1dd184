package i2cproto

import (
	"context"
	"sync"
	"time"

	"switchcore/halt"
)

// bufferSize bounds one in-flight transaction's parameter bytes (command
// code plus up to this many custom params), mirroring I2CBUFFERSIZE.
const bufferSize = 32

// interByteDelay is the fixed pre-response pause the slave must honor
// before driving its first response byte (§4.4's "honor a fixed inter-byte
// delay"), grounded on I2C_SLAVE_SEND_DLY's ~50us.
const interByteDelay = 50 * time.Microsecond

// queueDepth bounds the ISR-to-task packet queue. A full queue here is an
// unreachable invariant violation (§7 QueueFull), not something the slave
// can apply backpressure to, matching the original ISR's infinite stall on
// xQueueSendFromISR failure — ported as a fatal halt instead of a hang.
const queueDepth = 16

// Packet is one reassembled I²C transaction: buf[0] is the command code,
// buf[1:] the custom parameter bytes received so far.
type Packet struct {
	Buf   [bufferSize]byte
	Index int
}

// Transport is the minimal byte-level primitive the dispatcher needs from
// the real I²C slave peripheral — out of scope per spec §7 ("I²C
// master/slave byte primitives" are an external collaborator); this is the
// seam a real driver implements.
type Transport interface {
	PutByte(b byte) error
}

// Reassembler implements the slave ISR's packet-framing state machine
// (§4.4): START resets the buffer, DATA appends a byte and enqueues once
// the code's declared custom-param count is satisfied, STOP is a no-op.
// Safe to drive directly from an interrupt handler — it never blocks.
type Reassembler struct {
	table   *Table
	mu      sync.Mutex
	current Packet
	out     chan Packet
}

// NewReassembler wires a Reassembler that enqueues completed packets onto
// an internally owned bounded channel, drained by Dispatcher.Run.
func NewReassembler(table *Table) *Reassembler {
	return &Reassembler{table: table, out: make(chan Packet, queueDepth)}
}

// OnStart resets the per-transaction buffer index.
func (r *Reassembler) OnStart() {
	r.mu.Lock()
	r.current = Packet{}
	r.mu.Unlock()
}

// OnData appends one byte, wrapping the index back to zero on overflow,
// and enqueues the packet once Index reaches the code table's declared
// custom_param_count for buf[0] — exactly §4.4's boundary rule, off by the
// original's ">=" (a packet with more bytes than required re-triggers
// enqueue on every subsequent byte until STOP; harmless since the
// dispatcher re-validates the code before acting).
func (r *Reassembler) OnData(b byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current.Index >= bufferSize {
		r.current.Index = 0
	}
	r.current.Buf[r.current.Index] = b
	entry, _ := r.table.Lookup(r.current.Buf[0])

	if r.current.Index >= entry.CustomParamCount {
		select {
		case r.out <- r.current:
		default:
			halt.Fatal("i2cproto.Reassembler.OnData", errQueueFull)
		}
	}
	r.current.Index++
}

// OnStop is a documented no-op: the original's STOP branch does nothing.
func (r *Reassembler) OnStop() {}

var errQueueFull = fatalQueueFull{}

type fatalQueueFull struct{}

func (fatalQueueFull) Error() string { return "i2c packet queue full" }

// Dispatcher consumes reassembled packets and invokes their handler.
type Dispatcher struct {
	table     *Table
	reasm     *Reassembler
	transport Transport
	busMu     sync.Mutex
}

// NewDispatcher binds a Dispatcher to the table it was built from and the
// reassembler feeding it packets.
func NewDispatcher(table *Table, reasm *Reassembler, transport Transport) *Dispatcher {
	return &Dispatcher{table: table, reasm: reasm, transport: transport}
}

// Run drains the reassembler's packet queue until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case pkt := <-d.reasm.out:
			d.dispatch(pkt)
		}
	}
}

// dispatch implements §4.4 steps 1-2: validate the code, build the
// parameter buffer (static params then custom params), then drive the
// request/response pair under the I²C bus exclusion token.
func (d *Dispatcher) dispatch(pkt Packet) {
	entry, ok := d.table.Lookup(pkt.Buf[0])
	if !ok {
		return
	}

	params := make([]byte, 0, entry.StaticParamCount+entry.CustomParamCount)
	params = append(params, entry.StaticParams[:entry.StaticParamCount]...)
	for i := 0; i < entry.CustomParamCount; i++ {
		params = append(params, pkt.Buf[1+i])
	}

	d.busMu.Lock()
	defer d.busMu.Unlock()

	time.Sleep(interByteDelay)
	if d.transport != nil {
		d.transport.PutByte(byte(entry.ReturnCount))
	}
	ret := entry.Handler(params)
	if entry.ReturnCount == 1 && d.transport != nil {
		d.transport.PutByte(ret)
	}
}

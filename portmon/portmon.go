// Package portmon implements the port-link monitor task (§4.6): a periodic
// scan of the switch controller's interrupt status register that reacts to
// per-port link transitions by disabling learning, flushing the dynamic MAC
// table, and re-enabling learning, exactly as port_monitor_task.c's
// PortMonitorTask does for all five ports (four user ports plus expansion).
package portmon

import (
	"context"
	"fmt"
	"io"
	"time"

	"switchcore/bus"
	"switchcore/eventlog"
	"switchcore/hal"
	"switchcore/sysstate"
)

// scanInterval is the task's poll period, matching the original's
// LONG_RUNNING_TASK_DLY cadence for this task (~40ms class delay, §5).
const scanInterval = 40 * time.Millisecond

// LinkTopic carries (hal.PortOffset, up bool) whenever a port's link state
// changes, for any subscriber (portmon's own log line, future SNMP-style
// consumers) that wants to react without importing this package.
var LinkTopic = bus.T("port", "link")

// LinkEvent is LinkTopic's payload.
type LinkEvent struct {
	Port hal.PortOffset
	Up   bool
}

// portScan describes one of the five interrupt-status bits the controller
// exposes, in the fixed order the original scans them (expansion, then
// ports 4..1 descending).
type portScan struct {
	bit   uint8
	base  hal.PortOffset
	label string
}

var scanOrder = []portScan{
	{bit: 0x10, base: hal.ExpansionPortOffset, label: "Expansion port"},
	{bit: 0x08, base: hal.Port4Offset, label: "Port 0"},
	{bit: 0x04, base: hal.Port3Offset, label: "Port 1"},
	{bit: 0x02, base: hal.Port2Offset, label: "Port 2"},
	{bit: 0x01, base: hal.Port1Offset, label: "Port 3"},
}

// Monitor owns the polling loop's dependencies.
type Monitor struct {
	dev    *hal.Device
	st     *sysstate.State
	logger *eventlog.Logger
	bus    *bus.Bus
	out    io.Writer
}

// New constructs a Monitor. out receives the "[SYSTEM]: ... connected!"
// announcements the CLI's UART would otherwise print.
func New(dev *hal.Device, st *sysstate.State, logger *eventlog.Logger, b *bus.Bus, out io.Writer) *Monitor {
	return &Monitor{dev: dev, st: st, logger: logger, bus: b, out: out}
}

// Run polls scanInterval until ctx is cancelled, scanning only while a user
// is authenticated, per §4.6 ("only scans connected ports after a user has
// successfully logged in").
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(scanInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if m.st.Authenticated() {
				m.scan()
			}
		}
	}
}

func (m *Monitor) scan() {
	flags, err := m.dev.CtrlRead(hal.InterruptStatusRegister)
	if err != nil {
		return
	}
	for _, p := range scanOrder {
		if flags&p.bit == 0 {
			continue
		}
		m.handleTransition(p)
	}
}

func (m *Monitor) handleTransition(p portScan) {
	if err := m.dev.CtrlWrite(hal.InterruptStatusRegister, p.bit); err != nil {
		return
	}

	statusReg := hal.Reg(p.base, hal.PortStatus1Offset)
	status, err := m.dev.CtrlRead(statusReg)
	if err != nil {
		return
	}
	up := status>>5&1 != 0

	if m.out != nil {
		state := "disconnected"
		if up {
			state = "connected"
		}
		fmt.Fprintf(m.out, "\n[SYSTEM]: %s %s!\n", p.label, state)
	}
	if m.bus != nil {
		conn := m.bus.NewConnection("portmon")
		conn.Publish(conn.NewMessage(LinkTopic, LinkEvent{Port: p.base, Up: up}, true))
		conn.Disconnect()
	}
	if m.logger != nil {
		if up {
			m.logger.Submit(eventlog.CodePortLinkUp)
		} else {
			m.logger.Submit(eventlog.CodePortLinkDown)
		}
	}

	m.flushDynamicMAC(p.base)
}

// flushDynamicMAC disables learning on the port, requests a global dynamic
// MAC flush, polls the self-clearing flush bit, then re-enables learning —
// the exact three-step sequence the original repeats per-port.
func (m *Monitor) flushDynamicMAC(base hal.PortOffset) {
	ctrl2Reg := hal.Reg(base, hal.PortControl2Offset)

	ctrl2, err := m.dev.CtrlRead(ctrl2Reg)
	if err != nil {
		return
	}
	if err := m.dev.CtrlWrite(ctrl2Reg, ctrl2|1<<hal.PortControl2LearnDisableBit); err != nil {
		return
	}

	gc0, err := m.dev.CtrlRead(hal.GlobalControl0)
	if err != nil {
		return
	}
	if err := m.dev.CtrlWrite(hal.GlobalControl0, gc0|1<<hal.GlobalControl0FlushBit); err != nil {
		return
	}

	for {
		v, err := m.dev.CtrlRead(hal.GlobalControl0)
		if err != nil || v>>hal.GlobalControl0FlushBit&1 == 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	ctrl2, err = m.dev.CtrlRead(ctrl2Reg)
	if err != nil {
		return
	}
	m.dev.CtrlWrite(ctrl2Reg, ctrl2&^(1<<hal.PortControl2LearnDisableBit))
}

//go:build rp2040 || rp2350

// Command firmware boots the switch core on real hardware: two SPI
// channels (EEPROM, switch controller), one UART console, and the four
// long-running tasks (CLI interpreter, I²C dispatcher, port monitor, event
// logger) wired together over an in-process bus, mirroring
// cmd/pico-hal-main's boot shape.
package main

import (
	"context"
	"time"

	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"switchcore/bootconfig"
	"switchcore/bus"
	"switchcore/cli"
	"switchcore/eventlog"
	"switchcore/hal"
	"switchcore/i2cproto"
	"switchcore/persistence"
	"switchcore/portmon"
	"switchcore/sysstate"
)

const (
	eepromCSPin = machine.Pin(17)
	ctrlCSPin   = machine.Pin(21)
	consoleTX   = machine.Pin(0)
	consoleRX   = machine.Pin(1)
)

// embeddedBoardConfig is compiled in as a flash constant; boards that need
// different defaults (a non-default hostname or I²C address) ship a
// different build rather than a runtime config partition, since this
// firmware has no filesystem to read one from.
var embeddedBoardConfig []byte

// uartPort adapts uartx.UART to io.Reader/io.Writer for cli.Task.
type uartPort struct{ u *uartx.UART }

func (p uartPort) Read(b []byte) (int, error) {
	return p.u.RecvSomeContext(context.Background(), b)
}
func (p uartPort) Write(b []byte) (int, error) { return p.u.Write(b) }

// triggerWatchdogReset arms a near-immediate watchdog timeout and spins,
// the standard tinygo way to force a clean CPU reset with no direct
// "reset now" register exposed by machine.
func triggerWatchdogReset() {
	machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 1})
	machine.Watchdog.Start()
	for {
	}
}

func main() {
	time.Sleep(2 * time.Second)
	println("[firmware] boot")

	cfg, err := bootconfig.Load(embeddedBoardConfig)
	if err != nil {
		println("[firmware] bootconfig load failed, using defaults:", err.Error())
		cfg = bootconfig.Defaults
	}

	eepromCSPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	ctrlCSPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	eepromCSPin.High()
	ctrlCSPin.High()

	machine.SPI0.Configure(machine.SPIConfig{Frequency: 4_000_000, Mode: 0})

	console := uartx.UART0
	if err := console.Configure(uartx.UARTConfig{BaudRate: cfg.BaudRate, TX: consoleTX, RX: consoleRX}); err != nil {
		println("[firmware] console configure failed:", err.Error())
	}
	port := uartPort{u: console}

	b := bus.NewBus(16)
	halLog := b.NewConnection("hal")
	bootconfig.Publish(b.NewConnection("boot"), cfg)

	dev := hal.New(
		hal.NewEEPROMChannel(machine.SPI0, eepromCSPin),
		hal.NewControllerChannel(machine.SPI0, ctrlCSPin),
		halLog,
	)

	st := sysstate.New()
	logger := eventlog.New(dev, st, b, eventlog.MonotonicTicker())

	println("[firmware] restoring persisted configuration")
	if err := persistence.BootRestore(dev, st, nil); err != nil {
		println("[firmware] boot restore failed:", err.Error())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go logger.Run(ctx)
	go portmon.New(dev, st, logger, b, port).Run(ctx)

	// The I²C slave byte-level ISR is a board-support concern outside this
	// firmware core (see DESIGN.md); the dispatcher's code table is fully
	// wired to the command handlers, but it has no packets to dispatch
	// until a Transport implementation feeds its reassembler.
	table := i2cproto.BuildTable(dev, st, logger)
	reasm := i2cproto.NewReassembler(table)
	go i2cproto.NewDispatcher(table, reasm, nil).Run(ctx)

	env := &cli.Env{
		Dev:    dev,
		State:  st,
		Logger: logger,
		Out:    port,
		Reset:  triggerWatchdogReset,
	}
	tree := cli.BuildTree(env)
	if !tree.ValidateTree() {
		panic("switchcore: command tree failed validation")
	}

	task := &cli.Task{Env: env, Tree: tree, St: st, Logger: logger, In: port, Out: port}
	task.Run(ctx)
}

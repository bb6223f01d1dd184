//go:build !rp2040 && !rp2350

// Command hostsim runs the switch core against the in-memory EEPROM/
// controller simulators, for development and CI without hardware —
// mirroring cmd/boardtest's role of a host-reachable smoke harness for a
// board that would otherwise only run under tinygo.
//
// By default the CLI console is attached to stdin/stdout. Pass
// -port=/dev/ttyUSB0 to attach it to a real serial line instead (e.g. a
// USB-TTL adapter looped back to a terminal emulator), using go.bug.st/serial
// the same way the corpus's NMEA/MCU clients open a host serial port.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.bug.st/serial"

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

func main() {
	portName := flag.String("port", "", "serial device for the CLI console (default: stdin/stdout)")
	configPath := flag.String("config", "", "path to a boot-config JSON file (default: built-in defaults)")
	flag.Parse()

	cfg := bootconfig.Defaults
	if *configPath != "" {
		raw, err := os.ReadFile(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "hostsim: config read failed:", err)
			os.Exit(1)
		}
		if cfg, err = bootconfig.Load(raw); err != nil {
			fmt.Fprintln(os.Stderr, "hostsim: config parse failed:", err)
			os.Exit(1)
		}
	}

	console, closeConsole, err := openConsole(*portName, int(cfg.BaudRate))
	if err != nil {
		fmt.Fprintln(os.Stderr, "hostsim: console open failed:", err)
		os.Exit(1)
	}
	defer closeConsole()

	b := bus.NewBus(16)
	halLog := b.NewConnection("hal")
	bootconfig.Publish(b.NewConnection("boot"), cfg)
	dev := hal.New(hal.NewSimEEPROM(), hal.NewSimController(), halLog)

	st := sysstate.New()
	logger := eventlog.New(dev, st, b, eventlog.MonotonicTicker())

	fmt.Fprintln(os.Stdout, "[hostsim] restoring persisted configuration")
	if err := persistence.BootRestore(dev, st, nil); err != nil {
		fmt.Fprintln(os.Stderr, "[hostsim] boot restore failed:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go logger.Run(ctx)
	go portmon.New(dev, st, logger, b, console).Run(ctx)

	table := i2cproto.BuildTable(dev, st, logger)
	reasm := i2cproto.NewReassembler(table)
	go i2cproto.NewDispatcher(table, reasm, nil).Run(ctx)

	env := &cli.Env{Dev: dev, State: st, Logger: logger, Out: console, Reset: func() { os.Exit(0) }}
	tree := cli.BuildTree(env)
	if !tree.ValidateTree() {
		panic("switchcore: command tree failed validation")
	}

	task := &cli.Task{Env: env, Tree: tree, St: st, Logger: logger, In: console, Out: console}
	task.Run(ctx)
}

// consolePort bundles the read/write halves the CLI task and port monitor
// both need into the single io.ReadWriter each expects.
type consolePort struct {
	io.Reader
	io.Writer
}

func openConsole(portName string, baud int) (consolePort, func(), error) {
	if portName == "" {
		return consolePort{Reader: os.Stdin, Writer: os.Stdout}, func() {}, nil
	}
	p, err := serial.Open(portName, &serial.Mode{BaudRate: baud})
	if err != nil {
		return consolePort{}, nil, err
	}
	return consolePort{Reader: p, Writer: p}, func() { p.Close() }, nil
}

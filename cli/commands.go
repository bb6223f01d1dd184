package cli

import (
	"fmt"
	"io"

	"switchcore/eventlog"
	"switchcore/hal"
	"switchcore/handlers"
	"switchcore/persistence"
	"switchcore/portmap"
	"switchcore/sysstate"
	"switchcore/users"
)

// Env bundles every collaborator command construction closes over: the
// device the handlers drive, the process-wide state, the event logger,
// and the writer/key-source pair interactive menu commands use.
type Env struct {
	Dev    *hal.Device
	State  *sysstate.State
	Logger *eventlog.Logger
	Out    io.Writer
	Keys   <-chan byte
	Reset  func()

	resetArmed bool
}

func term(text, help string, perm users.Role, h handlers.Handler) Node {
	return Node{Text: text, Help: help, IsTerminal: true, RequiredPermission: perm, Handler: h}
}

// termParam is a terminal node whose handler receives one user-supplied
// numeric token of the given byte width.
func termParam(text, help string, width int, perm users.Role, h handlers.Handler) Node {
	n := term(text, help, perm, h)
	n.ParamsRequired = 1
	n.UserProvidesParams = true
	n.ParamWidth = width
	return n
}

func setBitNode(text, help string, dev *hal.Device, base hal.PortOffset, offset uint8, bit uint, perm users.Role) Node {
	return term(text, help, perm, func(params []byte) bool {
		return handlers.SetBit(dev, base, offset, bit)
	})
}

func clearBitNode(text, help string, dev *hal.Device, base hal.PortOffset, offset uint8, bit uint, perm users.Role) Node {
	return term(text, help, perm, func(params []byte) bool {
		return handlers.ClearBit(dev, base, offset, bit)
	})
}

// enableDisableMenu builds a two-entry enable/disable submenu that
// sets/clears bit at base+offset, mirroring Enable_Disable_Options.
// invert swaps which action sets vs. clears, mirroring
// INV_Enable_Disable_Options (used where the register's sense is
// "1 == disabled").
func (b *treeBuilder) enableDisableMenu(dev *hal.Device, base hal.PortOffset, offset uint8, bit uint, invert bool, perm users.Role) int {
	setEntry := setBitNode("enable", "enable this option", dev, base, offset, bit, perm)
	clearEntry := clearBitNode("disable", "disable this option", dev, base, offset, bit, perm)
	if invert {
		setEntry, clearEntry = clearBitNode("enable", "enable this option", dev, base, offset, bit, perm),
			setBitNode("disable", "disable this option", dev, base, offset, bit, perm)
	}
	return b.addMenu("enable-disable", setEntry, clearEntry)
}

type treeBuilder struct {
	tree *Tree
}

func (b *treeBuilder) addMenu(name string, entries ...Node) int {
	idx := b.tree.AddMenu(name)
	b.tree.Menus[idx].Entries = entries
	return idx
}

// BuildTree constructs the full command DAG against env's device and
// state, with six top-level entries (admin, port, controller, system,
// config, logout).
func BuildTree(env *Env) *Tree {
	b := &treeBuilder{tree: &Tree{}}
	dev := env.Dev

	ledMenu := b.addMenu("led-mode",
		clearBitNode("mode-0", "set port LEDs to use mode 0", dev, 0, hal.GlobalControl9, 1, users.ModifySystem),
		setBitNode("mode-1", "set port LEDs to use mode 1", dev, 0, hal.GlobalControl9, 1, users.ModifySystem),
	)
	rapidAgingMenu := b.enableDisableMenu(dev, 0, hal.GlobalControl0, 0, false, users.ModifySystem)
	largePacketsMenu := b.enableDisableMenu(dev, 0, hal.GlobalControl1, 6, false, users.ModifySystem)
	powerSavingMenu := b.enableDisableMenu(dev, 0, hal.GlobalControl9, 3, true, users.ModifySystem)

	readRegMenu := b.addMenu("controller-read-reg",
		termParam("<register-addr [0x00-0xFF]>", "read a setting from a controller register", 1, users.ReadOnly, func(params []byte) bool {
			return handlers.ReadControllerRegister(env.Out, dev, params[0])
		}),
	)
	writeRegDataMenu := b.addMenu("controller-write-reg-data",
		termParam("<data [0x00-0xFF]>", "the byte to write", 1, users.ModifySystem, func(params []byte) bool {
			return handlers.WriteControllerRegister(dev, params[0], params[1])
		}),
	)
	writeRegMenu := b.addMenu("controller-write-reg",
		Node{
			Text: "<register-addr [0x00-0xFF]>", Help: "write to a controller register",
			ParamsRequired: 1, UserProvidesParams: true, ParamWidth: 1,
			ChildMenu: writeRegDataMenu,
		},
	)

	controllerMenu := b.addMenu("controller",
		Node{Text: "read-reg", Help: "read a setting from a register on the switch controller", ChildMenu: readRegMenu, RequiredPermission: users.ReadOnly},
		Node{Text: "write-reg", Help: "write to a register on the switch controller", ChildMenu: writeRegMenu, RequiredPermission: users.ModifySystem},
	)

	eepromReadMenu := b.addMenu("eeprom-read-reg",
		termParam("<addr [0x0000-0xFFFF]>", "read a byte from the EEPROM", 2, users.ReadOnly, func(params []byte) bool {
			addr := uint32(params[0])<<8 | uint32(params[1])
			return handlers.ReadEEPROMRegister(env.Out, dev, addr)
		}),
	)
	eepromWriteDataMenu := b.addMenu("eeprom-write-reg-data",
		termParam("<data [0x00-0xFF]>", "the byte to write", 1, users.ModifySystem, func(params []byte) bool {
			addr := uint32(params[0])<<8 | uint32(params[1])
			return handlers.WriteEEPROMRegister(dev, addr, params[2])
		}),
	)
	eepromWriteMenu := b.addMenu("eeprom-write-reg",
		Node{Text: "<addr [0x0000-0xFFFF]>", Help: "write to a byte on the EEPROM", ParamsRequired: 1, UserProvidesParams: true, ParamWidth: 2, ChildMenu: eepromWriteDataMenu},
	)
	eepromMenu := b.addMenu("eeprom",
		Node{Text: "read-reg", Help: "read a register from the EEPROM", ChildMenu: eepromReadMenu, RequiredPermission: users.ReadOnly},
		Node{Text: "write-reg", Help: "write to a register on the EEPROM", ChildMenu: eepromWriteMenu, RequiredPermission: users.ModifySystem},
		term("reinitialize", "reset the EEPROM to factory settings [RESTART REQUIRED]", users.ModifySystem, func(params []byte) bool {
			return handlers.ReinitializeEEPROM(dev)
		}),
	)

	i2cCommandMenu := b.addMenu("i2c-send-command",
		termParam("<i2c-command [0x00-0xFF]>", "command to issue over the loopback interface", 1, users.ModifySystem, func(params []byte) bool {
			return handlers.I2CSendLoopback(params[0], params[1:])
		}),
	)
	i2cMenu := b.addMenu("i2c",
		Node{Text: "send-command", Help: "send an I2C command over loopback", ChildMenu: i2cCommandMenu, RequiredPermission: users.ModifySystem},
	)

	showMenu := b.addMenu("show",
		term("vlan-table", "shows the current VLAN table", users.ReadOnly, func(params []byte) bool {
			return handlers.ShowVLANTable(env.Out, dev, func() bool { return true })
		}),
		term("static-mac-table", "shows the static MAC table", users.ReadOnly, func(params []byte) bool {
			return handlers.ShowStaticMACTable(env.Out, dev)
		}),
		term("dyn-mac-table", "shows the dynamic MAC table", users.ReadOnly, func(params []byte) bool {
			return handlers.ShowDynamicMACTable(env.Out, dev)
		}),
	)

	systemMenu := b.addMenu("system",
		Node{Text: "eeprom", Help: "change settings for the EEPROM", ChildMenu: eepromMenu, RequiredPermission: users.ModifySystem},
		Node{Text: "i2c", Help: "control other layers with I2C", ChildMenu: i2cMenu, RequiredPermission: users.ModifySystem},
		term("status", "show global system information", users.ReadOnly, func(params []byte) bool {
			return handlers.ShowGlobalStatus(env.Out, dev)
		}),
		Node{Text: "rapid-link-aging", Help: "enable/disable fast device aging after link change", ChildMenu: rapidAgingMenu, RequiredPermission: users.ModifySystem},
		Node{Text: "large-packets", Help: "allow 2KB packets", ChildMenu: largePacketsMenu, RequiredPermission: users.ModifySystem},
		Node{Text: "power-saving", Help: "enable/disable power saving on all PHYs", ChildMenu: powerSavingMenu, RequiredPermission: users.ModifySystem},
		Node{Text: "led-mode", Help: "set LED mode 0 or mode 1", ChildMenu: ledMenu, RequiredPermission: users.ModifySystem},
		Node{Text: "show", Help: "access VLAN and MAC tables", ChildMenu: showMenu, RequiredPermission: users.ReadOnly},
		term("reset", "performs a soft reset of the system", users.ModifySystem, func(params []byte) bool {
			done := handlers.ResetConfirm(env.Out, env.resetArmed, func() {
				if env.Reset != nil {
					env.Reset()
				}
			})
			env.resetArmed = !done
			return done
		}),
	)

	configMenu := b.addMenu("config",
		term("save", "move the current configuration to the EEPROM", users.ModifyPorts, func(params []byte) bool {
			handlers.ApplyPendingUserActions(env.State.Users())
			return persistence.SaveConfig(dev, env.State, env.Logger, handlers.NewProgress(env.Out, "Save")) == nil
		}),
		term("delete", "remove the current configuration from the EEPROM", users.ModifySystem, func(params []byte) bool {
			env.State.SetSystemFlags(env.State.SystemFlags() &^ (sysstate.FlagConfigSaved | sysstate.FlagVLANSaved | sysstate.FlagUsersSaved))
			return dev.SingleWrite(persistence.SystemFlagsAddr, uint8(env.State.SystemFlags())) == nil
		}),
	)

	portCommandsMenu := b.buildPortCommands(env)
	adminMenu := b.buildAdminCommands(env)

	rootIdx := b.addMenu("root",
		Node{Text: "admin", Help: "commands for changing the settings of the switch layer", ChildMenu: adminMenu, RequiredPermission: users.ReadOnly},
		Node{Text: "port", Help: "modify a port on the switch board", ChildMenu: portCommandsMenu, RequiredPermission: users.ReadOnly},
		Node{Text: "controller", Help: "modify a setting on the ethernet controller", ChildMenu: controllerMenu, RequiredPermission: users.ReadOnly},
		Node{Text: "system", Help: "advanced settings for changing the operation of this device", ChildMenu: systemMenu, RequiredPermission: users.ReadOnly},
		Node{Text: "config", Help: "save or delete this switch's running configuration", ChildMenu: configMenu, RequiredPermission: users.ModifyPorts},
		term("logout", "exit this session. Does not automatically save configuration.", users.ReadOnly, func(params []byte) bool {
			env.State.SetAuthenticated(false)
			if env.Logger != nil {
				env.Logger.Submit(eventlog.CodeUserLoggedOut)
			}
			return true
		}),
	)
	b.tree.RootMenu = rootIdx
	return b.tree
}

// buildPortCommands constructs port f0..f3, each with its own Port_Options
// instance bound to that port's PortOffset, matching Port_Commands.
func (b *treeBuilder) buildPortCommands(env *Env) int {
	names := []struct {
		text  string
		base  hal.PortOffset
		label string
	}{
		{"f0", hal.PortOffset(portmap.F0), "Fast Ethernet 0"},
		{"f1", hal.PortOffset(portmap.F1), "Fast Ethernet 1"},
		{"f2", hal.PortOffset(portmap.F2), "Fast Ethernet 2"},
		{"f3", hal.PortOffset(portmap.F3), "Fast Ethernet 3"},
	}
	entries := make([]Node, 0, 4)
	for _, n := range names {
		child := b.buildPortOptions(env, n.base, n.label)
		entries = append(entries, Node{Text: n.text, Help: "settings for " + n.label, ChildMenu: child, RequiredPermission: users.ReadOnly})
	}
	return b.addMenu("port-commands", entries...)
}

func (b *treeBuilder) buildPortOptions(env *Env, base hal.PortOffset, label string) int {
	dev := env.Dev

	vlanTableSettings := b.addMenu(label+"-vlan-table",
		termParam("<vlan-id [1-4095]>", "add an entry to the VLAN table", 2, users.ModifyPorts, func(params []byte) bool {
			vlanID := int(params[0])<<8 | int(params[1])
			return handlers.SetVLANEntry(dev, base, vlanID)
		}),
	)
	vlanSettings := b.addMenu(label+"-vlan",
		term("enable", "globally enables the use of VLAN filtering", users.ModifyPorts, func(params []byte) bool {
			return handlers.SetBit(dev, 0, hal.GlobalControl3, 7)
		}),
		term("disable", "globally disables the use of VLAN filtering", users.ModifyPorts, func(params []byte) bool {
			return handlers.ClearBit(dev, 0, hal.GlobalControl3, 7)
		}),
		Node{Text: "add", Help: "add an entry to the VLAN table", ChildMenu: vlanTableSettings, RequiredPermission: users.ModifyPorts},
		termParam("<vlan-id [1-4095]>", "set the VLAN for this port", 2, users.ModifyPorts, func(params []byte) bool {
			vlanID := uint16(params[0])<<8 | uint16(params[1])
			return handlers.SetPortVLAN(dev, base, vlanID)
		}),
	)

	duplexSettings := b.addMenu(label+"-duplex",
		clearBitNode("half-duplex", "set this port to use flow control", dev, base, hal.PortControl5Offset, 5, users.ModifyPorts),
		setBitNode("full-duplex", "set this port to operate bi-directionally", dev, base, hal.PortControl5Offset, 5, users.ModifyPorts),
		setBitNode("100BT", "set this port to operate at 100BaseT", dev, base, hal.PortControl5Offset, 6, users.ModifyPorts),
		clearBitNode("10BT", "set this port to operate at 10BaseT", dev, base, hal.PortControl5Offset, 6, users.ModifyPorts),
	)

	sniffSettings := b.addMenu(label+"-sniff",
		clearBitNode("disable", "return this port to normal operation", dev, base, hal.PortControl1Offset, 7, users.ModifyPorts),
		setBitNode("designate", "sets this port as the sniffer port", dev, base, hal.PortControl1Offset, 7, users.ModifyPorts),
		Node{Text: "sniff-tx", Help: "copy all TX packets to sniffer port", ChildMenu: b.enableDisableMenu(dev, base, hal.PortControl1Offset, 5, false, users.ModifyPorts), RequiredPermission: users.ModifyPorts},
		Node{Text: "sniff-rx", Help: "copy all RX packets to sniffer port", ChildMenu: b.enableDisableMenu(dev, base, hal.PortControl1Offset, 6, false, users.ModifyPorts), RequiredPermission: users.ModifyPorts},
	)

	entries := []Node{
		clearBitNode("enable", "turn this port on", dev, base, hal.PortControl6Offset, 3, users.ModifyPorts),
		setBitNode("disable", "turn this port off", dev, base, hal.PortControl6Offset, 3, users.ModifyPorts),
		{Text: "vlan", Help: "assign a vlan to this port", ChildMenu: vlanSettings, RequiredPermission: users.ModifyPorts},
		{Text: "speed", Help: "modify the rate at which this port operates", ChildMenu: duplexSettings, RequiredPermission: users.ModifyPorts},
		term("status", "information regarding the current state of this port", users.ReadOnly, func(params []byte) bool {
			return handlers.ShowPortStatus(env.Out, dev, base, label)
		}),
		{Text: "broadcast-storm", Help: "enable/disable broadcast storm protection", ChildMenu: b.enableDisableMenu(dev, base, hal.PortControl0Offset, 7, false, users.ModifyPorts), RequiredPermission: users.ModifyPorts},
		{Text: "sniff-state", Help: "sniffing settings for this port", ChildMenu: sniffSettings, RequiredPermission: users.ModifyPorts},
		{Text: "toggle-tx", Help: "enable/disable packet transmission", ChildMenu: b.enableDisableMenu(dev, base, hal.PortControl2Offset, 2, false, users.ModifyPorts), RequiredPermission: users.ModifyPorts},
		{Text: "toggle-rx", Help: "enable/disable packet reception", ChildMenu: b.enableDisableMenu(dev, base, hal.PortControl2Offset, 1, false, users.ModifyPorts), RequiredPermission: users.ModifyPorts},
		term("run-diag", "run cable diagnostics", users.ReadOnly, func(params []byte) bool {
			res, ok := handlers.RunLinkMD(dev, base)
			if !ok {
				return false
			}
			fmt.Fprintf(env.Out, "Cable state: %s, distance: %dm\n", res.State, res.Distance)
			return true
		}),
		{Text: "auto-neg", Help: "enable/disable auto-negotiation", ChildMenu: b.enableDisableMenu(dev, base, hal.PortControl5Offset, 7, true, users.ModifyPorts), RequiredPermission: users.ModifyPorts},
		term("restart-auto-neg", "restart auto-negotiation", users.ModifyPorts, func(params []byte) bool {
			return handlers.SelfClearingBit(dev, hal.Reg(base, hal.PortControl6Offset), 5)
		}),
		{Text: "auto-mdix", Help: "enable/disable auto MDI/MDI-X", ChildMenu: b.enableDisableMenu(dev, base, hal.PortControl6Offset, 2, true, users.ModifyPorts), RequiredPermission: users.ModifyPorts},
		{Text: "force-mdi", Help: "manually enable/disable MDI mode", ChildMenu: b.enableDisableMenu(dev, base, hal.PortControl6Offset, 1, false, users.ModifyPorts), RequiredPermission: users.ModifyPorts},
	}
	return b.addMenu(label+"-options", entries...)
}

// buildAdminCommands constructs admin {users|events}.
func (b *treeBuilder) buildAdminCommands(env *Env) int {
	st := env.State

	userOptions := b.addMenu("admin-users",
		term("list", "list all users allowed to access this switch", users.ReadOnly, func(params []byte) bool {
			return handlers.ListUsers(env.Out, st.Users())
		}),
		term("add", "add a user", users.Administrator, func(params []byte) bool {
			return false // no add-user prompt exists; this entry always reports failure
		}),
		term("delete", "delete a user", users.Administrator, func(params []byte) bool {
			return handlers.RunDeleteUsersMenu(env.Out, env.Keys, st.Users())
		}),
	)

	eventOptions := b.addMenu("admin-events",
		term("status", "list currently enabled/disabled events", users.ReadOnly, func(params []byte) bool {
			return handlers.EventStatus(env.Out, st)
		}),
		term("manage", "add an event to log", users.Administrator, func(params []byte) bool {
			flags, ok := handlers.RunEventMenu(env.Out, env.Keys, handlers.EventNames, st.LogStatusFlags())
			if ok {
				st.SetLogStatusFlags(flags)
			}
			return ok
		}),
		term("list", "show all logged events", users.Administrator, func(params []byte) bool {
			return handlers.ListEvents(env.Out, env.Dev)
		}),
		term("clear", "clear all logged events", users.Administrator, func(params []byte) bool {
			return handlers.DeleteEvents(env.Dev, st)
		}),
	)

	return b.addMenu("admin",
		Node{Text: "users", Help: "manage the users allowed to administrate this switch", ChildMenu: userOptions, RequiredPermission: users.ReadOnly},
		Node{Text: "events", Help: "manage the events logged to EEPROM", ChildMenu: eventOptions, RequiredPermission: users.ReadOnly},
	)
}

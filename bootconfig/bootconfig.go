// Package bootconfig decodes the firmware's boot-time defaults (console
// baud rate, I²C slave address, hostname) from an embedded JSON blob,
// adapted from the teacher's services/config.ConfigService.publishConfig:
// tinyjson.Raw→Value() rather than encoding/json's reflection-heavy
// decoder, since this runs on a memory-constrained MCU.
package bootconfig

import (
	"errors"

	"github.com/andreyvit/tinyjson"

	"switchcore/bus"
)

// BoardConfig holds the handful of values a board variant might override.
type BoardConfig struct {
	Hostname   string
	I2CAddress uint8
	BaudRate   uint32
}

// Defaults match interpreter_task.h's compiled-in constants: no JSON blob
// means "use these".
var Defaults = BoardConfig{
	Hostname:   "switchcore",
	I2CAddress: 0x20,
	BaudRate:   115200,
}

// Load decodes raw as a flat JSON object, overriding Defaults field by
// field. An empty blob is not an error: it simply means "use Defaults",
// matching a board with no config partition programmed yet.
func Load(raw []byte) (BoardConfig, error) {
	cfg := Defaults
	if len(raw) == 0 {
		return cfg, nil
	}

	r := tinyjson.Raw(raw)
	val := r.Value()
	r.EnsureEOF()

	m, ok := val.(map[string]any)
	if !ok {
		return cfg, errors.New("bootconfig: root is not a JSON object")
	}
	if v, ok := m["hostname"].(string); ok {
		cfg.Hostname = v
	}
	if v, ok := m["i2c_address"].(float64); ok {
		cfg.I2CAddress = uint8(v)
	}
	if v, ok := m["baud_rate"].(float64); ok {
		cfg.BaudRate = uint32(v)
	}
	return cfg, nil
}

// systemConfigTopic names one config/system/<key> retained topic.
func systemConfigTopic(key string) bus.Topic { return bus.T("config", "system", key) }

// Publish retains the resolved config on the bus, the same retained-message
// fan-out config.ConfigService.publishConfig uses, so any task started
// after boot still observes it via Connection.Subscribe.
func Publish(conn *bus.Connection, cfg BoardConfig) {
	conn.Publish(conn.NewMessage(systemConfigTopic("hostname"), cfg.Hostname, true))
	conn.Publish(conn.NewMessage(systemConfigTopic("i2c_address"), cfg.I2CAddress, true))
	conn.Publish(conn.NewMessage(systemConfigTopic("baud_rate"), cfg.BaudRate, true))
}

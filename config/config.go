// Package config describes which HAT devices sit at which addresses on
// which bus. hatctl loads it from JSON with --config.
package config

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"hatdevices-go/drivers/eeprom24cw"
	"hatdevices-go/drivers/tps2h"
	"hatdevices-go/errcode"
	"hatdevices-go/x/conv"
	"hatdevices-go/x/mathx"
)

// Addr is a 7-bit bus address. In JSON it is either a number or a hex
// string such as "0x48".
type Addr uint16

func (a *Addr) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := conv.ParseHexByte(s)
		if err != nil {
			return err
		}
		*a = Addr(v)
		return nil
	}
	var n uint16
	if err := json.Unmarshal(b, &n); err != nil {
		return errcode.Invalid("config.addr", "address must be a number or hex string")
	}
	*a = Addr(n)
	return nil
}

func (a Addr) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(conv.Hex(uint8(a)))), nil
}

type Board struct {
	Bus    string    `json:"bus"`              // periph bus name, e.g. "1"
	ADC    ADCCfg    `json:"adc"`              // ADS1119
	IO     DevCfg    `json:"io"`               // MCP23017
	RTC    DevCfg    `json:"rtc"`              // MAX31343
	EEPROM DevCfg    `json:"eeprom"`           // 24CW
	Switch SwitchCfg `json:"switch,omitempty"` // TPS2H on the expander
}

type DevCfg struct {
	Address Addr `json:"address"`
}

type ADCCfg struct {
	Address  Addr    `json:"address"`
	RefVolts float64 `json:"ref_volts,omitempty"` // external reference only
}

type SwitchCfg struct {
	Variant string `json:"variant"` // "tps2hb16" | "tps2hb32"
}

// Default is the board as fitted.
func Default() Board {
	return Board{
		Bus:    "1",
		ADC:    ADCCfg{Address: 0x48, RefVolts: 2.048},
		IO:     DevCfg{Address: 0x22},
		RTC:    DevCfg{Address: 0x68},
		EEPROM: DevCfg{Address: eeprom24cw.AddressDefault},
		Switch: SwitchCfg{Variant: "tps2hb16"},
	}
}

// Variant maps the switch variant name onto the converter variant.
func (b Board) Variant() (tps2h.Variant, error) {
	switch b.Switch.Variant {
	case "", "tps2hb16":
		return tps2h.VariantHB16, nil
	case "tps2hb32":
		return tps2h.VariantHB32, nil
	}
	return 0, errcode.Invalid("config.variant", "unknown switch variant "+strconv.Quote(b.Switch.Variant))
}

// Validate checks the bus name, every address window and the switch variant.
func (b Board) Validate() error {
	if b.Bus == "" {
		return errcode.Invalid("config.validate", "bus must be set")
	}
	for _, d := range []struct {
		name string
		a    Addr
	}{{"adc", b.ADC.Address}, {"io", b.IO.Address}, {"rtc", b.RTC.Address}} {
		if !mathx.Between(uint16(d.a), 0x08, 0x77) {
			return &errcode.E{C: errcode.OutOfRange, Op: "config.validate", Msg: d.name + " address " + conv.Hex(uint8(d.a))}
		}
	}
	if !mathx.Between(uint16(b.EEPROM.Address), eeprom24cw.AddressMin, eeprom24cw.AddressMax) {
		return &errcode.E{C: errcode.OutOfRange, Op: "config.validate", Msg: "eeprom address " + conv.Hex(uint8(b.EEPROM.Address))}
	}
	if b.ADC.RefVolts < 0 {
		return errcode.Invalid("config.validate", "adc ref_volts must not be negative")
	}
	_, err := b.Variant()
	return err
}

// Parse decodes raw over the defaults, so a file only names what differs.
func Parse(raw []byte) (Board, error) {
	b := Default()
	if err := json.Unmarshal(raw, &b); err != nil {
		return Board{}, errors.Wrap(err, "decode board config")
	}
	if err := b.Validate(); err != nil {
		return Board{}, err
	}
	return b, nil
}

// Load reads a board file. An empty path yields the defaults.
func Load(path string) (Board, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Board{}, errors.Wrap(err, "read board config")
	}
	return Parse(raw)
}

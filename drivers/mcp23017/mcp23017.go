package mcp23017

import (
	"go.uber.org/zap"
	"tinygo.org/x/drivers"

	"hatdevices-go/errcode"
	"hatdevices-go/x/mathx"
)

// Config for the expander. Zero fields take defaults.
type Config struct {
	Address uint16
	Logger  *zap.Logger // register traffic at Debug; nil disables
}

// DefaultConfig addresses the expander with A2..A0 tied low.
func DefaultConfig() Config {
	return Config{Address: AddressDefault}
}

// Device is one MCP23017 on a bus.
type Device struct {
	i2c  drivers.I2C
	addr uint16
	log  *zap.Logger

	w [2]byte
	r [1]byte
}

// New binds a Device to the bus. It does not touch the hardware.
func New(i2c drivers.I2C, cfg Config) (*Device, error) {
	addr := cfg.Address
	if addr == 0 {
		addr = AddressDefault
	}
	if !mathx.Between(addr, 0x08, 0x77) {
		return nil, errcode.Invalid("mcp23017.new", "address must be 0x08..0x77")
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Device{i2c: i2c, addr: addr, log: log.Named("mcp23017")}, nil
}

// Address returns the bus address the Device talks to.
func (d *Device) Address() uint16 { return d.addr }

func checkPort(op string, p Port) error {
	if p != PortA && p != PortB {
		return errcode.Invalid(op, "port needs to be PortA or PortB")
	}
	return nil
}

func (d *Device) writeReg(reg, v byte) error {
	d.w[0], d.w[1] = reg, v
	d.log.Debug("write", zap.Uint8("reg", reg), zap.Uint8("val", v))
	return d.i2c.Tx(d.addr, d.w[:2], nil)
}

func (d *Device) readReg(reg byte) (byte, error) {
	d.w[0] = reg
	if err := d.i2c.Tx(d.addr, d.w[:1], d.r[:1]); err != nil {
		return 0, err
	}
	d.log.Debug("read", zap.Uint8("reg", reg), zap.Uint8("val", d.r[0]))
	return d.r[0], nil
}

// SetIODirection writes the direction mask for a port. A 0 bit is an output.
func (d *Device) SetIODirection(p Port, mask byte) error {
	if err := checkPort("mcp23017.iodir", p); err != nil {
		return err
	}
	return d.writeReg(regIODIRA+byte(p), mask)
}

// IODirection reads the direction mask for a port.
func (d *Device) IODirection(p Port) (byte, error) {
	if err := checkPort("mcp23017.iodir", p); err != nil {
		return 0, err
	}
	return d.readReg(regIODIRA + byte(p))
}

// SetOutput drives the port latch; 1 is high.
func (d *Device) SetOutput(p Port, pattern byte) error {
	if err := checkPort("mcp23017.gpio", p); err != nil {
		return err
	}
	return d.writeReg(regGPIOA+byte(p), pattern)
}

// Pins reads the current level of every pin on the port.
func (d *Device) Pins(p Port) (byte, error) {
	if err := checkPort("mcp23017.gpio", p); err != nil {
		return 0, err
	}
	return d.readReg(regGPIOA + byte(p))
}

// SetPullUp enables the weak pull-ups; only effective on inputs.
func (d *Device) SetPullUp(p Port, mask byte) error {
	if err := checkPort("mcp23017.gppu", p); err != nil {
		return err
	}
	return d.writeReg(regGPPUA+byte(p), mask)
}

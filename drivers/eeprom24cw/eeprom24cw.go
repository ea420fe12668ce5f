package eeprom24cw

import (
	"tinygo.org/x/drivers"

	"hatdevices-go/errcode"
	"hatdevices-go/x/mathx"
)

// Device is the configuration interface of one EEPROM.
type Device struct {
	i2c  drivers.I2C
	addr uint16

	w [4]byte
	r [2]byte
}

// New binds a Device at addr (0x50..0x57).
func New(i2c drivers.I2C, addr uint16) (*Device, error) {
	if addr == 0 {
		addr = AddressDefault
	}
	if !mathx.Between(addr, AddressMin, AddressMax) {
		return nil, &errcode.E{C: errcode.OutOfRange, Op: "eeprom24cw.new", Msg: "address must be 0x50..0x57"}
	}
	return &Device{i2c: i2c, addr: addr}, nil
}

// Address returns the bus address the Device talks to.
func (d *Device) Address() uint16 { return d.addr }

// ReadConfig reads both configuration registers in one transaction.
func (d *Device) ReadConfig() (Registers, error) {
	d.w[0], d.w[1] = pointerHi, pointerLo
	if err := d.i2c.Tx(d.addr, d.w[:2], d.r[:2]); err != nil {
		return Registers{}, err
	}
	return Registers{WriteProtect: d.r[0], Address: d.r[1]}, nil
}

// WriteConfig writes both configuration registers in one transaction.
func (d *Device) WriteConfig(r Registers) error {
	d.w[0], d.w[1], d.w[2], d.w[3] = pointerHi, pointerLo, r.WriteProtect, r.Address
	return d.i2c.Tx(d.addr, d.w[:4], nil)
}

// Apply reads the current configuration, plans req and writes the result
// when the plan asks for it.
func (d *Device) Apply(req Request) (Plan, error) {
	cur, err := d.ReadConfig()
	if err != nil {
		return Plan{}, err
	}
	p, err := PlanChange(cur, req)
	if err != nil || p.Action != ActionWrite {
		return p, err
	}
	return p, d.WriteConfig(p.Next)
}

package max31343

import (
	"time"

	"go.uber.org/zap"
	"tinygo.org/x/drivers"

	"hatdevices-go/errcode"
	"hatdevices-go/x/mathx"
)

// Config for the clock. Zero fields take defaults.
type Config struct {
	Address uint16
	// AlarmSettle is the pause between writing alarm 2 and re-enabling its
	// interrupt. Default 50 ms.
	AlarmSettle time.Duration
	Logger      *zap.Logger
}

// DefaultConfig is the fixed MAX31343 address with a 50 ms alarm settle.
func DefaultConfig() Config {
	return Config{Address: AddressDefault, AlarmSettle: 50 * time.Millisecond}
}

// Device is one MAX31343 on a bus.
type Device struct {
	i2c    drivers.I2C
	addr   uint16
	settle time.Duration
	log    *zap.Logger

	w [8]byte
	r [7]byte
}

// New binds a Device to the bus. It does not touch the hardware.
func New(i2c drivers.I2C, cfg Config) (*Device, error) {
	def := DefaultConfig()
	if cfg.Address == 0 {
		cfg.Address = def.Address
	}
	if cfg.AlarmSettle <= 0 {
		cfg.AlarmSettle = def.AlarmSettle
	}
	if !mathx.Between(cfg.Address, 0x08, 0x77) {
		return nil, errcode.Invalid("max31343.new", "address must be 0x08..0x77")
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Device{i2c: i2c, addr: cfg.Address, settle: cfg.AlarmSettle, log: log.Named("max31343")}, nil
}

func (d *Device) write(reg byte, data ...byte) error {
	d.w[0] = reg
	n := copy(d.w[1:], data)
	d.log.Debug("write", zap.Uint8("reg", reg), zap.Binary("data", d.w[1:1+n]))
	return d.i2c.Tx(d.addr, d.w[:1+n], nil)
}

func (d *Device) read(reg byte, n int) ([]byte, error) {
	d.w[0] = reg
	if err := d.i2c.Tx(d.addr, d.w[:1], d.r[:n]); err != nil {
		return nil, err
	}
	d.log.Debug("read", zap.Uint8("reg", reg), zap.Binary("data", d.r[:n]))
	return d.r[:n], nil
}

// Reset issues a software reset.
func (d *Device) Reset() error { return d.write(regReset, resetBit) }

// Status reads the status register. Interrupt flags clear on read.
func (d *Device) Status() (byte, error) {
	b, err := d.read(regStatus, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// SetTime writes t (to the second) into the time registers.
func (d *Device) SetTime(t time.Time) error {
	blk, err := FieldsFromTime(t).Encode()
	if err != nil {
		return err
	}
	return d.write(regSeconds, blk[:]...)
}

// Time reads the time registers.
func (d *Device) Time() (Fields, error) {
	b, err := d.read(regSeconds, 7)
	if err != nil {
		return Fields{}, err
	}
	var blk [7]byte
	copy(blk[:], b)
	return DecodeFields(blk), nil
}

// SetAlarm2 arms alarm 2 to fire daily at hour:minute. The alarm interrupt
// is masked while the registers change.
func (d *Device) SetAlarm2(hour, minute int) error {
	blk, err := AlarmDaily(hour, minute)
	if err != nil {
		return err
	}
	ie, err := d.read(regIntEnable, 1)
	if err != nil {
		return err
	}
	if err := d.write(regIntEnable, ie[0]&^IntAlarm2); err != nil {
		return err
	}
	if err := d.write(regAlarm2, blk[:]...); err != nil {
		return err
	}
	time.Sleep(d.settle)
	ie, err = d.read(regIntEnable, 1)
	if err != nil {
		return err
	}
	return d.write(regIntEnable, ie[0]|IntAlarm2)
}

// SetTrickleCharger configures the backup-cell charger. setting picks the
// diode/resistor path (low nibble, see TrickleDiode3k).
func (d *Device) SetTrickleCharger(enable bool, setting byte) error {
	v := setting & 0x0F
	if enable {
		v |= trickleEnable
	}
	return d.write(regTrickle, v)
}

// Temperature returns the die temperature in °C (signed 8.8 fixed point).
func (d *Device) Temperature() (float64, error) {
	b, err := d.read(regTemperature, 2)
	if err != nil {
		return 0, err
	}
	raw := int16(uint16(b[0])<<8 | uint16(b[1]))
	return float64(raw) / 256.0, nil
}

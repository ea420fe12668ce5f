package ads1119

import (
	"time"

	"go.uber.org/zap"
	"periph.io/x/conn/v3/physic"
	"tinygo.org/x/drivers"

	"hatdevices-go/errcode"
	"hatdevices-go/x/mathx"
)

// Options control driver behaviour; the conversion setup is Config.
type Options struct {
	Address      uint16
	PollAttempts int           // data-ready polls per Read; default 5
	PollInterval time.Duration // delay between polls; default 10 ms
	Logger       *zap.Logger
}

// Sample is one conversion result. Ready is false when the device did not
// report fresh data within the poll budget; Raw is then 0.
type Sample struct {
	Raw   int16
	Ready bool
}

// Device is one ADS1119 on a bus.
type Device struct {
	i2c  drivers.I2C
	addr uint16
	opt  Options
	log  *zap.Logger
	cfg  Config

	w [2]byte
	r [2]byte
}

// New binds a Device to the bus with cfg as the assumed register content.
// Nothing is written until Configure.
func New(i2c drivers.I2C, cfg Config, opt Options) (*Device, error) {
	if opt.Address == 0 {
		opt.Address = AddressDefault
	}
	if !mathx.Between(opt.Address, 0x08, 0x77) {
		return nil, errcode.Invalid("ads1119.new", "address must be 0x08..0x77")
	}
	if opt.PollAttempts <= 0 {
		opt.PollAttempts = DefaultPollAttempts
	}
	if opt.PollInterval <= 0 {
		opt.PollInterval = DefaultPollInterval
	}
	if cfg.RefVolts == 0 {
		cfg.RefVolts = VRefInternal
	}
	log := opt.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Device{i2c: i2c, addr: opt.Address, opt: opt, log: log.Named("ads1119"), cfg: cfg}, nil
}

// Config returns the setup last written (or assumed at New/Reset).
func (d *Device) Config() Config { return d.cfg }

func (d *Device) command(cmd byte) error {
	d.w[0] = cmd
	d.log.Debug("command", zap.Uint8("cmd", cmd))
	return d.i2c.Tx(d.addr, d.w[:1], nil)
}

// Reset issues RESET. The register returns to ResetConfig; the reference
// voltage in use is kept.
func (d *Device) Reset() error {
	if err := d.command(cmdReset); err != nil {
		return err
	}
	d.cfg = ResetConfig().WithRefVolts(d.cfg.RefVolts)
	return nil
}

// PowerDown puts the converter to sleep.
func (d *Device) PowerDown() error { return d.command(cmdPowerDown) }

// Start issues START/SYNC. In single-shot mode this triggers one conversion,
// in continuous mode it starts free running.
func (d *Device) Start() error { return d.command(cmdStartSync) }

// Configure validates c and writes it to the configuration register.
func (d *Device) Configure(c Config) error {
	b, err := c.Byte()
	if err != nil {
		return err
	}
	if c.RefVolts == 0 {
		c.RefVolts = d.cfg.RefVolts
	}
	d.w[0], d.w[1] = cmdWriteConf, b
	d.log.Debug("write config", zap.Uint8("val", b))
	if err := d.i2c.Tx(d.addr, d.w[:2], nil); err != nil {
		return err
	}
	d.cfg = c
	return nil
}

// ReadConfig reads the raw configuration register.
func (d *Device) ReadConfig() (byte, error) {
	d.w[0] = cmdReadConf
	if err := d.i2c.Tx(d.addr, d.w[:1], d.r[:1]); err != nil {
		return 0, err
	}
	d.log.Debug("read config", zap.Uint8("val", d.r[0]))
	return d.r[0], nil
}

// DataReady reports whether a new conversion result is available.
func (d *Device) DataReady() (bool, error) {
	d.w[0] = cmdReadStat
	if err := d.i2c.Tx(d.addr, d.w[:1], d.r[:1]); err != nil {
		return false, err
	}
	d.log.Debug("status", zap.Uint8("val", d.r[0]))
	return d.r[0]&statusReady != 0, nil
}

// Read waits for data-ready within the poll budget and fetches the result.
func (d *Device) Read() (Sample, error) {
	ok, err := WaitReady(d.DataReady, d.opt.PollAttempts, d.opt.PollInterval)
	if err != nil {
		return Sample{}, err
	}
	if !ok {
		d.log.Debug("no data within poll budget", zap.Int("attempts", d.opt.PollAttempts))
		return Sample{}, nil
	}
	d.w[0] = cmdReadData
	if err := d.i2c.Tx(d.addr, d.w[:1], d.r[:2]); err != nil {
		return Sample{}, err
	}
	return Sample{Raw: int16(uint16(d.r[0])<<8 | uint16(d.r[1])), Ready: true}, nil
}

// ReadData returns the raw result, or 0 if the device was not ready.
func (d *Device) ReadData() (int16, error) {
	s, err := d.Read()
	return s.Raw, err
}

// ReadVoltage reads a sample and converts it with the current setup.
func (d *Device) ReadVoltage() (float64, error) {
	s, err := d.Read()
	if err != nil {
		return 0, err
	}
	return SampleToVoltage(s.Raw, d.cfg), nil
}

// Potential converts volts into a periph unit for display.
func Potential(v float64) physic.ElectricPotential {
	return physic.ElectricPotential(v * float64(physic.Volt))
}

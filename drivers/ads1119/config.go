package ads1119

import (
	"hatdevices-go/errcode"
)

// Config is the conversion setup. It is a value: the With* methods return a
// modified copy and leave the receiver untouched.
type Config struct {
	Gain     Gain
	DataRate DataRate
	Mux      Mux
	VRef     VRefSource
	Mode     ConvMode

	// RefVolts is the reference voltage used for sample conversion.
	RefVolts float64
}

// ResetConfig is the register content after power-on or RESET.
func ResetConfig() Config {
	return Config{Gain: Gain1, RefVolts: VRefInternal}
}

// DefaultConfig is ResetConfig in continuous mode.
func DefaultConfig() Config {
	c := ResetConfig()
	c.Mode = Continuous
	return c
}

// With* return a copy of c with one field replaced. Bounds are checked by
// Validate, not here.
func (c Config) WithGain(g Gain) Config         { c.Gain = g; return c }
func (c Config) WithDataRate(r DataRate) Config { c.DataRate = r; return c }
func (c Config) WithMux(m Mux) Config           { c.Mux = m; return c }
func (c Config) WithVRef(v VRefSource) Config   { c.VRef = v; return c }
func (c Config) WithMode(m ConvMode) Config     { c.Mode = m; return c }
func (c Config) WithRefVolts(v float64) Config  { c.RefVolts = v; return c }

// WithContinuous is WithMode for callers holding a flag.
func (c Config) WithContinuous(on bool) Config {
	if on {
		return c.WithMode(Continuous)
	}
	return c.WithMode(SingleShot)
}

// WithExternalRef is WithVRef for callers holding a flag.
func (c Config) WithExternalRef(on bool) Config {
	if on {
		return c.WithVRef(VRefExt)
	}
	return c.WithVRef(VRefInt)
}

// Validate checks every field against its documented bound.
func (c Config) Validate() error {
	const op = "ads1119.config"
	switch {
	case c.Gain != Gain1 && c.Gain != Gain4:
		return errcode.Invalid(op, "gain must be 1 or 4")
	case c.DataRate > Rate1000SPS:
		return errcode.Invalid(op, "datarate must be 0..3")
	case c.Mux > MuxShorted:
		return errcode.Invalid(op, "mux must be 0..7")
	case c.VRef > VRefExt:
		return errcode.Invalid(op, "vref must be 0 or 1")
	case c.Mode > Continuous:
		return errcode.Invalid(op, "mode must be 0 or 1")
	}
	return nil
}

// Byte packs the configuration register.
func (c Config) Byte() (byte, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	b := byte(c.VRef)<<cfgVRefBit |
		byte(c.Mode)<<cfgModeShift |
		byte(c.DataRate)<<cfgRateShift |
		byte(c.Mux)<<cfgMuxShift
	if c.Gain == Gain4 {
		b |= cfgGain4
	}
	return b, nil
}

// ParseConfig unpacks a configuration register read from the device.
// RefVolts is taken from ref since the register does not carry it.
func ParseConfig(b byte, refVolts float64) Config {
	c := Config{
		Gain:     Gain1,
		DataRate: DataRate(b >> cfgRateShift & 0x03),
		Mux:      Mux(b >> cfgMuxShift & 0x07),
		VRef:     VRefSource(b >> cfgVRefBit & 0x01),
		Mode:     ConvMode(b >> cfgModeShift & 0x01),
		RefVolts: refVolts,
	}
	if b&cfgGain4 != 0 {
		c.Gain = Gain4
	}
	return c
}

// SampleToVoltage converts a two's-complement sample to volts:
// gain * (vref * sample / 32767).
func SampleToVoltage(sample int16, c Config) float64 {
	ref := c.RefVolts
	if ref == 0 {
		ref = VRefInternal
	}
	return float64(c.Gain) * (ref * float64(sample) / fullScale)
}

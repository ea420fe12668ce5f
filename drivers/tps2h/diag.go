// Package tps2h controls TPS2HBxx dual high-side switches wired to an
// MCP23017 expander, with diagnostics read back through an ADC.
//
// Board wiring: port B bits 0..3 enable the four switch channels. Port A
// carries the diagnostic lines; bit 2 enables sensing on the first switch
// (channels 0 and 1), bit 3 on the second switch (channels 2 and 3), bit 1
// (SEL2) picks the odd channel of a pair and bit 0 (SEL1) switches the sense
// output from load current to junction temperature.
package tps2h

import (
	"hatdevices-go/errcode"
)

const (
	MaxChannel = 3
	OutputMask = 0x0F

	diagSelect1 = 0x01 // temperature instead of current
	diagSelect2 = 0x02 // odd channel of the pair
	diagEnShift = 2
)

// Mode is what the sense output is measuring.
type Mode uint8

const (
	ModeOff Mode = iota
	ModeCurrent
	ModeTemperature
)

func (m Mode) String() string {
	switch m {
	case ModeOff:
		return "off"
	case ModeCurrent:
		return "current"
	case ModeTemperature:
		return "temperature"
	default:
		return "unknown"
	}
}

// Selection requests diagnostics for one channel. Both flags may be set;
// the pattern then carries both select bits.
type Selection struct {
	Channel     int
	Current     bool
	Temperature bool
}

func checkChannel(op string, ch int) error {
	if ch < 0 || ch > MaxChannel {
		return errcode.Invalid(op, "channel must be 0..3")
	}
	return nil
}

// Pattern returns the port A value that routes the diagnostic source.
func (s Selection) Pattern() (byte, error) {
	if err := checkChannel("tps2h.diag", s.Channel); err != nil {
		return 0, err
	}
	if !s.Current && !s.Temperature {
		return 0x00, nil
	}
	p := byte(1) << (s.Channel/2 + diagEnShift)
	if s.Current && s.Channel&0x01 != 0 {
		p |= diagSelect2
	}
	if s.Temperature {
		p |= diagSelect1
	}
	return p, nil
}

// Mode reports which quantity the routed sense output represents. With both
// flags set SEL1 is driven high, so the output is temperature.
func (s Selection) Mode() Mode {
	switch {
	case s.Temperature:
		return ModeTemperature
	case s.Current:
		return ModeCurrent
	default:
		return ModeOff
	}
}

// DecodePattern is the inverse of Pattern. Temperature sensing does not
// drive SEL2, so it decodes to the even channel of the pair.
func DecodePattern(p byte) Selection {
	var s Selection
	switch {
	case p&(1<<diagEnShift) != 0:
		s.Channel = 0
	case p&(2<<diagEnShift) != 0:
		s.Channel = 2
	default:
		return s
	}
	if p&diagSelect1 != 0 {
		s.Temperature = true
	}
	if p&diagSelect2 != 0 {
		s.Channel++
		s.Current = true
	} else if !s.Temperature {
		s.Current = true
	}
	return s
}

// Outputs is the 4-bit channel enable mask mirrored on port B.
type Outputs uint8

// With returns o with channel ch enabled.
func (o Outputs) With(ch int) (Outputs, error) {
	if err := checkChannel("tps2h.output", ch); err != nil {
		return o, err
	}
	return (o | 1<<ch) & OutputMask, nil
}

// Without returns o with channel ch disabled.
func (o Outputs) Without(ch int) (Outputs, error) {
	if err := checkChannel("tps2h.output", ch); err != nil {
		return o, err
	}
	return o &^ (1 << ch) & OutputMask, nil
}

// Has reports whether channel ch is enabled.
func (o Outputs) Has(ch int) bool {
	return ch >= 0 && ch <= MaxChannel && o&(1<<ch) != 0
}

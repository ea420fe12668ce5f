package tps2h

import (
	"errors"

	"periph.io/x/conn/v3/physic"
)

// Variant selects the sense current ratio K(SNS).
type Variant uint8

const (
	VariantHB16 Variant = iota // K = 3000
	VariantHB32                // K = 2000
)

const (
	SenseResistorOhms = 750.0
	senseRatioHB16    = 3000
	senseRatioHB32    = 2000

	// Junction temperature transfer, datasheet 9.3.3.2.
	tempOffset_mA = 0.85
	tempSlope     = 90.90909 // °C per mA
	tempRef       = 25.0
)

var ErrNoDiagnostic = errors.New("tps2h: diagnostic mode is off")

// SenseRatio returns K(SNS) for the variant.
func (v Variant) SenseRatio() float64 {
	if v == VariantHB32 {
		return senseRatioHB32
	}
	return senseRatioHB16
}

func (v Variant) String() string {
	if v == VariantHB32 {
		return "tps2hb32"
	}
	return "tps2hb16"
}

// Converter turns the voltage across the sense resistor into physical values.
type Converter struct {
	SenseResistor float64 // Ω
	SenseRatio    float64
}

// NewConverter returns the board converter for a variant.
func NewConverter(v Variant) Converter {
	return Converter{SenseResistor: SenseResistorOhms, SenseRatio: v.SenseRatio()}
}

// Current returns the load current in amperes.
func (c Converter) Current(volts float64) float64 {
	return volts / c.SenseResistor * c.SenseRatio
}

// Temperature returns the junction temperature in °C.
func (c Converter) Temperature(volts float64) float64 {
	iSnsT := volts / c.SenseResistor * 1000.0 // mA
	return (iSnsT-tempOffset_mA)*tempSlope + tempRef
}

// Reading is one converted diagnostic measurement.
type Reading struct {
	Mode  Mode
	Volts float64
	Value float64 // A for ModeCurrent, °C for ModeTemperature
}

// Measure converts volts according to mode.
func (c Converter) Measure(volts float64, mode Mode) (Reading, error) {
	r := Reading{Mode: mode, Volts: volts}
	switch mode {
	case ModeCurrent:
		r.Value = c.Current(volts)
	case ModeTemperature:
		r.Value = c.Temperature(volts)
	default:
		return Reading{}, ErrNoDiagnostic
	}
	return r, nil
}

// Current returns the reading as a periph current; zero unless ModeCurrent.
func (r Reading) Current() physic.ElectricCurrent {
	if r.Mode != ModeCurrent {
		return 0
	}
	return physic.ElectricCurrent(r.Value * float64(physic.Ampere))
}

// Temperature returns the reading as a periph temperature; zero unless
// ModeTemperature.
func (r Reading) Temperature() physic.Temperature {
	if r.Mode != ModeTemperature {
		return 0
	}
	return physic.ZeroCelsius + physic.Temperature(r.Value*float64(physic.Kelvin))
}

func (r Reading) String() string {
	switch r.Mode {
	case ModeCurrent:
		return r.Current().String()
	case ModeTemperature:
		return r.Temperature().String()
	default:
		return "off"
	}
}

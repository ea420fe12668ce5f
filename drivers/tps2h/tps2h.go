package tps2h

import (
	"hatdevices-go/drivers/mcp23017"
)

// OutputPort is the expander side of the board (satisfied by
// *mcp23017.Device).
type OutputPort interface {
	SetIODirection(p mcp23017.Port, mask byte) error
	SetOutput(p mcp23017.Port, pattern byte) error
}

// VoltageReader is the ADC side of the board (satisfied by *ads1119.Device).
type VoltageReader interface {
	ReadVoltage() (float64, error)
}

// PinReader reads back port levels (satisfied by *mcp23017.Device).
type PinReader interface {
	Pins(p mcp23017.Port) (byte, error)
}

const (
	portOutputs = mcp23017.PortB
	portDiag    = mcp23017.PortA
)

// Config selects the switch variant.
type Config struct {
	Variant Variant
}

// Device is the set of four switch channels on one board.
type Device struct {
	io   OutputPort
	adc  VoltageReader
	conv Converter

	outputs Outputs
	diag    Selection
}

// New composes a Device. Nothing is written until Configure or a setter.
func New(io OutputPort, adc VoltageReader, cfg Config) *Device {
	return &Device{io: io, adc: adc, conv: NewConverter(cfg.Variant)}
}

// Converter returns the conversion constants in use.
func (d *Device) Converter() Converter { return d.conv }

// Configure makes both expander ports outputs and drives everything low.
func (d *Device) Configure() error {
	for _, p := range []mcp23017.Port{portDiag, portOutputs} {
		if err := d.io.SetIODirection(p, 0x00); err != nil {
			return err
		}
		if err := d.io.SetOutput(p, 0x00); err != nil {
			return err
		}
	}
	d.outputs = 0
	d.diag = Selection{}
	return nil
}

// Resume picks up whatever an earlier process left on the expander: the
// channel mask and diagnostic routing are read back, and both ports are
// set to outputs without changing their levels.
func (d *Device) Resume(r PinReader) error {
	out, err := r.Pins(portOutputs)
	if err != nil {
		return err
	}
	diag, err := r.Pins(portDiag)
	if err != nil {
		return err
	}
	for _, p := range []mcp23017.Port{portDiag, portOutputs} {
		if err := d.io.SetIODirection(p, 0x00); err != nil {
			return err
		}
	}
	d.outputs = Outputs(out) & OutputMask
	d.diag = DecodePattern(diag)
	return nil
}

// Outputs returns the channel mask last written.
func (d *Device) Outputs() Outputs { return d.outputs }

// Selection returns the diagnostic selection last written.
func (d *Device) Selection() Selection { return d.diag }

func (d *Device) writeOutputs(next Outputs) error {
	if err := d.io.SetOutput(portOutputs, byte(next)); err != nil {
		return err
	}
	d.outputs = next
	return nil
}

// SetOutput switches channel ch on, keeping the others.
func (d *Device) SetOutput(ch int) error {
	next, err := d.outputs.With(ch)
	if err != nil {
		return err
	}
	return d.writeOutputs(next)
}

// ClearOutput switches channel ch off, keeping the others.
func (d *Device) ClearOutput(ch int) error {
	next, err := d.outputs.Without(ch)
	if err != nil {
		return err
	}
	return d.writeOutputs(next)
}

// Diag routes the diagnostic sense output as requested by sel.
func (d *Device) Diag(sel Selection) error {
	p, err := sel.Pattern()
	if err != nil {
		return err
	}
	if err := d.io.SetOutput(portDiag, p); err != nil {
		return err
	}
	d.diag = sel
	return nil
}

// DiagOff disables the diagnostic source.
func (d *Device) DiagOff() error {
	return d.Diag(Selection{Channel: d.diag.Channel})
}

// Measure reads the ADC and converts the voltage as mode. The caller states
// the mode explicitly; Selection().Mode() gives the one last routed.
func (d *Device) Measure(mode Mode) (Reading, error) {
	if mode != ModeCurrent && mode != ModeTemperature {
		return Reading{}, ErrNoDiagnostic
	}
	v, err := d.adc.ReadVoltage()
	if err != nil {
		return Reading{}, err
	}
	return d.conv.Measure(v, mode)
}

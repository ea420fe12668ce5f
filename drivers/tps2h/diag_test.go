package tps2h

import (
	"math"
	"testing"

	"periph.io/x/conn/v3/physic"

	"hatdevices-go/errcode"
)

func TestSelectionPattern(t *testing.T) {
	cases := []struct {
		sel  Selection
		want byte
	}{
		{Selection{Channel: 0}, 0x00},
		{Selection{Channel: 3}, 0x00},
		{Selection{Channel: 0, Current: true}, 0x04},
		{Selection{Channel: 1, Current: true}, 0x06},
		{Selection{Channel: 2, Current: true}, 0x08},
		{Selection{Channel: 3, Current: true}, 0x0A},
		{Selection{Channel: 0, Temperature: true}, 0x05},
		{Selection{Channel: 1, Temperature: true}, 0x05},
		{Selection{Channel: 2, Temperature: true}, 0x09},
		{Selection{Channel: 3, Temperature: true}, 0x09},
		// both flags: select bits combine
		{Selection{Channel: 1, Current: true, Temperature: true}, 0x07},
		{Selection{Channel: 2, Current: true, Temperature: true}, 0x09},
	}
	for _, c := range cases {
		got, err := c.sel.Pattern()
		if err != nil {
			t.Fatalf("%+v: %v", c.sel, err)
		}
		if got != c.want {
			t.Fatalf("%+v: pattern 0x%02x, want 0x%02x", c.sel, got, c.want)
		}
	}
}

func TestSelectionChannelBounds(t *testing.T) {
	for _, ch := range []int{-1, 4, 100} {
		if _, err := (Selection{Channel: ch, Current: true}).Pattern(); errcode.Of(err) != errcode.InvalidParams {
			t.Fatalf("channel %d: err = %v", ch, err)
		}
	}
}

func TestSelectionMode(t *testing.T) {
	cases := []struct {
		sel  Selection
		want Mode
	}{
		{Selection{}, ModeOff},
		{Selection{Current: true}, ModeCurrent},
		{Selection{Temperature: true}, ModeTemperature},
		{Selection{Current: true, Temperature: true}, ModeTemperature},
	}
	for _, c := range cases {
		if got := c.sel.Mode(); got != c.want {
			t.Fatalf("%+v: mode %v, want %v", c.sel, got, c.want)
		}
	}
}

func TestOutputsMask(t *testing.T) {
	var o Outputs
	var err error
	for _, ch := range []int{0, 2, 3} {
		if o, err = o.With(ch); err != nil {
			t.Fatal(err)
		}
	}
	if o != 0x0D {
		t.Fatalf("mask = 0x%02x, want 0x0d", o)
	}
	again, _ := o.With(2)
	if again != o {
		t.Fatalf("With is not idempotent: 0x%02x", again)
	}
	if o, _ = o.Without(0); o != 0x0C {
		t.Fatalf("after Without(0) = 0x%02x", o)
	}
	if !o.Has(3) || o.Has(0) || o.Has(7) {
		t.Fatalf("Has mismatch on 0x%02x", o)
	}
	if _, err := o.With(4); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("With(4) err = %v", err)
	}
	if _, err := o.Without(-1); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("Without(-1) err = %v", err)
	}
}

func TestConversions(t *testing.T) {
	c := NewConverter(VariantHB16)
	if got := c.Current(0.75); math.Abs(got-3.0) > 1e-12 {
		t.Fatalf("Current(0.75) = %v, want 3.0", got)
	}
	// (1.0 mA - 0.85) * 90.90909 + 25
	if got := c.Temperature(0.75); math.Abs(got-38.6363635) > 1e-6 {
		t.Fatalf("Temperature(0.75) = %v, want 38.6363635", got)
	}
	if got := NewConverter(VariantHB32).Current(0.75); math.Abs(got-2.0) > 1e-12 {
		t.Fatalf("HB32 Current(0.75) = %v, want 2.0", got)
	}
	// 0.85 mA through 750 Ω is the 25 °C point.
	if got := c.Temperature(0.85 * 0.75); math.Abs(got-25.0) > 1e-9 {
		t.Fatalf("Temperature at reference = %v", got)
	}
}

func TestConverterMeasure(t *testing.T) {
	c := NewConverter(VariantHB16)
	r, err := c.Measure(0.75, ModeCurrent)
	if err != nil || r.Mode != ModeCurrent || math.Abs(r.Value-3.0) > 1e-12 {
		t.Fatalf("current reading = %+v, %v", r, err)
	}
	if got := r.Current(); got < 3*physic.Ampere-1 || got > 3*physic.Ampere+1 {
		t.Fatalf("physic current = %v", got)
	}
	if r.Temperature() != 0 {
		t.Fatalf("temperature view on a current reading")
	}
	r, err = c.Measure(0.75, ModeTemperature)
	if err != nil || r.Mode != ModeTemperature {
		t.Fatalf("temperature reading = %+v, %v", r, err)
	}
	if _, err := c.Measure(0.75, ModeOff); err != ErrNoDiagnostic {
		t.Fatalf("ModeOff err = %v", err)
	}
}

func TestDecodePattern(t *testing.T) {
	for ch := 0; ch <= MaxChannel; ch++ {
		for _, sel := range []Selection{{Channel: ch, Current: true}, {Channel: ch &^ 1, Temperature: true}} {
			p, err := sel.Pattern()
			if err != nil {
				t.Fatal(err)
			}
			if got := DecodePattern(p); got != sel {
				t.Fatalf("DecodePattern(%#02x) = %+v, want %+v", p, got, sel)
			}
		}
	}
	if got := DecodePattern(0x00); got != (Selection{}) {
		t.Fatalf("off decodes to %+v", got)
	}
	both := map[byte]Selection{
		0x07: {Channel: 1, Current: true, Temperature: true},
		0x0b: {Channel: 3, Current: true, Temperature: true},
	}
	for p, want := range both {
		if got := DecodePattern(p); got != want {
			t.Fatalf("DecodePattern(%#02x) = %+v, want %+v", p, got, want)
		}
	}
}

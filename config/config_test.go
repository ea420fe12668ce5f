package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"hatdevices-go/drivers/tps2h"
	"hatdevices-go/errcode"
)

func TestParseOverridesDefaults(t *testing.T) {
	raw := []byte(`{"bus":"9","adc":{"address":"0x40"},"rtc":{"address":104},"switch":{"variant":"tps2hb32"}}`)
	got, err := Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	want := Default()
	want.Bus = "9"
	want.ADC.Address = 0x40
	if diff := cmp.Diff(want.ADC, got.ADC); diff != "" {
		t.Fatalf("adc (-want +got):\n%s", diff)
	}
	if got.Bus != "9" || got.RTC.Address != 0x68 || got.IO.Address != 0x22 {
		t.Fatalf("board = %+v", got)
	}
	v, err := got.Variant()
	if err != nil || v != tps2h.VariantHB32 {
		t.Fatalf("variant = %v, %v", v, err)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name string
		mod  func(*Board)
		code errcode.Code
	}{
		{"no bus", func(b *Board) { b.Bus = "" }, errcode.InvalidParams},
		{"reserved adc", func(b *Board) { b.ADC.Address = 0x03 }, errcode.OutOfRange},
		{"high rtc", func(b *Board) { b.RTC.Address = 0x78 }, errcode.OutOfRange},
		{"eeprom outside window", func(b *Board) { b.EEPROM.Address = 0x58 }, errcode.OutOfRange},
		{"negative vref", func(b *Board) { b.ADC.RefVolts = -1 }, errcode.InvalidParams},
		{"variant", func(b *Board) { b.Switch.Variant = "tps2hb99" }, errcode.InvalidParams},
	}
	for _, tc := range cases {
		b := Default()
		tc.mod(&b)
		err := b.Validate()
		if errcode.Of(err) != tc.code {
			t.Fatalf("%s: err = %v, want code %s", tc.name, err, tc.code)
		}
	}
	if err := Default().Validate(); err != nil {
		t.Fatalf("default board invalid: %v", err)
	}
}

func TestAddrJSON(t *testing.T) {
	var a Addr
	if err := json.Unmarshal([]byte(`"52"`), &a); err != nil || a != 0x52 {
		t.Fatalf("a = %#x, %v", a, err)
	}
	if err := json.Unmarshal([]byte(`true`), &a); err == nil {
		t.Fatalf("bool accepted as address")
	}
	out, err := json.Marshal(Addr(0x4e))
	if err != nil || string(out) != `"0x4E"` {
		t.Fatalf("marshal = %s, %v", out, err)
	}
}

func TestLoad(t *testing.T) {
	b, err := Load("")
	if err != nil || b.Bus != "1" {
		t.Fatalf("Load(\"\") = %+v, %v", b, err)
	}
	dir := t.TempDir()
	p := filepath.Join(dir, "board.json")
	if err := os.WriteFile(p, []byte(`{"io":{"address":"0x20"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	b, err = Load(p)
	if err != nil || b.IO.Address != 0x20 {
		t.Fatalf("Load = %+v, %v", b, err)
	}
	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatalf("missing file loaded")
	}
	if err := os.WriteFile(p, []byte(`{`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(p); err == nil {
		t.Fatalf("truncated json loaded")
	}
}

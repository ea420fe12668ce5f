package max31343

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"hatdevices-go/errcode"
	"hatdevices-go/internal/i2ctest"
)

const addr = AddressDefault

func TestFieldsRoundTrip(t *testing.T) {
	ts := time.Date(2024, time.September, 29, 7, 56, 3, 0, time.UTC) // a Sunday
	f := FieldsFromTime(ts)
	want := Fields{Seconds: 3, Minutes: 56, Hours: 7, Weekday: 7, Day: 29, Month: 9, Year: 24}
	if f != want {
		t.Fatalf("FieldsFromTime = %+v, want %+v", f, want)
	}
	blk, err := f.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([7]byte{0x03, 0x56, 0x07, 0x07, 0x29, 0x09, 0x24}, blk); diff != "" {
		t.Fatalf("Encode (-want +got):\n%s", diff)
	}
	back := DecodeFields(blk)
	if back != f {
		t.Fatalf("DecodeFields = %+v", back)
	}
	if got := back.String(); got != "2024-09-29 07:56 03" {
		t.Fatalf("String = %q", got)
	}
	if !back.Time(nil).Equal(ts) {
		t.Fatalf("Time = %v, want %v", back.Time(nil), ts)
	}
}

func TestYearWrapsIntoCentury2000(t *testing.T) {
	f := FieldsFromTime(time.Date(1999, time.December, 31, 23, 59, 59, 0, time.UTC))
	blk, err := f.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if got := DecodeFields(blk).String(); got != "2099-12-31 23:59 59" {
		t.Fatalf("String = %q", got)
	}
}

func TestWeekdayNumbering(t *testing.T) {
	monday := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		if got := FieldsFromTime(monday.AddDate(0, 0, i)).Weekday; got != i+1 {
			t.Fatalf("day %d: weekday %d", i, got)
		}
	}
}

func TestEncodeRejectsOutOfRange(t *testing.T) {
	good := Fields{Seconds: 0, Minutes: 0, Hours: 0, Weekday: 1, Day: 1, Month: 1, Year: 0}
	bad := []Fields{
		func() Fields { f := good; f.Seconds = 60; return f }(),
		func() Fields { f := good; f.Hours = 24; return f }(),
		func() Fields { f := good; f.Weekday = 0; return f }(),
		func() Fields { f := good; f.Day = 32; return f }(),
		func() Fields { f := good; f.Month = 13; return f }(),
		func() Fields { f := good; f.Year = 100; return f }(),
	}
	if _, err := good.Encode(); err != nil {
		t.Fatalf("good fields rejected: %v", err)
	}
	for i, f := range bad {
		if _, err := f.Encode(); errcode.Of(err) != errcode.InvalidParams {
			t.Fatalf("case %d: err = %v", i, err)
		}
	}
}

func TestAlarmDaily(t *testing.T) {
	got, err := AlarmDaily(7, 56)
	if err != nil {
		t.Fatal(err)
	}
	if got != [3]byte{0x56, 0x07, 0x80} {
		t.Fatalf("AlarmDaily = % x", got)
	}
	if _, err := AlarmDaily(24, 0); err == nil {
		t.Fatal("hour 24 accepted")
	}
	if _, err := AlarmDaily(0, 60); err == nil {
		t.Fatal("minute 60 accepted")
	}
}

func newDev(t *testing.T) (*Device, *i2ctest.Bus) {
	t.Helper()
	b := i2ctest.New()
	d, err := New(b, Config{AlarmSettle: time.Microsecond})
	if err != nil {
		t.Fatal(err)
	}
	return d, b
}

func TestSetAndReadTime(t *testing.T) {
	d, b := newDev(t)
	ts := time.Date(2031, time.March, 4, 15, 9, 42, 0, time.UTC)
	if err := d.SetTime(ts); err != nil {
		t.Fatal(err)
	}
	w := b.Writes(addr)
	if len(w) != 1 || w[0].W[0] != regSeconds || len(w[0].W) != 8 {
		t.Fatalf("time write = %+v", w)
	}
	f, err := d.Time()
	if err != nil {
		t.Fatal(err)
	}
	if f.String() != "2031-03-04 15:09 42" || f.Weekday != 2 {
		t.Fatalf("read back %+v", f)
	}
}

func TestSetAlarm2Sequence(t *testing.T) {
	d, b := newDev(t)
	b.Set(addr, regIntEnable, IntAlarm1|IntAlarm2|IntTemperature)
	if err := d.SetAlarm2(7, 56); err != nil {
		t.Fatal(err)
	}
	var got [][]byte
	for _, tx := range b.Log() {
		got = append(got, tx.W)
	}
	want := [][]byte{
		{regIntEnable},
		{regIntEnable, IntAlarm1 | IntTemperature},
		{regAlarm2, 0x56, 0x07, 0x80},
		{regIntEnable},
		{regIntEnable, IntAlarm1 | IntAlarm2 | IntTemperature},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("alarm sequence (-want +got):\n%s", diff)
	}
}

func TestSetAlarm2RejectsBeforeBus(t *testing.T) {
	d, b := newDev(t)
	if err := d.SetAlarm2(25, 0); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("err = %v", err)
	}
	if len(b.Log()) != 0 {
		t.Fatal("bus touched")
	}
}

func TestTrickleResetStatus(t *testing.T) {
	d, b := newDev(t)
	if err := d.SetTrickleCharger(true, TrickleDiode3k); err != nil {
		t.Fatal(err)
	}
	if got := b.Get(addr, regTrickle); len(got) != 1 || got[0] != 0x55 {
		t.Fatalf("trickle = % x", got)
	}
	if err := d.SetTrickleCharger(false, TrickleDiode3k); err != nil {
		t.Fatal(err)
	}
	if got := b.Get(addr, regTrickle); got[0] != 0x05 {
		t.Fatalf("trickle off = % x", got)
	}
	if err := d.Reset(); err != nil {
		t.Fatal(err)
	}
	if got := b.Get(addr, regReset); got[0] != 0x01 {
		t.Fatalf("reset = % x", got)
	}
	b.Set(addr, regStatus, IntPowerFail)
	if s, err := d.Status(); err != nil || s != IntPowerFail {
		t.Fatalf("status = 0x%02x, %v", s, err)
	}
}

func TestTemperature(t *testing.T) {
	d, b := newDev(t)
	cases := []struct {
		msb, lsb byte
		want     float64
	}{
		{0x19, 0x40, 25.25},
		{0x00, 0x00, 0},
		{0xFF, 0x00, -1},
		{0xF6, 0x80, -9.5},
	}
	for _, c := range cases {
		b.Set(addr, regTemperature, c.msb, c.lsb)
		got, err := d.Temperature()
		if err != nil || got != c.want {
			t.Fatalf("% x: %v, %v; want %v", []byte{c.msb, c.lsb}, got, err, c.want)
		}
	}
}

func TestTransportErrors(t *testing.T) {
	d, b := newDev(t)
	boom := errors.New("nack")
	b.Err = boom
	if _, err := d.Time(); err != boom {
		t.Fatalf("Time err = %v", err)
	}
	if err := d.SetAlarm2(1, 2); err != boom {
		t.Fatalf("SetAlarm2 err = %v", err)
	}
}

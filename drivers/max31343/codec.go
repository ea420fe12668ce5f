package max31343

import (
	"fmt"
	"time"

	"hatdevices-go/errcode"
	"hatdevices-go/x/conv"
	"hatdevices-go/x/mathx"
)

// Fields is the decimal view of the seven time registers.
// Weekday runs Monday=1 .. Sunday=7; Year is 0..99 counted from 2000.
type Fields struct {
	Seconds int
	Minutes int
	Hours   int
	Weekday int
	Day     int
	Month   int
	Year    int
}

// FieldsFromTime splits t into register fields. The century is dropped.
func FieldsFromTime(t time.Time) Fields {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	return Fields{
		Seconds: t.Second(),
		Minutes: t.Minute(),
		Hours:   t.Hour(),
		Weekday: wd,
		Day:     t.Day(),
		Month:   int(t.Month()),
		Year:    t.Year() % 100,
	}
}

type fieldRange struct {
	name   string
	v      int
	lo, hi int
}

func (f Fields) ranges() [7]fieldRange {
	return [7]fieldRange{
		{"seconds", f.Seconds, 0, 59},
		{"minutes", f.Minutes, 0, 59},
		{"hours", f.Hours, 0, 23},
		{"weekday", f.Weekday, 1, 7},
		{"day", f.Day, 1, 31},
		{"month", f.Month, 1, 12},
		{"year", f.Year, 0, 99},
	}
}

// Validate checks each field against its register range.
func (f Fields) Validate() error {
	for _, r := range f.ranges() {
		if !mathx.Between(r.v, r.lo, r.hi) {
			return errcode.Invalid("max31343.time", fmt.Sprintf("%s %d outside %d..%d", r.name, r.v, r.lo, r.hi))
		}
	}
	return nil
}

// Encode returns the BCD register block, seconds first.
func (f Fields) Encode() ([7]byte, error) {
	var out [7]byte
	if err := f.Validate(); err != nil {
		return out, err
	}
	for i, r := range f.ranges() {
		b, err := conv.BinaryToBCD(r.v)
		if err != nil {
			return out, err
		}
		out[i] = b
	}
	return out, nil
}

// DecodeFields reads a BCD register block, seconds first. No range checks
// are applied; malformed BCD decodes arithmetically.
func DecodeFields(b [7]byte) Fields {
	return Fields{
		Seconds: conv.BCDToBinary(b[0]),
		Minutes: conv.BCDToBinary(b[1]),
		Hours:   conv.BCDToBinary(b[2]),
		Weekday: conv.BCDToBinary(b[3]),
		Day:     conv.BCDToBinary(b[4]),
		Month:   conv.BCDToBinary(b[5]),
		Year:    conv.BCDToBinary(b[6]),
	}
}

// String formats as "YYYY-MM-DD HH:MM SS".
func (f Fields) String() string {
	return fmt.Sprintf("%4d-%02d-%02d %02d:%02d %02d",
		f.Year+2000, f.Month, f.Day, f.Hours, f.Minutes, f.Seconds)
}

// Time converts to a time.Time in loc (UTC if nil).
func (f Fields) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(f.Year+2000, time.Month(f.Month), f.Day, f.Hours, f.Minutes, f.Seconds, 0, loc)
}

// AlarmDaily encodes alarm 2 to fire every day at hour:minute.
func AlarmDaily(hour, minute int) ([3]byte, error) {
	var out [3]byte
	if !mathx.Between(hour, 0, 23) || !mathx.Between(minute, 0, 59) {
		return out, errcode.Invalid("max31343.alarm", "hour must be 0..23 and minute 0..59")
	}
	m, _ := conv.BinaryToBCD(minute)
	h, _ := conv.BinaryToBCD(hour)
	out[0], out[1], out[2] = m, h, alarmDaily
	return out, nil
}

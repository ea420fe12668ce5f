package eeprom24cw

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"hatdevices-go/errcode"
)

func TestPlanChange(t *testing.T) {
	cases := []struct {
		name string
		cur  Registers
		req  Request
		want Plan
	}{
		{
			name: "protect from blank",
			req:  Request{Protect: true},
			want: Plan{Action: ActionWrite, Next: Registers{0x4e, 0x40}},
		},
		{
			name: "unprotect keeps lock bit",
			cur:  Registers{0x4f, 0x42},
			req:  Request{Unprotect: true},
			want: Plan{Action: ActionWrite, Cur: Registers{0x4f, 0x42}, Next: Registers{0x41, 0x42}},
		},
		{
			name: "relocate even",
			req:  Request{Target: 0x52, HasTarget: true},
			want: Plan{Action: ActionWrite, Next: Registers{0x40, 0x42}},
		},
		{
			name: "relocate odd mirrors A0",
			req:  Request{Target: 0x53, HasTarget: true},
			want: Plan{Action: ActionWrite, Next: Registers{0x40, 0x63}},
		},
		{
			name: "relocate replaces old address",
			cur:  Registers{0x00, 0x67},
			req:  Request{Target: 0x50, HasTarget: true},
			want: Plan{Action: ActionWrite, Cur: Registers{0x00, 0x67}, Next: Registers{0x40, 0x40}},
		},
		{
			name: "protect and relocate",
			cur:  Registers{0x00, 0x01},
			req:  Request{Protect: true, Target: 0x57, HasTarget: true},
			want: Plan{Action: ActionWrite, Cur: Registers{0x00, 0x01}, Next: Registers{0x4e, 0x67}},
		},
		{
			name: "protect keeps odd address and adds mirror",
			cur:  Registers{0x00, 0x03},
			req:  Request{Protect: true},
			want: Plan{Action: ActionWrite, Cur: Registers{0x00, 0x03}, Next: Registers{0x4e, 0x63}},
		},
		{
			// bit 5 already set: the mirror is added, not ORed, and carries.
			name: "mirror addition carries",
			cur:  Registers{0x00, 0x61},
			req:  Request{Protect: true},
			want: Plan{Action: ActionWrite, Cur: Registers{0x00, 0x61}, Next: Registers{0x4e, 0x81}},
		},
		{
			name: "show",
			cur:  Registers{0x4e, 0x63},
			req:  Request{Show: true, Protect: true, Unprotect: true},
			want: Plan{Action: ActionShow, Cur: Registers{0x4e, 0x63}, Next: Registers{0x4e, 0x63}},
		},
		{
			name: "nothing to do",
			cur:  Registers{0x01, 0x02},
			req:  Request{},
			want: Plan{Action: ActionNone, Cur: Registers{0x01, 0x02}, Next: Registers{0x01, 0x02}},
		},
	}
	for _, c := range cases {
		got, err := PlanChange(c.cur, c.req)
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Fatalf("%s (-want +got):\n%s", c.name, diff)
		}
	}
}

func TestPlanChangeRejects(t *testing.T) {
	cases := []struct {
		req  Request
		code errcode.Code
	}{
		{Request{Protect: true, Unprotect: true}, errcode.Conflict},
		{Request{Protect: true, Unprotect: true, Target: 0x52, HasTarget: true}, errcode.Conflict},
		{Request{Target: 0x58, HasTarget: true}, errcode.OutOfRange},
		{Request{Target: 0x4F, HasTarget: true}, errcode.OutOfRange},
		{Request{Protect: true, Target: 0x00, HasTarget: true}, errcode.OutOfRange},
	}
	for i, c := range cases {
		p, err := PlanChange(Registers{}, c.req)
		if errcode.Of(err) != c.code {
			t.Fatalf("case %d: err = %v, want %s", i, err, c.code)
		}
		if p.Action == ActionWrite {
			t.Fatalf("case %d: write planned despite error", i)
		}
	}
	_, err := PlanChange(Registers{}, Request{Target: 0x58, HasTarget: true})
	if !IsRangeError(err) {
		t.Fatalf("IsRangeError(%v) = false", err)
	}
}

func TestDecode(t *testing.T) {
	cases := []struct {
		r    Registers
		want Status
	}{
		{Registers{0x4e, 0x40}, Status{WriteProtected: true, BusAddress: 0x50}},
		{Registers{0x0c, 0x63}, Status{WriteProtected: false, BusAddress: 0x53}},
		{Registers{0x0f, 0x47}, Status{WriteProtected: true, Locked: true, BusAddress: 0x57}},
	}
	for _, c := range cases {
		c.want.Raw = c.r
		if diff := cmp.Diff(c.want, Decode(c.r)); diff != "" {
			t.Fatalf("Decode(%+v) (-want +got):\n%s", c.r, diff)
		}
	}
}

func TestStatusLines(t *testing.T) {
	got := Decode(Registers{0x4f, 0x42}).Lines()
	want := []string{
		"write protection is ON.",
		"I2C bus address: 0x52",
		"configuration is locked permanently.",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Lines (-want +got):\n%s", diff)
	}
}

func TestSentinelCodes(t *testing.T) {
	if errcode.Of(ErrConflict) != errcode.Conflict || errcode.Of(ErrTargetRange) != errcode.OutOfRange {
		t.Fatalf("codes = %s, %s", errcode.Of(ErrConflict), errcode.Of(ErrTargetRange))
	}
	_, err := PlanChange(Registers{}, Request{Protect: true, Unprotect: true})
	if err != ErrConflict {
		t.Fatalf("conflict err = %v", err)
	}
	_, err = PlanChange(Registers{}, Request{Target: 0x58, HasTarget: true})
	if !IsRangeError(err) || IsRangeError(ErrConflict) {
		t.Fatalf("range err = %v", err)
	}
}

package eeprom24cw

import (
	"errors"
	"fmt"

	"hatdevices-go/errcode"
	"hatdevices-go/x/mathx"
)

// Sentinels returned by PlanChange. They are typed as error so callers can
// only compare them; match with errors.Is against the value or its code
// (errcode.Conflict, errcode.OutOfRange).
var (
	ErrConflict    error = &errcode.E{C: errcode.Conflict, Op: "eeprom24cw", Msg: "cannot write enable and write protect at the same time"}
	ErrTargetRange error = &errcode.E{C: errcode.OutOfRange, Op: "eeprom24cw", Msg: "target address must be 0x50..0x57"}
)

// Registers holds the two configuration bytes.
type Registers struct {
	WriteProtect byte
	Address      byte
}

// Request is a parsed configuration change.
type Request struct {
	Show      bool
	Protect   bool
	Unprotect bool
	Target    byte
	HasTarget bool
}

func (r Request) changes() bool { return r.Protect || r.Unprotect || r.HasTarget }

// Action is what PlanChange decided.
type Action uint8

const (
	ActionNone  Action = iota // nothing requested
	ActionShow                // report only
	ActionWrite               // write Plan.Next
)

// String names the action for logs.
func (a Action) String() string {
	switch a {
	case ActionShow:
		return "show"
	case ActionWrite:
		return "write"
	default:
		return "none"
	}
}

// Plan is the outcome of PlanChange.
type Plan struct {
	Action Action
	Cur    Registers
	Next   Registers
}

// PlanChange computes the register bytes for req given the current content.
// It never fails for ActionShow and ActionNone; conflicts and an
// out-of-range target return an error and no write is planned.
func PlanChange(cur Registers, req Request) (Plan, error) {
	p := Plan{Cur: cur, Next: cur}
	if req.Show {
		p.Action = ActionShow
		return p, nil
	}
	if req.Protect && req.Unprotect {
		return p, ErrConflict
	}
	if !req.changes() {
		return p, nil
	}

	wp := cur.WriteProtect | unlockBit
	ar := cur.Address | unlockBit
	if req.Protect {
		wp |= protectAll
	}
	if req.Unprotect {
		wp &^= protectAll
	}
	if req.HasTarget {
		if !mathx.Between(req.Target, AddressMin, AddressMax) {
			return p, ErrTargetRange
		}
		ar = unlockBit | req.Target&addrMask | (req.Target&0x01)<<oddMirrorBit
	} else {
		// Keep the address but add the A0 mirror the device expects.
		ar += (ar & 0x01) << oddMirrorBit
	}
	p.Action = ActionWrite
	p.Next = Registers{WriteProtect: wp, Address: ar}
	return p, nil
}

// Status is the decoded configuration.
type Status struct {
	WriteProtected bool
	Locked         bool
	BusAddress     uint8
	Raw            Registers
}

// Decode interprets the configuration registers.
func Decode(r Registers) Status {
	return Status{
		WriteProtected: r.WriteProtect&protectAll == protectAll,
		Locked:         r.WriteProtect&permLockBit != 0,
		BusAddress:     AddressMin + r.Address&addrMask,
		Raw:            r,
	}
}

// Lines renders the status as the sentences printed by the CLI.
func (s Status) Lines() []string {
	wp := "write protection is OFF."
	if s.WriteProtected {
		wp = "write protection is ON."
	}
	lock := "configuration is not locked."
	if s.Locked {
		lock = "configuration is locked permanently."
	}
	return []string{wp, fmt.Sprintf("I2C bus address: 0x%02x", s.BusAddress), lock}
}

// IsRangeError reports an out-of-range target address.
func IsRangeError(err error) bool { return errors.Is(err, errcode.OutOfRange) }

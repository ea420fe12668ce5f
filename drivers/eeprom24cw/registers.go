// Package eeprom24cw reads and changes the configuration of software
// configurable 24CWxxx EEPROMs (for example the 24CW640T used as Raspberry Pi
// HAT ID memory).
//
// The two configuration registers sit behind the fixed memory pointer
// 0x8000: the write-protection register followed by the address register.
// A change is only accepted when the unlock bit (0x40) is set in both, and
// the address register must repeat the odd address bit A0 in bit 5.
// Permanent locking is not supported.
package eeprom24cw

const (
	AddressDefault = 0x50
	AddressMin     = 0x50
	AddressMax     = 0x57

	pointerHi = 0x80
	pointerLo = 0x00

	unlockBit    = 0x40
	protectAll   = 0x0E // write protection for the full array
	permLockBit  = 0x01
	addrMask     = 0x07
	oddMirrorBit = 5
)

package conv

import (
	"hatdevices-go/errcode"
	"hatdevices-go/x/mathx"
)

// BCDToBinary decodes one packed BCD byte: high nibble * 10 + low nibble.
// Nibbles above 9 are not rejected; 0xFF decodes to 165.
func BCDToBinary(b byte) int {
	return int(b>>4)*10 + int(b&0x0F)
}

// BinaryToBCD packs v (0..99) as two BCD digits.
func BinaryToBCD(v int) (byte, error) {
	if !mathx.Between(v, 0, 99) {
		return 0, errcode.Invalid("conv.bcd", "value must be 0..99")
	}
	return byte(v/10)<<4 | byte(v%10), nil
}

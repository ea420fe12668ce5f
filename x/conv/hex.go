package conv

import (
	"strconv"
	"strings"

	"hatdevices-go/errcode"
)

const hexd = "0123456789ABCDEF"

// U8Hex writes 2-digit uppercase hex without 0x.
func U8Hex(buf []byte, b byte) []byte {
	if len(buf) < 2 {
		return buf[:0]
	}
	buf[0] = hexd[b>>4]
	buf[1] = hexd[b&0xF]
	return buf[:2]
}

// Hex formats b as "0x" plus two uppercase digits.
func Hex(b byte) string {
	var buf [4]byte
	buf[0], buf[1] = '0', 'x'
	U8Hex(buf[2:], b)
	return string(buf[:])
}

// ParseHexByte reads a hexadecimal byte with or without a 0x prefix
// ("0x52", "52", "0X52").
func ParseHexByte(s string) (byte, error) {
	t := strings.TrimSpace(s)
	if len(t) > 1 && t[0] == '0' && (t[1] == 'x' || t[1] == 'X') {
		t = t[2:]
	}
	v, err := strconv.ParseUint(t, 16, 8)
	if err != nil {
		return 0, &errcode.E{C: errcode.InvalidParams, Op: "conv.hex", Msg: "not a hex byte: " + s, Err: err}
	}
	return byte(v), nil
}

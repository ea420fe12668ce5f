// Package mcp23017 provides register access to the MCP23017 16-bit I/O port
// expander.
package mcp23017

const (
	// 7-bit I2C address with A2..A0 low.
	AddressDefault = 0x20

	// Bank 0 register map; port B sits at +1.
	regIODIRA = 0x00
	regGPPUA  = 0x06
	regGPIOA  = 0x12
)

// Port selects one 8-bit side of the expander.
type Port uint8

const (
	PortA Port = 0
	PortB Port = 1
)

func (p Port) String() string {
	switch p {
	case PortA:
		return "A"
	case PortB:
		return "B"
	default:
		return "?"
	}
}

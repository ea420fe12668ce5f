// Package max31343 drives the Analog Devices MAX31343 real-time clock.
package max31343

const (
	AddressDefault = 0x68

	regStatus      = 0x00
	regIntEnable   = 0x01
	regReset       = 0x02
	regSeconds     = 0x06 // seconds..year, 7 bytes
	regAlarm2      = 0x13 // min, hour, day/date
	regTrickle     = 0x19
	regTemperature = 0x1A // MSB, LSB

	resetBit = 0x01

	alarmDaily = 0x80 // A2M4: match hour and minute only

	trickleEnable  = 0x50
	TrickleDiode3k = 0x05 // extra diode in series, 3 kΩ
)

// Interrupt flags shared by STATUS and INT_EN.
const (
	IntAlarm1      = 0x01
	IntAlarm2      = 0x02
	IntTimer       = 0x04
	IntTemperature = 0x08
	IntPowerFail   = 0x20
)

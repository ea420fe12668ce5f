// Package ads1119 drives the TI ADS1119 16-bit delta-sigma ADC.
//
// The device is command based: each transaction starts with a command byte.
// Configuration lives in register 0 (WREG/RREG); conversion status is bit 7
// of register 1.
package ads1119

const (
	// 7-bit I2C address with A1=A0=GND.
	AddressDefault = 0x40

	cmdReset     = 0x06
	cmdStartSync = 0x08
	cmdPowerDown = 0x02
	cmdReadData  = 0x10
	cmdReadConf  = 0x20 // RREG register 0
	cmdReadStat  = 0x24 // RREG register 1
	cmdWriteConf = 0x40 // WREG register 0

	statusReady = 0x80

	// Config register bitfields.
	cfgVRefBit   = 0
	cfgModeShift = 1
	cfgRateShift = 2
	cfgGain4     = 0x10
	cfgMuxShift  = 5

	// Internal reference in volts.
	VRefInternal = 2.048

	fullScale = 32767.0
)

// Gain of the input stage.
type Gain uint8

const (
	Gain1 Gain = 1
	Gain4 Gain = 4
)

// DataRate in samples per second.
type DataRate uint8

const (
	Rate20SPS DataRate = iota
	Rate90SPS
	Rate330SPS
	Rate1000SPS
)

// Mux selects the input pair.
type Mux uint8

const (
	MuxAIN0AIN1 Mux = iota
	MuxAIN2AIN3
	MuxAIN1AIN2
	MuxAIN0
	MuxAIN1
	MuxAIN2
	MuxAIN3
	MuxShorted // AINP = AINN = AVDD/2, offset calibration
)

// VRefSource selects internal or external reference.
type VRefSource uint8

const (
	VRefInt VRefSource = iota
	VRefExt
)

// ConvMode selects single-shot or continuous conversion.
type ConvMode uint8

const (
	SingleShot ConvMode = iota
	Continuous
)

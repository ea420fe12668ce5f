// Package platform opens host I2C buses and hands them out as tinygo
// drivers.I2C.
package platform

import (
	"strings"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
	"tinygo.org/x/drivers"
)

// Bus is an open I2C bus. It MUST be closed when done.
type Bus interface {
	drivers.I2C
	Close() error
}

// Opener opens a bus by name. Tools take one so tests can inject fakes.
type Opener func(name string) (Bus, error)

var _ Bus = (i2c.BusCloser)(nil)

// BusName normalises "/dev/i2c-1", "i2c-1" and "1" to the periph name "1".
func BusName(name string) string {
	n := strings.TrimSpace(name)
	n = strings.TrimPrefix(n, "/dev/")
	n = strings.TrimPrefix(n, "i2c-")
	return n
}

// OpenI2C loads the host drivers and opens the named bus. An empty name
// opens the first bus found.
func OpenI2C(name string) (Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	b, err := i2creg.Open(BusName(name))
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Nop wraps a bus that needs no closing.
func Nop(b drivers.I2C) Bus { return nopCloser{b} }

type nopCloser struct{ drivers.I2C }

func (nopCloser) Close() error { return nil }

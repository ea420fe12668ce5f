// Package i2ctest provides a scripted register-map implementation of
// tinygo drivers.I2C for package tests.
//
// Writes of the form [pointer..., data...] store data at the pointer; reads
// of the form w=[pointer...], r=[n] return the stored bytes zero-padded to n.
// Every transaction is recorded.
package i2ctest

import (
	"sync"

	"tinygo.org/x/drivers"
)

var _ drivers.I2C = (*Bus)(nil)

// Tx is one recorded transaction.
type Tx struct {
	Addr uint16
	W    []byte
	Rn   int
}

// IsWrite reports a write-only transaction.
func (t Tx) IsWrite() bool { return t.Rn == 0 }

// Hook may intercept a transaction before the register map sees it.
// Returning handled=true skips the default behaviour.
type Hook func(addr uint16, w, r []byte) (handled bool, err error)

// Bus is a fake multi-device I2C bus.
type Bus struct {
	mu    sync.Mutex
	regs  map[uint16]map[uint16][]byte
	width map[uint16]int
	log   []Tx

	// Err, when set, fails every transaction without touching state.
	Err error
	// FailWrites fails write-only transactions with the given error.
	FailWrites error
	Hook       Hook
}

// New returns an empty bus.
func New() *Bus {
	return &Bus{
		regs:  make(map[uint16]map[uint16][]byte),
		width: make(map[uint16]int),
	}
}

// SetPointerWidth sets the register pointer length (1 or 2 bytes) for addr.
func (b *Bus) SetPointerWidth(addr uint16, n int) {
	b.mu.Lock()
	b.width[addr] = n
	b.mu.Unlock()
}

// Set stores register contents for addr.
func (b *Bus) Set(addr uint16, reg uint16, data ...byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	m := b.regs[addr]
	if m == nil {
		m = make(map[uint16][]byte)
		b.regs[addr] = m
	}
	m[reg] = append([]byte(nil), data...)
}

// Get returns a copy of the register contents for addr.
func (b *Bus) Get(addr uint16, reg uint16) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.regs[addr][reg]...)
}

// Log returns a copy of all recorded transactions.
func (b *Bus) Log() []Tx {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Tx(nil), b.log...)
}

// Writes returns the write-only transactions sent to addr.
func (b *Bus) Writes(addr uint16) []Tx {
	var out []Tx
	for _, t := range b.Log() {
		if t.Addr == addr && t.IsWrite() {
			out = append(out, t)
		}
	}
	return out
}

// ClearLog forgets recorded transactions.
func (b *Bus) ClearLog() {
	b.mu.Lock()
	b.log = nil
	b.mu.Unlock()
}

func (b *Bus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	b.log = append(b.log, Tx{Addr: addr, W: append([]byte(nil), w...), Rn: len(r)})
	hook := b.Hook
	if b.Err != nil {
		err := b.Err
		b.mu.Unlock()
		return err
	}
	if len(r) == 0 && b.FailWrites != nil {
		err := b.FailWrites
		b.mu.Unlock()
		return err
	}
	b.mu.Unlock()

	if hook != nil {
		if handled, err := hook(addr, w, r); handled {
			return err
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	n := b.width[addr]
	if n == 0 {
		n = 1
	}
	if len(w) < n {
		for i := range r {
			r[i] = 0
		}
		return nil
	}
	var ptr uint16
	for _, c := range w[:n] {
		ptr = ptr<<8 | uint16(c)
	}
	if len(r) > 0 {
		src := b.regs[addr][ptr]
		for i := range r {
			if i < len(src) {
				r[i] = src[i]
			} else {
				r[i] = 0
			}
		}
		return nil
	}
	if len(w) > n {
		m := b.regs[addr]
		if m == nil {
			m = make(map[uint16][]byte)
			b.regs[addr] = m
		}
		m[ptr] = append([]byte(nil), w[n:]...)
	}
	return nil
}

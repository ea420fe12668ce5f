// Package mathx holds the generic range check the drivers use to validate
// addresses, register fields and time components.
package mathx

import "golang.org/x/exp/constraints"

// Between reports lo <= v && v <= hi. The bounds may be given in either
// order.
func Between[T constraints.Ordered](v, lo, hi T) bool {
	if hi < lo {
		lo, hi = hi, lo
	}
	return v >= lo && v <= hi
}

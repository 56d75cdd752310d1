// Package checked provides overflow-checked unsigned 64-bit arithmetic.
// Every operation fails with ErrArithmetic instead of wrapping or panicking.
package checked

import (
	"errors"
	"math/bits"
)

// ErrArithmetic indicates an overflow, underflow or division by zero.
var ErrArithmetic = errors.New("checked: arithmetic error")

// Add returns a + b.
func Add(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrArithmetic
	}
	return sum, nil
}

// Sub returns a - b.
func Sub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, ErrArithmetic
	}
	return diff, nil
}

// Mul returns a * b.
func Mul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrArithmetic
	}
	return lo, nil
}

// Div returns a / b, floored.
func Div(a, b uint64) (uint64, error) {
	if b == 0 {
		return 0, ErrArithmetic
	}
	return a / b, nil
}

// MulDiv returns a * b / d. The product must fit in 64 bits, matching
// checked_mul followed by checked_div on-chain.
func MulDiv(a, b, d uint64) (uint64, error) {
	p, err := Mul(a, b)
	if err != nil {
		return 0, err
	}
	return Div(p, d)
}

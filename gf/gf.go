// Package gf implements GF(2^8) arithmetic over the primitive polynomial
// x^8+x^4+x^3+x^2+1 (0x11D): the hot path for every byte the rlnc package
// processes. Multiplication is table-driven and branch-free on element
// value, so it carries no data-dependent timing on the symbols it codes.
package gf

import "github.com/perfogic/rlnc-sub000/internal/rlncerr"

// Add returns a XOR b, the field's addition (and its own inverse: Add is
// also subtraction).
func Add(a, b byte) byte {
	return a ^ b
}

// Sub is an alias for Add: in GF(2^n), subtraction and addition coincide.
func Sub(a, b byte) byte {
	return a ^ b
}

// Mul returns a*b in GF(2^8), a single table lookup.
func Mul(a, b byte) byte {
	return mulTable[a][b]
}

// Inv returns the multiplicative inverse of a. a must be non-zero; Inv(0)
// fails with a rlncerr.InvalidField error since zero has no inverse.
func Inv(a byte) (byte, error) {
	if a == 0 {
		return 0, rlncerr.New(rlncerr.InvalidField, "gf: inverse of zero is undefined")
	}
	return expTable[255-int(logTable[a])], nil
}

// ErrInvalidField is the sentinel Inv(0) fails with; compare via errors.Is.
var ErrInvalidField = rlncerr.ErrInvalidField

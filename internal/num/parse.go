// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package num

import (
	"math"
	"math/bits"
)

// Native powers of ten that are exactly representable in binary64.
var exactPow10 = [23]float64{
	1e0, 1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9, 1e10, 1e11,
	1e12, 1e13, 1e14, 1e15, 1e16, 1e17, 1e18, 1e19, 1e20, 1e21, 1e22,
}

var intPow10 = [20]uint64{
	1, 10, 100, 1000, 10000, 100000, 1000000, 10000000, 100000000,
	1000000000, 10000000000, 100000000000, 1000000000000, 10000000000000,
	100000000000000, 1000000000000000, 10000000000000000,
	100000000000000000, 1000000000000000000, 10000000000000000000,
}

// Pow10Int returns 10^exp as an integer for 0 ≤ exp ≤ 19.
func Pow10Int(exp int) uint64 { return intPow10[exp] }

// decimalLen reports the number of decimal digits in v, at least 1.
func decimalLen(v uint64) int {
	n := 1
	for v >= 10 {
		v /= 10
		n++
	}
	return n
}

// Pow10 returns the correctly-rounded value of sig · 10^exp.
// Magnitudes that round below the smallest denormal collapse to zero
// and magnitudes beyond the largest finite value saturate to +Inf; the
// caller applies the sign.
func Pow10(sig uint64, exp int) float64 {
	// Fast path: both operands exact, one native rounding.
	if exp >= -22 && exp <= 22 && (sig <= 1<<53 || sig&0xFFF == 0) {
		d := float64(sig)
		if exp < 0 {
			return d / exactPow10[-exp]
		}
		return d * exactPow10[exp]
	}
	if sig == 0 {
		return 0.0
	}
	digits := decimalLen(sig)
	if exp+digits <= -324 {
		return 0.0
	}
	if exp+digits >= 310 {
		return math.Inf(1)
	}

	// Trailing decimal zeros shift exactly into the exponent, keeping
	// divisibility checks cheap on the slow path.
	for sig%10 == 0 {
		sig /= 10
		exp++
	}

	m2, e2, exact := scaleByPow10(sig, exp)
	ef := efloat{mant: m2, exp: e2}
	ef.normalize(11)
	return ef.pack(!exact)
}

// scaleByPow10 converts sig·10^exp into a binary mantissa of 54 to 56
// bits with its exponent, using a single 64×128 multiply against the
// power tables.  exact reports whether m·2^e is precisely the input
// value; ties can only be broken to even when the product is exact.
func scaleByPow10(sig uint64, exp int) (m uint64, e int, exact bool) {
	lg := 63 - bits.LeadingZeros64(sig)
	if exp >= 0 {
		e = lg + exp + pow5Bits(exp) - 1 - (mantBits + 2)
		j := e - exp - pow5Bits(exp) + 125
		m = mulShift128(sig, pow5Table[exp], uint(j-64))
		// The 5^exp factor only adds bits; inexact only when nonzero
		// low bits of sig fall below the kept window.
		exact = e < exp || (e-exp < 64 && sig&(1<<uint(e-exp)-1) == 0)
	} else {
		q := -exp
		e = lg + exp - pow5Bits(q) - (mantBits + 2)
		j := e - exp + pow5Bits(q) - 1 + 125
		m = mulShift128(sig, pow5InvTable[q], uint(j-64))
		exact = divisibleByPow5(sig, q)
		if s := q + e; exact && s > 0 {
			// The shift dropped the low s bits of sig/5^q.
			k := sig
			for i := 0; i < q; i++ {
				k /= 5
			}
			exact = s < 64 && k&(1<<uint(s)-1) == 0
		}
	}
	return m, e, exact
}

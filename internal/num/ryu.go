// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package num

import "math"

// AppendFloat writes the shortest decimal representation of f that
// parses back to exactly the same bit pattern, and returns the extended
// buffer.  Zeroes keep their sign ("0", "-0").  The caller must ensure
// f is finite; infinities and NaN have no decimal form.
func AppendFloat(buf []byte, f float64) []byte {
	if f == 0 {
		if math.Signbit(f) {
			return append(buf, '-', '0')
		}
		return append(buf, '0')
	}
	if math.Signbit(f) {
		return appendPositive(append(buf, '-'), -f)
	}
	return appendPositive(buf, f)
}

func appendPositive(buf []byte, f float64) []byte {
	bin := explode(f)
	even := bin.mant&1 == 0

	// Widen so the adjacent representable values share one exponent.
	// The lower gap halves only at a binade boundary above the smallest
	// normal exponent.
	minusShift := uint64(1)
	if bin.mant == impliedBit && bin.exp > 1-expBias {
		minusShift = 0
	}
	mid := bin.mant << 2
	plus := mid + 2
	minus := mid - 1 - minusShift
	e2 := bin.exp - 2

	var dMinus, dMid, dPlus uint64
	var e10 int
	midTrailing, minusTrailing := false, false
	if e2 >= 0 {
		// floor(e2 · log10(2)), via 78913/2^18 ≈ log10(2), taken one
		// lower for e2 > 3.
		e10 = int(uint32(e2) * 78913 >> 18)
		if e2 > 3 {
			e10--
		}
		i := e10 - e2 + pow5Bits(e10) - 1 + 125
		shift := uint(i - 64)

		dMinus = mulShift128(minus, pow5InvTable[e10], shift)
		dMid = mulShift128(mid, pow5InvTable[e10], shift)
		dPlus = mulShift128(plus, pow5InvTable[e10], shift)

		if e10 <= 21 {
			if mid%5 == 0 {
				midTrailing = divisibleByPow5(mid, e10)
			} else if even {
				minusTrailing = divisibleByPow5(minus, e10)
			} else if divisibleByPow5(plus, e10) {
				dPlus--
			}
		}
	} else {
		// floor(-e2 · log10(5)), via 732923/2^20 ≈ log10(5), taken one
		// lower for e2 < -1.
		q := int(uint32(-e2) * 732923 >> 20)
		if e2 < -1 {
			q--
		}
		e10 = q + e2
		i := -e10
		j := q - pow5Bits(i) + 125
		shift := uint(j - 64)

		dMinus = mulShift128(minus, pow5Table[i], shift)
		dMid = mulShift128(mid, pow5Table[i], shift)
		dPlus = mulShift128(plus, pow5Table[i], shift)

		if q <= 1 {
			midTrailing = true
			if even {
				minusTrailing = minusShift == 1
			} else {
				dPlus--
			}
		} else if q < 63 {
			midTrailing = mid&(1<<uint(q-1)-1) == 0
		}
	}

	out, outExp := shortestOf(dMinus, dMid, dPlus, e10, even, minusTrailing, midTrailing)

	var digits [20]byte
	start := AppendUint(digits[:], out)
	return conformalize(buf, digits[start:], outExp)
}

// shortestOf removes digits from the decimal interval (minus, plus]
// until removing another would leave no representation inside it, and
// returns the selected digits with the adjusted exponent.
func shortestOf(minus, mid, plus uint64, exp int, even, minusTrailing, midTrailing bool) (uint64, int) {
	if minusTrailing || midTrailing {
		lastRemoved := uint64(0)
		for plus/10 > minus/10 {
			minusTrailing = minusTrailing && minus%10 == 0
			midTrailing = midTrailing && lastRemoved == 0
			lastRemoved = mid % 10
			minus /= 10
			mid /= 10
			plus /= 10
			exp++
		}
		if minusTrailing {
			for minus%10 == 0 {
				lastRemoved = mid % 10
				minus /= 10
				mid /= 10
				plus /= 10
				midTrailing = midTrailing && lastRemoved == 0
				exp++
			}
			if midTrailing && lastRemoved == 5 && mid%2 == 0 {
				// Exactly halfway with an even mantissa: round down.
				lastRemoved = 4
			}
		}
		if (mid == minus && (!even || !minusTrailing)) || lastRemoved >= 5 {
			mid++
		}
		return mid, exp
	}

	roundUp := false
	if plus/100 > minus/100 {
		roundUp = mid%100 >= 50
		minus /= 100
		mid /= 100
		plus /= 100
		exp += 2
	}
	for plus/10 > minus/10 {
		roundUp = mid%10 >= 5
		minus /= 10
		mid /= 10
		plus /= 10
		exp++
	}
	if mid == minus || roundUp {
		mid++
	}
	return mid, exp
}

// conformalize renders decimal digits scaled by 10^exp.  With n digits
// and total = n+exp, the form is: plain integer when exp ≥ 0 and
// total ≤ 19, pointed decimal when exp < 0 and 0 < total ≤ 19, leading
// "0." form when -6 < total ≤ 0, and scientific notation otherwise.
func conformalize(buf []byte, digits []byte, exp int) []byte {
	n := len(digits)
	total := n + exp
	if total <= 19 {
		switch {
		case exp >= 0:
			buf = append(buf, digits...)
			for i := 0; i < exp; i++ {
				buf = append(buf, '0')
			}
			return buf
		case total > 0:
			buf = append(buf, digits[:total]...)
			buf = append(buf, '.')
			return append(buf, digits[total:]...)
		case total > -6:
			buf = append(buf, '0', '.')
			for i := 0; i < -total; i++ {
				buf = append(buf, '0')
			}
			return append(buf, digits...)
		}
	}
	var etmp [4]byte
	if n == 1 {
		buf = append(buf, digits[0], 'e')
		return append(buf, etmp[:writeSmallInt(etmp[:], exp)]...)
	}
	buf = append(buf, digits[0], '.')
	buf = append(buf, digits[1:]...)
	buf = append(buf, 'e')
	return append(buf, etmp[:writeSmallInt(etmp[:], total-1)]...)
}

// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package num

// Pairs of decimal digits for 00 through 99, each pair stored with its
// ones digit first so values can be written back to front.
const digitPairs = "00102030405060708090011121314151617181910212223242526272829203132333435363738393041424344454647484940515253545556575859506162636465666768696071727374757677787970818283848586878889809192939495969798999"

// AppendUint writes the decimal form of v into buf ending at the last
// byte, and returns the index of the first digit.  The buffer must have
// room for 20 digits.
func AppendUint(buf []byte, v uint64) int {
	i := len(buf)
	for v >= 100 {
		p := (v % 100) * 2
		v /= 100
		i--
		buf[i] = digitPairs[p]
		i--
		buf[i] = digitPairs[p+1]
	}
	if v < 10 {
		i--
		buf[i] = '0' + byte(v)
		return i
	}
	p := v * 2
	i--
	buf[i] = digitPairs[p]
	i--
	buf[i] = digitPairs[p+1]
	return i
}

// AppendInt is AppendUint for signed values.  The magnitude of the most
// negative value is taken in unsigned arithmetic so it cannot overflow.
func AppendInt(buf []byte, v int64) int {
	if v >= 0 {
		return AppendUint(buf, uint64(v))
	}
	i := AppendUint(buf, 0-uint64(v))
	i--
	buf[i] = '-'
	return i
}

// FormatInt renders v as decimal ASCII text.
func FormatInt(v int64) []byte {
	var buf [20]byte
	i := AppendInt(buf[:], v)
	out := make([]byte, 20-i)
	copy(out, buf[i:])
	return out
}

// writeSmallInt formats a value in ±999 into buf and reports the number
// of bytes written.  Used for decimal exponents.
func writeSmallInt(buf []byte, v int) int {
	if v < 0 {
		buf[0] = '-'
		return 1 + writeSmallInt(buf[1:], -v)
	}
	switch {
	case v >= 100:
		buf[0] = '0' + byte(v/100)
		v %= 100
		buf[1] = '0' + byte(v/10)
		buf[2] = '0' + byte(v%10)
		return 3
	case v >= 10:
		buf[0] = '0' + byte(v/10)
		buf[1] = '0' + byte(v%10)
		return 2
	default:
		buf[0] = '0' + byte(v)
		return 1
	}
}

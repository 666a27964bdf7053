// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape encodes strings for inclusion in JSON documents.
package escape

import "go4.org/mem"

var controlEsc = [...]byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	' ':  ' ', // sentinel
}

// Append appends the JSON escaping of src to dst and returns the
// extended slice.  The enclosing quotation marks are not included.
// Bytes outside the ASCII range pass through unchanged, so the output
// is valid exactly when src is valid UTF-8.
func Append(dst []byte, src mem.RO) []byte {
	run := 0
	for i := 0; i < src.Len(); i++ {
		c := src.At(i)
		if c >= ' ' && c != '"' && c != '\\' {
			continue
		}
		if i > run {
			dst = mem.Append(dst, src.SliceFrom(run).SliceTo(i-run))
		}
		run = i + 1

		switch {
		case c == '"' || c == '\\':
			dst = append(dst, '\\', c)
		case controlEsc[c] != 0:
			dst = append(dst, '\\', controlEsc[c])
		default:
			dst = append(dst, '\\', 'u', '0', '0', hexUpper(c>>4), hexUpper(c&0xF))
		}
	}
	if src.Len() > run {
		dst = mem.Append(dst, src.SliceFrom(run))
	}
	return dst
}

func hexUpper(c byte) byte {
	if c < 10 {
		return c + '0'
	}
	return c - 10 + 'A'
}

// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"fmt"
	"io"
	"math"

	"github.com/creachadair/jstream/internal/num"
)

// DefaultBufferSize is the size of the input and output buffers used by
// parsers and generators unless overridden at construction.
const DefaultBufferSize = 32768

// A Parser reads a stream of structural tokens from JSON input.  Each
// call to Next advances the parser to the next token of the document
// and reports it, along with any scalar payload recoverable through the
// typed accessors.  A parser is not safe for concurrent use, and after
// any method reports an error the parser is poisoned: every subsequent
// call to Next, NextValue, or SkipChildren repeats that error.
type Parser struct {
	r        io.Reader
	buf      []byte
	off, n   int
	consumed int64 // bytes drained from r in previous buffer fills

	tok   Token
	ival  int64
	fval  float64
	str   []byte // payload for String tokens
	name  []byte // payload for FieldName tokens
	stack []Token
	err   error
}

// NewParser constructs a parser that consumes input from r using a
// buffer of DefaultBufferSize bytes.
func NewParser(r io.Reader) *Parser { return NewParserSize(r, DefaultBufferSize) }

// NewParserSize constructs a parser that consumes input from r using a
// buffer of size bytes.  Sizes below 64 bytes are rounded up.
func NewParserSize(r io.Reader, size int) *Parser {
	if size < 64 {
		size = 64
	}
	return &Parser{
		r:     r,
		buf:   make([]byte, size),
		str:   make([]byte, 0, size),
		name:  make([]byte, 0, 32),
		stack: make([]Token, 0, 32),
	}
}

// Current returns the token the parser is positioned on, NotAvailable
// before the first call to Next and after the input is exhausted.
func (p *Parser) Current() Token { return p.tok }

// Depth reports the number of unclosed containers enclosing the current
// position.
func (p *Parser) Depth() int { return len(p.stack) }

// Next advances to the next token of the input.  At the end of input
// with all containers closed it returns NotAvailable with a nil error.
func (p *Parser) Next() (Token, error) {
	if p.err != nil {
		return NotAvailable, p.err
	}
	tok, err := p.next()
	if err != nil {
		p.err = err
		p.tok = NotAvailable
		return NotAvailable, err
	}
	p.tok = tok
	return tok, nil
}

// NextValue advances past any field name to the next value, container
// boundary, or end of input, and reports the token found.
func (p *Parser) NextValue() (Token, error) {
	for {
		tok, err := p.Next()
		if err != nil || tok != FieldName {
			return tok, err
		}
	}
}

// SkipChildren advances past the end of the container the parser is
// positioned on.  If the current token is not StartObject or
// StartArray, it does nothing.
func (p *Parser) SkipChildren() error {
	var open, end Token
	switch p.tok {
	case StartObject:
		open, end = StartObject, EndObject
	case StartArray:
		open, end = StartArray, EndArray
	default:
		return p.err
	}
	depth := 1
	for depth > 0 {
		tok, err := p.Next()
		if err != nil {
			return err
		}
		switch tok {
		case open:
			depth++
		case end:
			depth--
		case NotAvailable:
			return nil
		}
	}
	return nil
}

// Int returns the value of the current number token.  Float values are
// truncated toward zero.
func (p *Parser) Int() (int64, error) {
	switch p.tok {
	case Integer:
		return p.ival, nil
	case Float:
		return int64(p.fval), nil
	}
	return 0, &TypeError{Have: p.tok.String(), Want: "integer"}
}

// Float returns the value of the current number token.  Integer values
// are converted, with values beyond 2^53 losing precision.
func (p *Parser) Float() (float64, error) {
	switch p.tok {
	case Float:
		return p.fval, nil
	case Integer:
		return float64(p.ival), nil
	}
	return 0, &TypeError{Have: p.tok.String(), Want: "number"}
}

// Bool returns the value of the current True or False token.
func (p *Parser) Bool() (bool, error) {
	switch p.tok {
	case True:
		return true, nil
	case False:
		return false, nil
	}
	return false, &TypeError{Have: p.tok.String(), Want: "boolean"}
}

// Text returns the decoded payload of the current String or FieldName
// token.
func (p *Parser) Text() (string, error) {
	switch p.tok {
	case String:
		return string(p.str), nil
	case FieldName:
		return string(p.name), nil
	}
	return "", &TypeError{Have: p.tok.String(), Want: "string"}
}

// Name returns the most recent field name.  The value is meaningful
// while the current token is FieldName or the value that follows it.
func (p *Parser) Name() string { return string(p.name) }

// next implements the per-call token state machine.
func (p *Parser) next() (Token, error) {
	afterComma := false
	if p.tok == FieldName {
		c, ok := p.nextSignificant()
		if !ok {
			return 0, p.syntaxf("unexpected end of input after field name")
		} else if c != ':' {
			return 0, p.syntaxf("got %q, want %q after field name", c, ':')
		}
	} else if len(p.stack) != 0 && p.tok != StartArray && p.tok != StartObject {
		// Inside a container, a completed value must be followed by a
		// separating comma or the matching close.
		c, ok := p.nextSignificant()
		if !ok {
			return 0, p.unterminated()
		}
		switch c {
		case ',':
			afterComma = true
		case ']':
			return p.closeContainer(StartArray, EndArray)
		case '}':
			return p.closeContainer(StartObject, EndObject)
		default:
			return 0, p.syntaxf("got %q, want %q or close of %v", c, ',', p.stack[len(p.stack)-1])
		}
	}

	if p.tok != FieldName && len(p.stack) != 0 && p.stack[len(p.stack)-1] == StartObject {
		// Object position: expect a field name, or the close of an
		// empty object.
		c, ok := p.nextSignificant()
		if !ok {
			return 0, p.unterminated()
		}
		switch {
		case c == '"':
			if err := p.parseString(&p.name); err != nil {
				return 0, err
			}
			return FieldName, nil
		case c == '}' && !afterComma:
			return p.closeContainer(StartObject, EndObject)
		case c == '}':
			return 0, p.syntaxf("trailing comma before %q", c)
		}
		return 0, p.syntaxf("got %q, want quoted field name", c)
	}

	c, ok := p.nextSignificant()
	if !ok {
		if len(p.stack) != 0 {
			return 0, p.unterminated()
		}
		return NotAvailable, nil
	}
	switch c {
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return p.parseNumber(c)
	case '"':
		if err := p.parseString(&p.str); err != nil {
			return 0, err
		}
		return String, nil
	case 't':
		return p.parseLiteral("rue", True)
	case 'f':
		return p.parseLiteral("alse", False)
	case 'n':
		return p.parseLiteral("ull", Null)
	case '{':
		p.stack = append(p.stack, StartObject)
		return StartObject, nil
	case '[':
		p.stack = append(p.stack, StartArray)
		return StartArray, nil
	case ']':
		if afterComma {
			return 0, p.syntaxf("trailing comma before %q", c)
		}
		if p.tok == StartArray {
			return p.closeContainer(StartArray, EndArray)
		}
		return 0, p.syntaxf("unexpected %q", c)
	default:
		return 0, p.syntaxf("unexpected %q", c)
	}
}

func (p *Parser) closeContainer(open, close Token) (Token, error) {
	if len(p.stack) == 0 || p.stack[len(p.stack)-1] != open {
		return 0, p.syntaxf("unexpected close of %v", open)
	}
	p.stack = p.stack[:len(p.stack)-1]
	return close, nil
}

func (p *Parser) unterminated() error {
	if p.stack[len(p.stack)-1] == StartObject {
		return p.syntaxf("unterminated object")
	}
	return p.syntaxf("unterminated array")
}

// parseLiteral consumes the remaining bytes of a bare constant and
// verifies it ends at a delimiter.
func (p *Parser) parseLiteral(rest string, tok Token) (Token, error) {
	for i := 0; i < len(rest); i++ {
		c, ok := p.readByte()
		if !ok || c != rest[i] {
			return 0, p.syntaxf("invalid literal")
		}
	}
	if c, ok := p.peekByte(); ok && !isDelimiter(c) {
		return 0, p.syntaxf("got %q, want delimiter after %v", c, tok)
	}
	return tok, nil
}

// parseString decodes a string body into *dst, the opening quote having
// been consumed.  Runs of unescaped bytes are copied in bulk.
func (p *Parser) parseString(dst *[]byte) error {
	buf := (*dst)[:0]
	defer func() { *dst = buf }()
	for {
		run := p.off
		var c byte
		for p.off < p.n {
			c = p.buf[p.off]
			if c < ' ' || c == '"' || c == '\\' {
				break
			}
			p.off++
		}
		if p.off > run {
			buf = append(buf, p.buf[run:p.off]...)
		}
		if p.off >= p.n {
			if !p.refill() {
				return p.syntaxf("unterminated string")
			}
			continue
		}

		p.off++
		switch {
		case c == '"':
			if c, ok := p.peekByte(); ok && !isDelimiter(c) {
				return p.syntaxf("got %q, want delimiter after string", c)
			}
			return nil
		case c == '\\':
			var err error
			buf, err = p.readEscape(buf)
			if err != nil {
				return err
			}
		default:
			return p.syntaxf("unescaped control %q in string", c)
		}
	}
}

// readEscape decodes one backslash escape, the backslash having been
// consumed, and appends its expansion to buf.
func (p *Parser) readEscape(buf []byte) ([]byte, error) {
	c, ok := p.readByte()
	if !ok {
		return buf, p.syntaxf("unterminated string")
	}
	switch c {
	case '"', '\\', '/':
		return append(buf, c), nil
	case 'b':
		return append(buf, '\b'), nil
	case 'f':
		return append(buf, '\f'), nil
	case 'n':
		return append(buf, '\n'), nil
	case 'r':
		return append(buf, '\r'), nil
	case 't':
		return append(buf, '\t'), nil
	case 'u':
		code, err := p.readHex4()
		if err != nil {
			return buf, err
		}
		if code >= 0xD800 && code <= 0xDFFF {
			return p.readSurrogatePair(buf, code)
		}
		return appendRune(buf, code), nil
	}
	return buf, p.syntaxf("invalid escape %q", c)
}

// readSurrogatePair completes a UTF-16 surrogate pair whose first
// escape decoded to hi, which must be a high surrogate immediately
// followed by an escaped low surrogate.
func (p *Parser) readSurrogatePair(buf []byte, hi uint32) ([]byte, error) {
	if hi >= 0xDC00 {
		return buf, p.syntaxf("unpaired low surrogate %04X", hi)
	}
	if c, ok := p.readByte(); !ok || c != '\\' {
		return buf, p.syntaxf("unpaired high surrogate %04X", hi)
	}
	if c, ok := p.readByte(); !ok || c != 'u' {
		return buf, p.syntaxf("unpaired high surrogate %04X", hi)
	}
	lo, err := p.readHex4()
	if err != nil {
		return buf, err
	}
	if lo < 0xDC00 || lo > 0xDFFF {
		return buf, p.syntaxf("invalid low surrogate %04X", lo)
	}
	code := 0x10000 + (hi-0xD800)<<10 + (lo - 0xDC00)
	return appendRune(buf, code), nil
}

func (p *Parser) readHex4() (uint32, error) {
	var code uint32
	for i := 0; i < 4; i++ {
		c, ok := p.readByte()
		if !ok {
			return 0, p.syntaxf("unterminated Unicode escape")
		}
		switch {
		case c >= '0' && c <= '9':
			code = code<<4 + uint32(c-'0')
		case c >= 'a' && c <= 'f':
			code = code<<4 + uint32(c-'a'+10)
		case c >= 'A' && c <= 'F':
			code = code<<4 + uint32(c-'A'+10)
		default:
			return 0, p.syntaxf("invalid hex digit %q", c)
		}
	}
	return code, nil
}

// appendRune encodes a code point as UTF-8.  Inputs are at most
// 0x10FFFF by construction.
func appendRune(buf []byte, code uint32) []byte {
	switch {
	case code < 0x80:
		return append(buf, byte(code))
	case code < 0x800:
		return append(buf, 0xC0|byte(code>>6), 0x80|byte(code&0x3F))
	case code < 0x10000:
		return append(buf, 0xE0|byte(code>>12), 0x80|byte(code>>6&0x3F), 0x80|byte(code&0x3F))
	}
	return append(buf, 0xF0|byte(code>>18), 0x80|byte(code>>12&0x3F), 0x80|byte(code>>6&0x3F), 0x80|byte(code&0x3F))
}

const maxSigDiv10 = math.MaxUint64 / 10

// parseNumber lexes a number beginning with c into a 64-bit significand
// and a decimal exponent, then classifies it as Integer or Float.
// Digits beyond the significand's capacity are rounded half to even
// into it, which marks the value irreversibly as a Float.
func (p *Parser) parseNumber(c byte) (Token, error) {
	neg := c == '-'
	if neg {
		var ok bool
		c, ok = p.readByte()
		if !ok || !isDigit(c) {
			return 0, p.syntaxf("no digits in number")
		}
	}

	var sig uint64
	var exp int
	var rounded, tie, hasFrac, plain bool
	plain = true

	// A leading zero must stand alone in the integer part.
	if c == '0' {
		if c, ok := p.peekByte(); ok && isDigit(c) {
			return 0, p.syntaxf("extra leading zeroes")
		}
	} else {
		sig = uint64(c - '0')
	}
	for {
		c, ok := p.peekByte()
		if !ok || !isDigit(c) {
			break
		}
		p.off++
		d := uint64(c - '0')
		if !rounded && (sig < maxSigDiv10 || (sig == maxSigDiv10 && d <= 5)) {
			sig = sig*10 + d
		} else {
			sig, exp, tie = roundDigit(sig, exp, d, rounded, tie)
			rounded = true
			exp++
		}
	}

	if c, ok := p.peekByte(); ok && c == '.' {
		p.off++
		plain, hasFrac = false, true
		nd := 0
		for {
			c, ok := p.peekByte()
			if !ok || !isDigit(c) {
				break
			}
			p.off++
			nd++
			d := uint64(c - '0')
			if !rounded && (sig < maxSigDiv10 || (sig == maxSigDiv10 && d <= 5)) {
				sig = sig*10 + d
				exp--
			} else {
				sig, exp, tie = roundDigit(sig, exp, d, rounded, tie)
				rounded = true
			}
		}
		if nd == 0 {
			return 0, p.syntaxf("no digits after decimal point")
		}
	}

	if c, ok := p.peekByte(); ok && (c == 'e' || c == 'E') {
		p.off++
		plain = false
		esign := 1
		if c, ok := p.peekByte(); ok && (c == '+' || c == '-') {
			p.off++
			if c == '-' {
				esign = -1
			}
		}
		c, ok := p.peekByte()
		if !ok || !isDigit(c) {
			return 0, p.syntaxf("no digits in exponent")
		}
		e := 0
		for {
			c, ok := p.peekByte()
			if !ok || !isDigit(c) {
				break
			}
			p.off++
			if e < 100000 {
				e = e*10 + int(c-'0')
			}
		}
		exp += esign * e
	}

	if c, ok := p.peekByte(); ok && !isDelimiter(c) {
		return 0, p.syntaxf("got %q, want delimiter after number", c)
	}

	if tie {
		// The dropped tail was exactly half; round to even.
		if sig&1 == 1 {
			sig, exp = incSig(sig, exp)
		}
	}

	limit := uint64(math.MaxInt64)
	if neg {
		limit = 1 << 63
	}
	if !rounded && !hasFrac {
		if plain && sig <= limit {
			p.ival = int64(-sig)
			if !neg {
				p.ival = int64(sig)
			}
			return Integer, nil
		}
		if exp > 0 && exp < 20 && sig <= limit/num.Pow10Int(exp) {
			scaled := sig * num.Pow10Int(exp)
			p.ival = int64(-scaled)
			if !neg {
				p.ival = int64(scaled)
			}
			return Integer, nil
		}
	}
	p.fval = num.Pow10(sig, exp)
	if neg {
		p.fval = -p.fval
	}
	return Float, nil
}

// roundDigit folds a dropped digit d into the significand, rounding
// half to even.  A dropped 5 with nothing after it is held as a pending
// tie until a later nonzero digit or the end of the number resolves it.
func roundDigit(sig uint64, exp int, d uint64, rounded, tie bool) (uint64, int, bool) {
	if !rounded {
		switch {
		case d > 5:
			sig, exp = incSig(sig, exp)
		case d == 5:
			tie = true
		}
		return sig, exp, tie
	}
	if tie && d > 0 {
		sig, exp = incSig(sig, exp)
		tie = false
	}
	return sig, exp, tie
}

// incSig increments the significand, folding a carry out of the 64-bit
// range back into the exponent.
func incSig(sig uint64, exp int) (uint64, int) {
	if sig == math.MaxUint64 {
		return sig/10 + 1, exp + 1
	}
	return sig + 1, exp
}

func (p *Parser) refill() bool {
	p.consumed += int64(p.n)
	p.off = 0
	n, _ := p.r.Read(p.buf)
	p.n = n
	// Read failures are collapsed into end of input; a truncated
	// document surfaces as a syntax error from the caller.
	return n > 0
}

func (p *Parser) readByte() (byte, bool) {
	if p.off >= p.n {
		if !p.refill() {
			return 0, false
		}
	}
	c := p.buf[p.off]
	p.off++
	return c, true
}

func (p *Parser) peekByte() (byte, bool) {
	if p.off >= p.n {
		if !p.refill() {
			return 0, false
		}
	}
	return p.buf[p.off], true
}

func (p *Parser) nextSignificant() (byte, bool) {
	for {
		c, ok := p.readByte()
		if !ok {
			return 0, false
		}
		if !isSpace(c) {
			return c, true
		}
	}
}

func (p *Parser) pos() int64 { return p.consumed + int64(p.off) }

func (p *Parser) syntaxf(msg string, args ...any) error {
	return &SyntaxError{Offset: p.pos(), Message: fmt.Sprintf(msg, args...)}
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\r' || c == '\n' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isDelimiter(c byte) bool {
	return c == ',' || c == ':' || c == ']' || c == '}' || isSpace(c)
}

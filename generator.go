// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"errors"
	"io"
	"math"

	"github.com/creachadair/jstream/internal/escape"
	"github.com/creachadair/jstream/internal/num"

	"go4.org/mem"
)

// ErrNonFinite is reported when a float with no JSON representation is
// written.
var ErrNonFinite = errors.New("non-finite number")

// A Generator writes a JSON document to an output stream, verifying as
// it goes that the emitted tokens form a syntactically valid document.
// Output is buffered; the caller must invoke Flush or Close once the
// document is complete.  A generator is not safe for concurrent use,
// and after any method reports an error the generator is poisoned:
// every subsequent call repeats that error.
type Generator struct {
	w      io.Writer
	buf    []byte
	n      int
	tok    Token
	stack  []Token
	indent []byte // newline plus one tab per open container
	pretty bool
	tmp    []byte
	err    error
}

// NewGenerator constructs a generator that writes to w using a buffer
// of DefaultBufferSize bytes.
func NewGenerator(w io.Writer) *Generator { return NewGeneratorSize(w, DefaultBufferSize) }

// NewGeneratorSize constructs a generator that writes to w using a
// buffer of size bytes.  Sizes below 64 bytes are rounded up.
func NewGeneratorSize(w io.Writer, size int) *Generator {
	if size < 64 {
		size = 64
	}
	return &Generator{
		w:      w,
		buf:    make([]byte, size),
		stack:  make([]Token, 0, 32),
		indent: append(make([]byte, 0, 33), '\n'),
	}
}

// SetPretty configures the generator to write multi-line indented
// output (true) or compact output (false).  It may only be usefully
// changed before the first write.
func (g *Generator) SetPretty(ok bool) { g.pretty = ok }

// Reset prepares the generator to write another top-level document to
// the same stream.  It fails if a container is still open.
func (g *Generator) Reset() error {
	if g.err != nil {
		return g.err
	} else if len(g.stack) != 0 {
		return g.fail(structErrorf("reset inside an open %v", g.stack[len(g.stack)-1]))
	}
	g.tok = NotAvailable
	return nil
}

// Depth reports the number of open containers.
func (g *Generator) Depth() int { return len(g.stack) }

// WriteInt writes an integer value.
func (g *Generator) WriteInt(v int64) error {
	if err := g.prepareValue(Integer); err != nil {
		return err
	}
	var buf [20]byte
	i := num.AppendInt(buf[:], v)
	g.writeRaw(buf[i:])
	return g.err
}

// WriteFloat writes a floating-point value using its shortest decimal
// form.  Infinities and NaN have no JSON encoding and are rejected.
func (g *Generator) WriteFloat(v float64) error {
	if g.err != nil {
		return g.err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return g.fail(ErrNonFinite)
	}
	if err := g.prepareValue(Float); err != nil {
		return err
	}
	g.tmp = num.AppendFloat(g.tmp[:0], v)
	g.writeRaw(g.tmp)
	return g.err
}

// WriteBool writes true or false.
func (g *Generator) WriteBool(v bool) error {
	tok, text := True, "true"
	if !v {
		tok, text = False, "false"
	}
	if err := g.prepareValue(tok); err != nil {
		return err
	}
	g.writeString(text)
	return g.err
}

// WriteNull writes the null constant.
func (g *Generator) WriteNull() error {
	if err := g.prepareValue(Null); err != nil {
		return err
	}
	g.writeString("null")
	return g.err
}

// WriteString writes a string value.
func (g *Generator) WriteString(s string) error {
	if err := g.prepareValue(String); err != nil {
		return err
	}
	g.encodeString(s)
	return g.err
}

// WriteFieldName writes the key of an object member.  Each member value
// must be preceded by exactly one field name.
func (g *Generator) WriteFieldName(name string) error {
	if g.err != nil {
		return g.err
	}
	if len(g.stack) == 0 || g.stack[len(g.stack)-1] != StartObject {
		return g.fail(structErrorf("field name outside of an object"))
	} else if g.tok == FieldName {
		return g.fail(structErrorf("field name after field name"))
	}
	if g.tok != StartObject {
		g.writeByte(',')
	}
	if g.pretty {
		g.writeRaw(g.indent)
	}
	g.tok = FieldName
	g.encodeString(name)
	if g.pretty {
		g.writeString(" : ")
	} else {
		g.writeByte(':')
	}
	return g.err
}

// WriteField writes an object member as a field name followed by a
// value derived from the dynamic type of v, which must be a string,
// bool, int, int64, float64, or nil.
func (g *Generator) WriteField(name string, v any) error {
	if err := g.WriteFieldName(name); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		return g.WriteNull()
	case bool:
		return g.WriteBool(t)
	case int:
		return g.WriteInt(int64(t))
	case int64:
		return g.WriteInt(t)
	case float64:
		return g.WriteFloat(t)
	case string:
		return g.WriteString(t)
	}
	return g.fail(structErrorf("field %q: unsupported value type %T", name, v))
}

// StartObject opens an object.
func (g *Generator) StartObject() error {
	if err := g.prepareValue(StartObject); err != nil {
		return err
	}
	g.stack = append(g.stack, StartObject)
	g.writeByte('{')
	g.indent = append(g.indent, '\t')
	return g.err
}

// EndObject closes the innermost container, which must be an object
// with no dangling field name.
func (g *Generator) EndObject() error { return g.endContainer(StartObject, EndObject, '}') }

// StartArray opens an array.
func (g *Generator) StartArray() error {
	if err := g.prepareValue(StartArray); err != nil {
		return err
	}
	g.stack = append(g.stack, StartArray)
	g.writeByte('[')
	g.indent = append(g.indent, '\t')
	return g.err
}

// EndArray closes the innermost container, which must be an array.
func (g *Generator) EndArray() error { return g.endContainer(StartArray, EndArray, ']') }

func (g *Generator) endContainer(open, end Token, closer byte) error {
	if g.err != nil {
		return g.err
	}
	if len(g.stack) == 0 || g.stack[len(g.stack)-1] != open {
		return g.fail(structErrorf("close of %v while not inside one", open))
	} else if g.tok == FieldName {
		return g.fail(structErrorf("close of %v after dangling field name", open))
	}
	g.stack = g.stack[:len(g.stack)-1]
	g.indent = g.indent[:len(g.indent)-1]
	if g.pretty && g.tok != open {
		g.writeRaw(g.indent)
	}
	g.tok = end
	g.writeByte(closer)
	return g.err
}

// Flush drains the output buffer to the underlying writer.
func (g *Generator) Flush() error {
	if g.err != nil {
		return g.err
	}
	return g.flush()
}

// Close flushes any buffered output.  It fails if a container is still
// open.
func (g *Generator) Close() error {
	if g.err != nil {
		return g.err
	}
	if len(g.stack) != 0 {
		g.flush()
		return g.fail(structErrorf("close with an open %v", g.stack[len(g.stack)-1]))
	}
	return g.flush()
}

// prepareValue verifies that a value token may be emitted here and
// writes any separator the position requires.
func (g *Generator) prepareValue(tok Token) error {
	if g.err != nil {
		return g.err
	}
	if len(g.stack) == 0 {
		if g.tok != NotAvailable {
			return g.fail(structErrorf("more than one top-level value"))
		}
	} else {
		parent := g.stack[len(g.stack)-1]
		if parent == StartObject && g.tok != FieldName {
			return g.fail(structErrorf("value with no field name"))
		}
		if parent == StartArray {
			if g.tok != StartArray {
				g.writeByte(',')
			}
			if g.pretty {
				g.writeRaw(g.indent)
			}
		}
	}
	g.tok = tok
	return nil
}

// encodeString writes a quoted, escaped string.
func (g *Generator) encodeString(s string) {
	g.tmp = escape.Append(g.tmp[:0], mem.S(s))
	g.writeByte('"')
	g.writeRaw(g.tmp)
	g.writeByte('"')
}

func (g *Generator) writeByte(c byte) {
	if g.n >= len(g.buf) {
		if g.flush() != nil {
			return
		}
	}
	g.buf[g.n] = c
	g.n++
}

func (g *Generator) writeString(s string) {
	g.writeRaw([]byte(s))
}

// writeRaw copies text into the output buffer, splitting across a flush
// when the remaining capacity is too small.
func (g *Generator) writeRaw(text []byte) {
	for g.err == nil {
		free := len(g.buf) - g.n
		if len(text) <= free {
			copy(g.buf[g.n:], text)
			g.n += len(text)
			return
		}
		copy(g.buf[g.n:], text[:free])
		g.n = len(g.buf)
		text = text[free:]
		g.flush()
	}
}

func (g *Generator) flush() error {
	if g.n > 0 {
		if _, err := g.w.Write(g.buf[:g.n]); err != nil {
			return g.fail(err)
		}
		g.n = 0
	}
	return nil
}

func (g *Generator) fail(err error) error {
	g.err = err
	return err
}

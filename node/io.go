// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package node

import (
	"io"

	"github.com/creachadair/jstream"
)

// DefaultMaxDepth is the nesting limit applied by Read and Write unless
// overridden with the Limit variants.
const DefaultMaxDepth = 50

// Parse reads a single JSON value from r into a new node.  If no value
// is available, Parse returns io.EOF.
func Parse(r io.Reader) (*Node, error) {
	p := jstream.NewParser(r)
	n := New()
	if err := n.Read(p); err != nil {
		return nil, err
	}
	return n, nil
}

// MustParse is Parse for known-good input: it panics if the value
// cannot be parsed.
func MustParse(r io.Reader) *Node {
	n, err := Parse(r)
	if err != nil {
		panic("node: invalid input: " + err.Error())
	}
	return n
}

// Read replaces the contents of n with the next value from p, leaving
// the parser positioned on the token following that value.  If the
// input is exhausted, n is set to null and Read returns io.EOF.
// Nesting beyond DefaultMaxDepth is reported as a DepthError.
func (n *Node) Read(p *jstream.Parser) error { return n.ReadLimit(p, DefaultMaxDepth) }

// ReadLimit is Read with an explicit nesting limit.  On error the node
// is left null rather than holding a partial value.
func (n *Node) ReadLimit(p *jstream.Parser, maxDepth int) error {
	n.SetNull()
	tok := p.Current()
	if tok == jstream.NotAvailable {
		// Give a kick start if the stream has not been read from.
		var err error
		if tok, err = p.Next(); err != nil {
			return err
		}
		if tok == jstream.NotAvailable {
			return io.EOF
		}
	}
	if err := n.readValue(p, tok, depth{rem: maxDepth, max: maxDepth}); err != nil {
		n.SetNull()
		return err
	}
	_, err := p.Next()
	return err
}

// A depth tracks remaining nesting allowance during traversal.
type depth struct{ rem, max int }

func (d depth) down() depth { return depth{rem: d.rem - 1, max: d.max} }

func (n *Node) readValue(p *jstream.Parser, tok jstream.Token, d depth) error {
	if d.rem < 0 {
		return &jstream.DepthError{MaxDepth: d.max}
	}
	switch tok {
	case jstream.Null:
		n.SetNull()
	case jstream.True:
		n.SetBool(true)
	case jstream.False:
		n.SetBool(false)
	case jstream.Integer:
		v, err := p.Int()
		if err != nil {
			return err
		}
		n.SetInt(v)
	case jstream.Float:
		v, err := p.Float()
		if err != nil {
			return err
		}
		n.SetFloat(v)
	case jstream.String:
		v, err := p.Text()
		if err != nil {
			return err
		}
		n.SetString(v)
	case jstream.StartArray:
		if d.rem <= 0 {
			return &jstream.DepthError{MaxDepth: d.max}
		}
		n.MakeArray()
		for {
			next, err := p.Next()
			if err != nil {
				return err
			}
			if next == jstream.EndArray {
				return nil
			}
			if err := n.Append().readValue(p, next, d.down()); err != nil {
				return err
			}
		}
	case jstream.StartObject:
		if d.rem <= 0 {
			return &jstream.DepthError{MaxDepth: d.max}
		}
		n.MakeObject()
		for {
			next, err := p.Next()
			if err != nil {
				return err
			}
			if next == jstream.EndObject {
				return nil
			}
			key := p.Name()
			if next, err = p.Next(); err != nil {
				return err
			}
			if err := n.AppendField(key).readValue(p, next, d.down()); err != nil {
				return err
			}
		}
	default:
		return &jstream.SyntaxError{Message: "unexpected " + tok.String()}
	}
	return nil
}

// Write plays n back through g as a complete value.  Nesting beyond
// DefaultMaxDepth is reported as a DepthError and leaves g mid-document
// with its containers still open.  The generator is not flushed.
func (n *Node) Write(g *jstream.Generator) error { return n.WriteLimit(g, DefaultMaxDepth) }

// WriteLimit is Write with an explicit nesting limit.
func (n *Node) WriteLimit(g *jstream.Generator, maxDepth int) error {
	return n.writeValue(g, depth{rem: maxDepth, max: maxDepth})
}

func (n *Node) writeValue(g *jstream.Generator, d depth) error {
	if d.rem < 0 {
		return &jstream.DepthError{MaxDepth: d.max}
	}
	switch n.kind {
	case Null:
		return g.WriteNull()
	case Bool:
		return g.WriteBool(n.b)
	case Integer:
		return g.WriteInt(n.i)
	case Float:
		return g.WriteFloat(n.f)
	case String:
		return g.WriteString(n.s)
	case Array:
		if d.rem <= 0 {
			return &jstream.DepthError{MaxDepth: d.max}
		}
		if err := g.StartArray(); err != nil {
			return err
		}
		for _, v := range n.a {
			if err := v.writeValue(g, d.down()); err != nil {
				return err
			}
		}
		return g.EndArray()
	case Object:
		if d.rem <= 0 {
			return &jstream.DepthError{MaxDepth: d.max}
		}
		if err := g.StartObject(); err != nil {
			return err
		}
		for _, m := range n.o {
			if err := g.WriteFieldName(m.Key); err != nil {
				return err
			}
			if err := m.Value.writeValue(g, d.down()); err != nil {
				return err
			}
		}
		return g.EndObject()
	}
	return nil
}

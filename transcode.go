// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jstream

// Transcode streams one top-level value from p into g and reports
// whether a value was available.  Token payloads pass through the
// numeric codec, so numbers are re-rendered in canonical shortest form
// rather than copied textually.  The generator is not flushed.
func Transcode(g *Generator, p *Parser) (bool, error) {
	tok, err := p.Next()
	if err != nil {
		return false, err
	} else if tok == NotAvailable {
		return false, nil
	}
	for {
		switch tok {
		case StartObject:
			err = g.StartObject()
		case EndObject:
			err = g.EndObject()
		case StartArray:
			err = g.StartArray()
		case EndArray:
			err = g.EndArray()
		case FieldName:
			err = g.WriteFieldName(p.Name())
		case String:
			s, _ := p.Text()
			err = g.WriteString(s)
		case Integer:
			v, _ := p.Int()
			err = g.WriteInt(v)
		case Float:
			v, _ := p.Float()
			err = g.WriteFloat(v)
		case True:
			err = g.WriteBool(true)
		case False:
			err = g.WriteBool(false)
		case Null:
			err = g.WriteNull()
		}
		if err != nil {
			return true, err
		}
		if p.Depth() == 0 {
			return true, nil
		}
		if tok, err = p.Next(); err != nil {
			return true, err
		}
	}
}

// TranscodeAll streams every top-level value from p into g and flushes
// the generator.  Each value is followed by a newline so that adjacent
// values remain distinct.
func TranscodeAll(g *Generator, p *Parser) error {
	for {
		more, err := Transcode(g, p)
		if err != nil {
			return err
		} else if !more {
			return g.Flush()
		}
		if err := g.Reset(); err != nil {
			return err
		}
		g.writeByte('\n')
	}
}

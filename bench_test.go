// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jstream_test

import (
	"fmt"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/creachadair/jstream"
	"github.com/creachadair/jstream/node"
)

// benchDoc synthesizes a moderately nested document with a mix of
// value types.
func benchDoc(records int) string {
	rng := rand.New(rand.NewSource(1))
	var sb strings.Builder
	sb.WriteString(`{"records":[`)
	for i := 0; i < records; i++ {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, `{"id":%d,"score":%g,"label":"item-%d","ok":%v,"tags":["a","b\n%d"]}`,
			rng.Int63(), rng.NormFloat64(), i, i%3 == 0, i)
	}
	sb.WriteString(`]}`)
	return sb.String()
}

func BenchmarkParse(b *testing.B) {
	doc := benchDoc(200)
	b.SetBytes(int64(len(doc)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p := jstream.NewParser(strings.NewReader(doc))
		for {
			tok, err := p.Next()
			if err != nil {
				b.Fatal(err)
			} else if tok == jstream.NotAvailable {
				break
			}
		}
	}
}

func BenchmarkTranscode(b *testing.B) {
	doc := benchDoc(200)
	b.SetBytes(int64(len(doc)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p := jstream.NewParser(strings.NewReader(doc))
		g := jstream.NewGenerator(io.Discard)
		if err := jstream.TranscodeAll(g, p); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkNodeRead(b *testing.B) {
	doc := benchDoc(200)
	b.SetBytes(int64(len(doc)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := node.Parse(strings.NewReader(doc)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkWriteFloat(b *testing.B) {
	rng := rand.New(rand.NewSource(2))
	vals := make([]float64, 1024)
	for i := range vals {
		vals[i] = rng.NormFloat64() * 1e9
	}
	g := jstream.NewGenerator(io.Discard)
	g.StartArray()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := g.WriteFloat(vals[i%len(vals)]); err != nil {
			b.Fatal(err)
		}
	}
}

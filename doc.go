// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jstream implements a streaming JSON codec: a pull parser and
// a push generator joined by a numeric subsystem that renders binary64
// floating-point values in their shortest round-trip decimal form and
// converts decimal text back with correct rounding.
//
// # Parsing
//
// The Parser type reads structural tokens from an io.Reader.  Each call
// to Next advances to the next token of the document:
//
//	p := jstream.NewParser(input)
//	for {
//	   tok, err := p.Next()
//	   if err != nil {
//	      log.Fatalf("Parse failed: %v", err)
//	   } else if tok == jstream.NotAvailable {
//	      break // end of input
//	   }
//	   log.Printf("Next token: %v", tok)
//	}
//
// Scalar payloads are recovered through the typed accessors Int, Float,
// Bool, and Text, which report a TypeError when the current token does
// not carry a value of the requested kind.  Numbers are classified as
// Integer when their text has no fractional part, no exponent or a
// positive one, and a value that fits an int64; all other numbers,
// including 1.0 and 1012e0, are Float.
//
// # Generating
//
// The Generator type writes a document to an io.Writer, one token at a
// time, enforcing that the calls form valid JSON:
//
//	g := jstream.NewGenerator(output)
//	g.StartObject()
//	g.WriteField("stuff", int64(5))
//	g.WriteField("success", true)
//	g.EndObject()
//	if err := g.Close(); err != nil {
//	   log.Fatalf("Generate failed: %v", err)
//	}
//
// Call SetPretty(true) before writing to produce indented multi-line
// output.
//
// # Values
//
// The node subpackage materializes token streams as mutable trees and
// plays them back, bridging the parser and generator for callers that
// want random access to a document.
package jstream

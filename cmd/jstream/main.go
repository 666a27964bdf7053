// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// jstream - streaming JSON reformatter
//
// Usage:
//
//	jstream [-pretty] [infile [outfile]]       Re-encode JSON
//	jstream -validate file...                  Check files in parallel
//
// Input and output paths ending in ".gz" are read and written through
// gzip.  A missing path or "-" selects stdin or stdout.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/creachadair/jstream"
	"github.com/klauspost/compress/gzip"
	"golang.org/x/sync/errgroup"
)

var (
	doPretty   = flag.Bool("pretty", false, "Write indented multi-line output")
	doValidate = flag.Bool("validate", false, "Parse the named files and report errors, writing nothing")
	bufSize    = flag.Int("bufsize", jstream.DefaultBufferSize, "I/O buffer size in bytes")
)

func main() {
	flag.Parse()

	if *doValidate {
		if flag.NArg() == 0 {
			fatal("validate: no input files")
		}
		os.Exit(validate(flag.Args()))
	}
	if flag.NArg() > 2 {
		fatal("extra arguments after output file")
	}

	in, closeIn, err := openInput(flag.Arg(0))
	if err != nil {
		fatal("open input: %v", err)
	}
	defer closeIn()

	out, closeOut, err := openOutput(flag.Arg(1))
	if err != nil {
		fatal("open output: %v", err)
	}

	p := jstream.NewParserSize(in, *bufSize)
	g := jstream.NewGeneratorSize(out, *bufSize)
	g.SetPretty(*doPretty)
	if err := jstream.TranscodeAll(g, p); err != nil {
		fatal("reformat: %v", err)
	}
	if err := closeOut(); err != nil {
		fatal("close output: %v", err)
	}
}

// validate parses each named file concurrently and reports per-file
// results.  The exit code is 0 only if every file parsed cleanly.
func validate(paths []string) int {
	var g errgroup.Group
	fail := make([]error, len(paths))
	for i, path := range paths {
		g.Go(func() error {
			in, closeIn, err := openInput(path)
			if err != nil {
				fail[i] = err
				return nil
			}
			defer closeIn()
			p := jstream.NewParserSize(in, *bufSize)
			for {
				tok, err := p.Next()
				if err != nil {
					fail[i] = err
					return nil
				} else if tok == jstream.NotAvailable {
					return nil
				}
			}
		})
	}
	g.Wait()

	code := 0
	for i, path := range paths {
		if fail[i] != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, fail[i])
			code = 1
		} else {
			fmt.Fprintf(os.Stderr, "%s: ok\n", path)
		}
	}
	return code
}

func openInput(path string) (io.Reader, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdin, func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, f.Close, nil
	}
	z, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return z, func() error {
		z.Close()
		return f.Close()
	}, nil
}

func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, f.Close, nil
	}
	z := gzip.NewWriter(f)
	return z, func() error {
		if err := z.Close(); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}, nil
}

func fatal(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "jstream: "+msg+"\n", args...)
	os.Exit(1)
}

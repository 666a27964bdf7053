// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jstream_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/creachadair/jstream"

	"github.com/google/go-cmp/cmp"
	"github.com/tidwall/pretty"
	"github.com/valyala/fastjson"
)

var transcodeDocs = []string{
	`null`,
	`true`,
	`-15`,
	`1e23`,
	`"airplane"`,
	`[]`,
	`{}`,
	`[1012e0, {"hey": 1.2}]`,
	`{ "stuff" : 5, "success" : true }`,
	`{"a":{"b":[{"c":null},[false,-0.0025]]},"d":"e"}`,
	`[9223372036854775807, -9223372036854775808, 0.1, 5e-324]`,
	`{"dup":1,"dup":2,"":3}`,
}

// reformat runs input through a parse/generate cycle.
func reformat(t *testing.T, input string, prettyPrint bool) string {
	t.Helper()
	var sb strings.Builder
	p := jstream.NewParser(strings.NewReader(input))
	g := jstream.NewGenerator(&sb)
	g.SetPretty(prettyPrint)
	if err := jstream.TranscodeAll(g, p); err != nil {
		t.Fatalf("Transcode %#q failed: %v", input, err)
	}
	return sb.String()
}

func TestTranscodeTokens(t *testing.T) {
	// Reformatting must preserve the token stream exactly, including
	// the integer/number distinction.
	for _, doc := range transcodeDocs {
		want, err := scanAll(t, jstream.NewParser(strings.NewReader(doc)))
		if err != nil {
			t.Fatalf("Scan %#q failed: %v", doc, err)
		}
		out := reformat(t, doc, false)
		got, err := scanAll(t, jstream.NewParser(strings.NewReader(out)))
		if err != nil {
			t.Fatalf("Rescan %#q failed: %v", out, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Input: %#q\nOutput: %#q\nTokens: (-want, +got)\n%s", doc, out, diff)
		}
		if err := fastjson.Validate(out); err != nil {
			t.Errorf("Output %#q does not validate: %v", out, err)
		}
	}
}

func TestTranscodePrettyIdempotent(t *testing.T) {
	for _, doc := range transcodeDocs {
		pp := reformat(t, doc, true)
		compactOfPretty := reformat(t, pp, false)
		compact := reformat(t, doc, false)
		if compactOfPretty != compact {
			t.Errorf("Input: %#q\ncompact(pretty): %#q\ncompact:         %#q",
				doc, compactOfPretty, compact)
		}

		// The whitespace-insensitive content must agree with an
		// independent reformatter.
		if got, want := pretty.Ugly([]byte(pp)), pretty.Ugly([]byte(compact)); !bytes.Equal(got, want) {
			t.Errorf("Input: %#q\nUgly(pretty): %#q\nUgly(compact): %#q", doc, got, want)
		}
		if err := fastjson.Validate(pp); err != nil {
			t.Errorf("Pretty output %#q does not validate: %v", pp, err)
		}
	}
}

func TestTranscodeStream(t *testing.T) {
	got := reformat(t, "1 {} [2,3]  \"x\"", false)
	const want = "1\n{}\n[2,3]\n\"x\"\n"
	if got != want {
		t.Errorf("Output: got %#q, want %#q", got, want)
	}
}

func TestTranscodeEmpty(t *testing.T) {
	if got := reformat(t, "  \n ", false); got != "" {
		t.Errorf("Output: got %#q, want empty", got)
	}
}

func TestTranscodeOne(t *testing.T) {
	var sb strings.Builder
	p := jstream.NewParser(strings.NewReader(`{"a":1} [2]`))
	g := jstream.NewGenerator(&sb)
	more, err := jstream.Transcode(g, p)
	if err != nil {
		t.Fatalf("Transcode failed: %v", err)
	} else if !more {
		t.Fatal("Transcode: no value found")
	}
	if err := g.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if got := sb.String(); got != `{"a":1}` {
		t.Errorf("Output: got %#q, want %#q", got, `{"a":1}`)
	}
}

func TestTranscodeError(t *testing.T) {
	var sb strings.Builder
	p := jstream.NewParser(strings.NewReader(`[1, 2, oops]`))
	g := jstream.NewGenerator(&sb)
	if err := jstream.TranscodeAll(g, p); err == nil {
		t.Fatal("Transcode did not report an error")
	}
}

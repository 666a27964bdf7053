// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jstream_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/creachadair/jstream"

	"github.com/valyala/fastjson"
)

// buildDoc emits a small document exercising every value type.
func buildDoc(g *jstream.Generator) error {
	g.StartObject()
	g.WriteFieldName("stuff")
	g.WriteInt(5)
	g.WriteField("success", true)
	g.WriteField("name", "jstream")
	g.WriteField("ratio", 0.5)
	g.WriteField("missing", nil)
	g.WriteFieldName("items")
	g.StartArray()
	g.WriteInt(1)
	g.WriteFloat(1.5)
	g.WriteBool(false)
	g.WriteNull()
	g.StartObject()
	g.EndObject()
	g.EndArray()
	return g.EndObject()
}

func TestGeneratorCompact(t *testing.T) {
	var sb strings.Builder
	g := jstream.NewGenerator(&sb)
	if err := buildDoc(g); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if err := g.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	const want = `{"stuff":5,"success":true,"name":"jstream","ratio":0.5,` +
		`"missing":null,"items":[1,1.5,false,null,{}]}`
	if got := sb.String(); got != want {
		t.Errorf("Output:\n got %s\nwant %s", got, want)
	}
	if err := fastjson.Validate(sb.String()); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestGeneratorPretty(t *testing.T) {
	var sb strings.Builder
	g := jstream.NewGenerator(&sb)
	g.SetPretty(true)
	g.StartObject()
	g.WriteField("a", int64(1))
	g.WriteFieldName("b")
	g.StartArray()
	g.WriteInt(2)
	g.WriteInt(3)
	g.EndArray()
	g.EndObject()
	if err := g.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	want := strings.Join([]string{
		`{`,
		"\t" + `"a" : 1,`,
		"\t" + `"b" : [`,
		"\t\t" + `2,`,
		"\t\t" + `3`,
		"\t" + `]`,
		`}`,
	}, "\n")
	if got := sb.String(); got != want {
		t.Errorf("Output:\n got %#q\nwant %#q", got, want)
	}
	if err := fastjson.Validate(sb.String()); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestGeneratorStrings(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", `""`},
		{"a b", `"a b"`},
		{"a\tb\nc", `"a\tb\nc"`},
		{`say "more"`, `"say \"more\""`},
		{`back\slash`, `"back\\slash"`},
		{"ctrl\x1ehere", `"ctrl\u001Ehere"`},
		{"nul\x00", `"nul\u0000"`},
		{"café", "\"café\""}, // UTF-8 passes through unescaped
	}
	for _, test := range tests {
		var sb strings.Builder
		g := jstream.NewGenerator(&sb)
		if err := g.WriteString(test.input); err != nil {
			t.Errorf("WriteString(%#q) failed: %v", test.input, err)
			continue
		}
		if err := g.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
		if got := sb.String(); got != test.want {
			t.Errorf("WriteString(%#q): got %#q, want %#q", test.input, got, test.want)
		}
	}
}

func TestGeneratorNumbers(t *testing.T) {
	var sb strings.Builder
	g := jstream.NewGenerator(&sb)
	g.StartArray()
	g.WriteInt(math.MinInt64)
	g.WriteInt(math.MaxInt64)
	g.WriteFloat(1e23)
	g.WriteFloat(math.Copysign(0, -1))
	g.WriteFloat(0.3)
	g.EndArray()
	if err := g.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	const want = `[-9223372036854775808,9223372036854775807,1e23,-0,0.3]`
	if got := sb.String(); got != want {
		t.Errorf("Output:\n got %s\nwant %s", got, want)
	}
}

func TestGeneratorNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		var sb strings.Builder
		g := jstream.NewGenerator(&sb)
		g.StartArray()
		if err := g.WriteFloat(v); !errors.Is(err, jstream.ErrNonFinite) {
			t.Errorf("WriteFloat(%v): got %v, want %v", v, err, jstream.ErrNonFinite)
		}
	}
}

func TestGeneratorStructural(t *testing.T) {
	tests := []struct {
		name  string
		build func(g *jstream.Generator) error
	}{
		{"ValueWithoutFieldName", func(g *jstream.Generator) error {
			g.StartObject()
			return g.WriteInt(1)
		}},
		{"FieldNameAtTopLevel", func(g *jstream.Generator) error {
			return g.WriteFieldName("a")
		}},
		{"FieldNameInArray", func(g *jstream.Generator) error {
			g.StartArray()
			return g.WriteFieldName("a")
		}},
		{"DoubleFieldName", func(g *jstream.Generator) error {
			g.StartObject()
			g.WriteFieldName("a")
			return g.WriteFieldName("b")
		}},
		{"MismatchedEndArray", func(g *jstream.Generator) error {
			g.StartObject()
			return g.EndArray()
		}},
		{"MismatchedEndObject", func(g *jstream.Generator) error {
			g.StartArray()
			return g.EndObject()
		}},
		{"EndObjectAtTopLevel", func(g *jstream.Generator) error {
			return g.EndObject()
		}},
		{"DanglingFieldName", func(g *jstream.Generator) error {
			g.StartObject()
			g.WriteFieldName("a")
			return g.EndObject()
		}},
		{"SecondTopLevelValue", func(g *jstream.Generator) error {
			g.WriteInt(1)
			return g.WriteInt(2)
		}},
		{"CloseInsideContainer", func(g *jstream.Generator) error {
			g.StartArray()
			return g.Close()
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var sb strings.Builder
			g := jstream.NewGenerator(&sb)
			err := test.build(g)
			if err == nil {
				t.Fatal("Build did not report an error")
			}
			var serr *jstream.StructError
			if !errors.As(err, &serr) {
				t.Errorf("Error: got %v, want StructError", err)
			}

			// The generator is poisoned after a failure.
			if got := g.WriteNull(); got == nil {
				t.Error("Poisoned WriteNull: got nil, want error")
			}
		})
	}
}

func TestGeneratorReset(t *testing.T) {
	var sb strings.Builder
	g := jstream.NewGenerator(&sb)
	if err := g.WriteInt(1); err != nil {
		t.Fatalf("WriteInt failed: %v", err)
	}
	if err := g.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if err := g.WriteInt(2); err != nil {
		t.Fatalf("WriteInt failed: %v", err)
	}
	if err := g.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if got := sb.String(); got != "12" {
		t.Errorf("Output: got %q, want %q", got, "12")
	}
}

func TestGeneratorSmallBuffer(t *testing.T) {
	var sb strings.Builder
	g := jstream.NewGeneratorSize(&sb, 64)
	long := strings.Repeat("summertime ", 40)
	g.StartArray()
	g.WriteString(long)
	g.WriteString(long)
	g.EndArray()
	if err := g.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	want := `["` + long + `","` + long + `"]`
	if got := sb.String(); got != want {
		t.Errorf("Output:\n got %s\nwant %s", got, want)
	}
}

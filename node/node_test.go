// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package node_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/creachadair/jstream"
	"github.com/creachadair/jstream/node"

	"github.com/creachadair/mds/mtest"
	"github.com/google/go-cmp/cmp"
	"github.com/tidwall/gjson"
)

const testDoc = `{ "stuff" : 5, "success" : true, "name" : "box",
  "ratio" : 0.25, "nothing" : null,
  "list" : [1, 2.5, "three"], "inner" : { "x" : 1 } }`

func TestNodeRead(t *testing.T) {
	n, err := node.Parse(strings.NewReader(testDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if n.Kind() != node.Object {
		t.Fatalf("Kind: got %v, want %v", n.Kind(), node.Object)
	}
	if v, err := n.GetInt("stuff"); err != nil || v != 5 {
		t.Errorf("GetInt(stuff): got %v, %v; want 5", v, err)
	}
	if v, err := n.GetBool("success"); err != nil || !v {
		t.Errorf("GetBool(success): got %v, %v; want true", v, err)
	}
	if v, err := n.GetString("name"); err != nil || v != "box" {
		t.Errorf("GetString(name): got %q, %v; want %q", v, err, "box")
	}
	if v, err := n.GetFloat("ratio"); err != nil || v != 0.25 {
		t.Errorf("GetFloat(ratio): got %v, %v; want 0.25", v, err)
	}
	if !n.Get("nothing").IsNull() {
		t.Error("Get(nothing): want null")
	}
	if !n.Get("absent").IsNull() {
		t.Error("Get(absent): want null")
	}

	list := n.Get("list")
	if list.Kind() != node.Array || list.Len() != 3 {
		t.Fatalf("Get(list): got %v len %d, want array len 3", list.Kind(), list.Len())
	}
	if v, err := list.At(1).AsFloat(); err != nil || v != 2.5 {
		t.Errorf("At(1): got %v, %v; want 2.5", v, err)
	}
	if !list.At(99).IsNull() {
		t.Error("At(99): want null")
	}

	// Cross-check scalar lookups against an independent reader.
	for _, path := range []string{"stuff", "success", "name", "ratio"} {
		want := gjson.Get(testDoc, path)
		switch got := n.Get(path); got.Kind() {
		case node.Integer:
			if v, _ := got.AsInt(); v != want.Int() {
				t.Errorf("Path %q: got %v, want %v", path, v, want.Int())
			}
		case node.Float:
			if v, _ := got.AsFloat(); v != want.Float() {
				t.Errorf("Path %q: got %v, want %v", path, v, want.Float())
			}
		case node.Bool:
			if v, _ := got.AsBool(); v != want.Bool() {
				t.Errorf("Path %q: got %v, want %v", path, v, want.Bool())
			}
		case node.String:
			if v, _ := got.AsString(); v != want.String() {
				t.Errorf("Path %q: got %v, want %v", path, v, want.String())
			}
		}
	}
}

func TestNodeTypeErrors(t *testing.T) {
	n := node.NewString("pear")
	if _, err := n.AsInt(); err == nil {
		t.Error("AsInt on string: got nil, want error")
	} else {
		var terr *jstream.TypeError
		if !errors.As(err, &terr) {
			t.Errorf("Error: got %v, want TypeError", err)
		}
	}
	if _, err := n.AsBool(); err == nil {
		t.Error("AsBool on string: got nil, want error")
	}

	// Numeric coercion both ways.
	if v, err := node.NewInt(3).AsFloat(); err != nil || v != 3.0 {
		t.Errorf("AsFloat on integer: got %v, %v; want 3", v, err)
	}
	if v, err := node.NewFloat(3.9).AsInt(); err != nil || v != 3 {
		t.Errorf("AsInt on float: got %v, %v; want 3", v, err)
	}

	// Default forms apply only to null nodes.
	if v, err := node.New().AsIntOr(7); err != nil || v != 7 {
		t.Errorf("AsIntOr on null: got %v, %v; want 7", v, err)
	}
	if _, err := n.AsIntOr(7); err == nil {
		t.Error("AsIntOr on string: got nil, want error")
	}
	if v, err := node.New().AsStringOr("d"); err != nil || v != "d" {
		t.Errorf("AsStringOr on null: got %v, %v; want d", v, err)
	}
}

func TestNodeDuplicates(t *testing.T) {
	n, err := node.Parse(strings.NewReader(`{"a":1,"a":2,"b":3}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if n.Len() != 3 {
		t.Errorf("Len: got %d, want 3", n.Len())
	}
	// First match wins on lookup.
	if v, err := n.GetInt("a"); err != nil || v != 1 {
		t.Errorf("GetInt(a): got %v, %v; want 1", v, err)
	}
	// Both members survive in order.
	var keys []string
	for _, m := range n.Fields() {
		keys = append(keys, m.Key)
	}
	if diff := cmp.Diff([]string{"a", "a", "b"}, keys); diff != "" {
		t.Errorf("Fields: (-want, +got)\n%s", diff)
	}
}

func TestNodeMutation(t *testing.T) {
	n := node.New()
	n.Set("name").SetString("cart")
	n.Set("count").SetInt(2)
	n.Set("name").SetString("wagon") // existing key updates in place
	items := n.Set("items")
	items.Append().SetInt(3)
	items.Append().SetInt(5)
	items.Insert(1).SetInt(4)
	items.Insert(99).SetInt(6)

	var sb strings.Builder
	g := jstream.NewGenerator(&sb)
	if err := n.Write(g); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := g.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	const want = `{"name":"wagon","count":2,"items":[3,4,5,6]}`
	if got := sb.String(); got != want {
		t.Errorf("Output:\n got %s\nwant %s", got, want)
	}

	// Retagging a node releases its payload.
	items.SetBool(true)
	if items.Len() != 1 {
		t.Errorf("Len after retag: got %d, want 1", items.Len())
	}
	n.SetNull()
	if !n.IsNull() || n.Len() != 1 {
		t.Errorf("SetNull: kind %v len %d", n.Kind(), n.Len())
	}
}

func TestNodeRoundTrip(t *testing.T) {
	docs := []string{
		`null`,
		`[1,2.5,"three",false,null]`,
		`{"a":{"b":[{}]},"c":[[]]}`,
		`{"dup":1,"dup":2}`,
	}
	for _, doc := range docs {
		n, err := node.Parse(strings.NewReader(doc))
		if err != nil {
			t.Fatalf("Parse %#q failed: %v", doc, err)
		}
		var sb strings.Builder
		g := jstream.NewGenerator(&sb)
		if err := n.Write(g); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if err := g.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
		if got := sb.String(); got != doc {
			t.Errorf("Round trip: got %s, want %s", got, doc)
		}
	}
}

func TestNodeReadPosition(t *testing.T) {
	p := jstream.NewParser(strings.NewReader(`{"a":1} 25`))
	var first, second node.Node
	if err := first.Read(p); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if first.Kind() != node.Object {
		t.Errorf("First kind: got %v, want object", first.Kind())
	}
	// The parser rests on the token after the object.
	if p.Current() != jstream.Integer {
		t.Errorf("Current: got %v, want integer", p.Current())
	}
	if err := second.Read(p); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if v, err := second.AsInt(); err != nil || v != 25 {
		t.Errorf("Second: got %v, %v; want 25", v, err)
	}
	var third node.Node
	if err := third.Read(p); err != io.EOF {
		t.Errorf("Read at end: got %v, want io.EOF", err)
	}
}

func TestNodeDepthGuard(t *testing.T) {
	deep := strings.Repeat("[", 51) + strings.Repeat("]", 51)
	checkDepth := func(err error) {
		t.Helper()
		var derr *jstream.DepthError
		if !errors.As(err, &derr) {
			t.Fatalf("Error: got %v, want DepthError", err)
		} else if derr.MaxDepth != node.DefaultMaxDepth {
			t.Errorf("MaxDepth: got %d, want %d", derr.MaxDepth, node.DefaultMaxDepth)
		}
	}

	n := node.New()
	err := n.Read(jstream.NewParser(strings.NewReader(deep)))
	checkDepth(err)
	if !n.IsNull() {
		t.Error("Node is not null after failed read")
	}

	// A document at the limit is fine.
	ok := strings.Repeat("[", 50) + strings.Repeat("]", 50)
	if err := n.Read(jstream.NewParser(strings.NewReader(ok))); err != nil {
		t.Errorf("Read at limit failed: %v", err)
	}

	// The write side enforces the same limit.
	root := node.New()
	cur := root
	for i := 0; i < 51; i++ {
		cur = cur.Append()
	}
	g := jstream.NewGenerator(io.Discard)
	checkDepth(root.Write(g))

	if err := root.WriteLimit(jstream.NewGenerator(io.Discard), 60); err != nil {
		t.Errorf("WriteLimit(60) failed: %v", err)
	}
}

func TestNodeReadLimit(t *testing.T) {
	doc := `[[[]]]`
	n := node.New()
	if err := n.ReadLimit(jstream.NewParser(strings.NewReader(doc)), 3); err != nil {
		t.Errorf("ReadLimit(3) failed: %v", err)
	}
	err := n.ReadLimit(jstream.NewParser(strings.NewReader(doc)), 2)
	var derr *jstream.DepthError
	if !errors.As(err, &derr) {
		t.Errorf("ReadLimit(2): got %v, want DepthError", err)
	}
}

func TestMustParse(t *testing.T) {
	n := node.MustParse(strings.NewReader(`{"ok":true}`))
	if v, err := n.GetBool("ok"); err != nil || !v {
		t.Errorf("GetBool(ok): got %v, %v; want true", v, err)
	}

	mtest.MustPanic(t, func() { node.MustParse(strings.NewReader(`{`)) })
	mtest.MustPanic(t, func() { node.MustParse(strings.NewReader(``)) })
}

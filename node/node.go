// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package node defines a mutable tree representation of JSON values,
// and drivers that read such trees from a stream parser and play them
// back through a generator.
package node

import "github.com/creachadair/jstream"

// A Kind identifies which variant a Node currently holds.
type Kind byte

// Constants defining the valid Kind values.
const (
	Null Kind = iota
	Bool
	Integer
	Float
	String
	Array
	Object
)

var kindStr = [...]string{
	Null:    "null",
	Bool:    "boolean",
	Integer: "integer",
	Float:   "number",
	String:  "string",
	Array:   "array",
	Object:  "object",
}

func (k Kind) String() string {
	if int(k) >= len(kindStr) {
		return "invalid kind"
	}
	return kindStr[k]
}

// A Field is a single key-value member of an object node.
type Field struct {
	Key   string
	Value *Node
}

// A Node is one JSON value.  A zero Node is null.  Setting a node to a
// new kind releases whatever payload it held before.  Object members
// keep their insertion order, duplicate keys are tolerated, and lookups
// return the first match.
type Node struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	a    []*Node
	o    []Field
}

// missing is returned for lookups that find nothing.  It is shared;
// callers must not modify it.
var missing = &Node{}

// New returns a new null node.
func New() *Node { return &Node{} }

// NewBool returns a new boolean node holding v.
func NewBool(v bool) *Node { return &Node{kind: Bool, b: v} }

// NewInt returns a new integer node holding v.
func NewInt(v int64) *Node { return &Node{kind: Integer, i: v} }

// NewFloat returns a new number node holding v.
func NewFloat(v float64) *Node { return &Node{kind: Float, f: v} }

// NewString returns a new string node holding v.
func NewString(v string) *Node { return &Node{kind: String, s: v} }

// Kind reports the variant n currently holds.
func (n *Node) Kind() Kind { return n.kind }

// IsNull reports whether n is null.
func (n *Node) IsNull() bool { return n.kind == Null }

// AsInt returns the numeric value of n as an integer.  Float values are
// truncated toward zero.
func (n *Node) AsInt() (int64, error) {
	switch n.kind {
	case Integer:
		return n.i, nil
	case Float:
		return int64(n.f), nil
	}
	return 0, typeError(n.kind, "integer")
}

// AsIntOr is AsInt, except that a null node yields def.
func (n *Node) AsIntOr(def int64) (int64, error) {
	if n.kind == Null {
		return def, nil
	}
	return n.AsInt()
}

// AsFloat returns the numeric value of n.  Integer values beyond 2^53
// lose precision in the conversion.
func (n *Node) AsFloat() (float64, error) {
	switch n.kind {
	case Float:
		return n.f, nil
	case Integer:
		return float64(n.i), nil
	}
	return 0, typeError(n.kind, "number")
}

// AsFloatOr is AsFloat, except that a null node yields def.
func (n *Node) AsFloatOr(def float64) (float64, error) {
	if n.kind == Null {
		return def, nil
	}
	return n.AsFloat()
}

// AsBool returns the value of a boolean node.
func (n *Node) AsBool() (bool, error) {
	if n.kind == Bool {
		return n.b, nil
	}
	return false, typeError(n.kind, "boolean")
}

// AsBoolOr is AsBool, except that a null node yields def.
func (n *Node) AsBoolOr(def bool) (bool, error) {
	if n.kind == Null {
		return def, nil
	}
	return n.AsBool()
}

// AsString returns the value of a string node.
func (n *Node) AsString() (string, error) {
	if n.kind == String {
		return n.s, nil
	}
	return "", typeError(n.kind, "string")
}

// AsStringOr is AsString, except that a null node yields def.
func (n *Node) AsStringOr(def string) (string, error) {
	if n.kind == Null {
		return def, nil
	}
	return n.AsString()
}

// Get returns the value of the first member of an object node with the
// given key, or a shared null node if there is none or if n is not an
// object.  The result of a failed lookup must not be modified.
func (n *Node) Get(key string) *Node {
	if n.kind == Object {
		for _, m := range n.o {
			if m.Key == key {
				return m.Value
			}
		}
	}
	return missing
}

// GetOr is Get, except that a failed lookup yields def.
func (n *Node) GetOr(key string, def *Node) *Node {
	if v := n.Get(key); v != missing {
		return v
	}
	return def
}

// GetInt returns the integer value of the member named key.
func (n *Node) GetInt(key string) (int64, error) { return n.Get(key).AsInt() }

// GetFloat returns the numeric value of the member named key.
func (n *Node) GetFloat(key string) (float64, error) { return n.Get(key).AsFloat() }

// GetBool returns the boolean value of the member named key.
func (n *Node) GetBool(key string) (bool, error) { return n.Get(key).AsBool() }

// GetString returns the string value of the member named key.
func (n *Node) GetString(key string) (string, error) { return n.Get(key).AsString() }

// At returns the i'th element of an array node, or a shared null node
// if the index is out of range or n is not an array.  The result of a
// failed lookup must not be modified.
func (n *Node) At(i int) *Node {
	if n.kind == Array && i >= 0 && i < len(n.a) {
		return n.a[i]
	}
	return missing
}

// Len reports the number of elements of an array node or members of an
// object node, and 1 for any other kind.
func (n *Node) Len() int {
	switch n.kind {
	case Array:
		return len(n.a)
	case Object:
		return len(n.o)
	}
	return 1
}

// Fields returns the ordered members of an object node, or nil.  The
// slice is shared with n.
func (n *Node) Fields() []Field {
	if n.kind == Object {
		return n.o
	}
	return nil
}

// Elements returns the ordered elements of an array node, or nil.  The
// slice is shared with n.
func (n *Node) Elements() []*Node {
	if n.kind == Array {
		return n.a
	}
	return nil
}

// SetNull resets n to null, releasing any payload.
func (n *Node) SetNull() { *n = Node{} }

// SetBool resets n to a boolean holding v.
func (n *Node) SetBool(v bool) { *n = Node{kind: Bool, b: v} }

// SetInt resets n to an integer holding v.
func (n *Node) SetInt(v int64) { *n = Node{kind: Integer, i: v} }

// SetFloat resets n to a number holding v.
func (n *Node) SetFloat(v float64) { *n = Node{kind: Float, f: v} }

// SetString resets n to a string holding v.
func (n *Node) SetString(v string) { *n = Node{kind: String, s: v} }

// MakeObject converts n into an empty object.  A node that is already
// an object keeps its members.
func (n *Node) MakeObject() *Node {
	if n.kind != Object {
		*n = Node{kind: Object}
	}
	return n
}

// MakeArray converts n into an empty array.  A node that is already an
// array keeps its elements.
func (n *Node) MakeArray() *Node {
	if n.kind != Array {
		*n = Node{kind: Array}
	}
	return n
}

// Set returns the value node of the first member of n named key,
// appending a new null member if there is none.  A node that is not an
// object becomes one.
func (n *Node) Set(key string) *Node {
	n.MakeObject()
	for _, m := range n.o {
		if m.Key == key {
			return m.Value
		}
	}
	v := New()
	n.o = append(n.o, Field{Key: key, Value: v})
	return v
}

// Append adds a new null element to the end of n and returns it.  A
// node that is not an array becomes one.
func (n *Node) Append() *Node {
	n.MakeArray()
	v := New()
	n.a = append(n.a, v)
	return v
}

// AppendField adds a new null member named key to the end of n without
// regard to duplicates, and returns its value node.  A node that is not
// an object becomes one.
func (n *Node) AppendField(key string) *Node {
	n.MakeObject()
	v := New()
	n.o = append(n.o, Field{Key: key, Value: v})
	return v
}

// Insert places a new null element at position i of n, shifting later
// elements up, and returns it.  A node that is not an array becomes
// one; an index at or beyond the end appends.
func (n *Node) Insert(i int) *Node {
	n.MakeArray()
	if i < 0 {
		i = 0
	}
	if i >= len(n.a) {
		return n.Append()
	}
	v := New()
	n.a = append(n.a, nil)
	copy(n.a[i+1:], n.a[i:])
	n.a[i] = v
	return v
}

func typeError(k Kind, want string) error {
	return &jstream.TypeError{Have: k.String(), Want: want}
}

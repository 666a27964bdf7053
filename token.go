// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jstream

// Token is the type of a structural event in a JSON document stream.
type Token byte

// Constants defining the valid Token values.
const (
	NotAvailable Token = iota // no token: end of stream at top level
	StartObject               // open brace "{"
	EndObject                 // close brace "}"
	StartArray                // open bracket "["
	EndArray                  // close bracket "]"
	FieldName                 // object member key
	String                    // string value
	Integer                   // number: no fraction, no or positive exponent, fits int64
	Float                     // any other number
	True                      // constant: true
	False                     // constant: false
	Null                      // constant: null
)

var tokenStr = [...]string{
	NotAvailable: "no token",
	StartObject:  `"{"`,
	EndObject:    `"}"`,
	StartArray:   `"["`,
	EndArray:     `"]"`,
	FieldName:    "field name",
	String:       "string",
	Integer:      "integer",
	Float:        "number",
	True:         "true",
	False:        "false",
	Null:         "null",
}

func (t Token) String() string {
	if int(t) >= len(tokenStr) {
		return "invalid token"
	}
	return tokenStr[t]
}

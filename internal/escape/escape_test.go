// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package escape_test

import (
	"testing"

	"github.com/creachadair/jstream/internal/escape"

	"go4.org/mem"
)

func TestAppend(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{" ", " "},
		{"ok go", "ok go"},
		{"a\t\nb", `a\t\nb`},
		{"\b\f\n\r\t", `\b\f\n\r\t`},
		{`a "b" c`, `a \"b\" c`},
		{`back\slash`, `back\\slash`},
		{"\x00\x01\x02", `\u0000\u0001\u0002`},
		{"<\x1e>", `<\u001E>`},
		{"This is the end\v", `This is the end\u000B`},
		{"café", "café"}, // multibyte passes through
		{"mixed \x1f\"é", `mixed \u001F\"é`},
	}
	for _, test := range tests {
		got := string(escape.Append(nil, mem.S(test.input)))
		if got != test.want {
			t.Errorf("Append(%#q): got %#q, want %#q", test.input, got, test.want)
		}
	}
}

func TestAppendPrefix(t *testing.T) {
	got := string(escape.Append([]byte(`"`), mem.S("a\nb")))
	if want := `"a\nb`; got != want {
		t.Errorf("Append: got %#q, want %#q", got, want)
	}
}

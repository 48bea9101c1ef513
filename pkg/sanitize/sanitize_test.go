package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "12 MG Road, Bengaluru", "12 MG Road, Bengaluru"},
		{"tags lose delimiters", "<script>alert(1)</script>", "scriptalert(1)/script"},
		{"javascript protocol", "JavaScript:alert(1)", "alert(1)"},
		{"event handler", `img src=x onerror=alert(1)`, "img src=x alert(1)"},
		{"event handler with spaces", `div onClick = "x"`, `div  "x"`},
		{"reassembly is stripped", "javajavascript:script:alert(1)", "alert(1)"},
		{"trims", "  hello  ", "hello"},
		{"words starting with on survive", "one online order", "one online order"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Text(tc.in))
		})
	}
}

func TestOptional(t *testing.T) {
	assert.Nil(t, Optional(nil))

	in := "<b>note</b>"
	out := Optional(&in)
	if assert.NotNil(t, out) {
		assert.Equal(t, "bnote/b", *out)
	}
}

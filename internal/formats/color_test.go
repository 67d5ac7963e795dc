package formats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeColor(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"#ff0000", "#FF0000"},
		{"ff0000", "#FF0000"},
		{"FF8800", "#FF8800"},
		{"#FF8800CC", "#FF8800"}, // alpha dropped
		{"#abc", "#AABBCC"},      // shorthand expanded
		{"", "#000000"},
		{"not-a-color", "#000000"},
		{"#12345", "#000000"},
		{"#GG0000", "#000000"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NormalizeColor(c.in), "input %q", c.in)
	}
}

package correction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \n", ""},
		{"no marker", "  just a plain note  ", "just a plain note"},
		{"ellipsis actually", "The function should return true... actually, return false", "return false"},
		{"ellipsis wait", "Call Bob.. wait call Alice", "call Alice"},
		{"ellipsis scratch that", "First approach... scratch that, use the second approach", "use the second approach"},
		{"case insensitive", "old plan... ACTUALLY new plan", "new plan"},
		{"no I mean", "We need three parameters... no, I mean four parameters", "four parameters"},
		{"correction that should be", "Set the port to 80, correction, that should be 8080", "8080"},
		{"never mind", "This is fine, never mind, let's do something else", "let's do something else"},
		{"forget that", "Buy milk forget that buy bread", "buy bread"},
		{"marker with nothing after", "delete the table... actually", ""},
		{"single period is not an ellipsis", "Done. actually fine", "Done. actually fine"},
		{"last marker wins within a rule", "a... actually b... actually c", "c"},
		{"rules chain", "one... actually two, no I mean three", "three"},
		{"all three rules", "x... wait y no, I mean z never mind done", "done"},
		{"word boundary on no", "piano I mean nothing", "piano I mean nothing"},
		{"marker on later line is kept", "first line\nsecond... actually third", "first line\nsecond... actually third"},
		{"first line marker keeps later lines", "a... actually b\nc", "b\nc"},
		{"marker ending first line", "drop this... actually\nkeep this", "keep this"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.in))
		})
	}
}

func TestResolveWithoutMarkerIsTrim(t *testing.T) {
	for _, in := range []string{"hello", " research OAuth ", "\tsummary of the day\n", "no problem at all"} {
		assert.Equal(t, strings.TrimSpace(in), Resolve(in))
		assert.False(t, Changed(in), in)
	}
}

func TestResolveEllipsisActuallyKeepsTail(t *testing.T) {
	for _, b := range []string{"return false", "  use Redis  ", "x"} {
		in := "whatever came before..." + " actually, " + b
		assert.Equal(t, strings.TrimSpace(b), Resolve(in))
	}
}

func TestChanged(t *testing.T) {
	assert.True(t, Changed("a... actually b"))
	assert.False(t, Changed("  a b  "))
}

package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStringList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "strings", text: `("map" "filter")`, want: []string{"map", "filter"}},
		{name: "symbols", text: `(map mapv mapcat)`, want: []string{"map", "mapv", "mapcat"}},
		{name: "mixed with whitespace", text: " ( \"a\"\n b ) \n", want: []string{"a", "b"}},
		{name: "escaped quote", text: `("say \"hi\"")`, want: []string{`say "hi"`}},
		{name: "empty list", text: `()`, want: []string{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseStringList(tt.text)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseStringList(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestParseStringListRejectsMalformed(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"not-a-list", "", "nil", `("a"`, `("a) b`, `(a (b))`, `(a) (b)`} {
		_, err := ParseStringList(text)
		assert.ErrorIs(t, err, ErrMalformedResponse, "text %q", text)
	}
}

func TestIsNil(t *testing.T) {
	t.Parallel()

	assert.True(t, IsNil("nil"))
	assert.True(t, IsNil("\x1b nil\r\n"))
	assert.True(t, IsNil(""))
	assert.True(t, IsNil("  \n"))
	assert.True(t, IsNil("-> NIL"))
	assert.False(t, IsNil("([x])"))
	assert.False(t, IsNil("nilly"))
}

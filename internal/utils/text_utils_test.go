package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	t.Run("short text is untouched", func(t *testing.T) {
		assert.Equal(t, "hello", Truncate("hello", 100))
	})

	t.Run("zero or negative limit disables truncation", func(t *testing.T) {
		long := strings.Repeat("x", 1000)
		assert.Equal(t, long, Truncate(long, 0))
		assert.Equal(t, long, Truncate(long, -1))
	})

	t.Run("long text gets the marker", func(t *testing.T) {
		got := Truncate(strings.Repeat("x", 100), 10)
		assert.True(t, strings.HasPrefix(got, strings.Repeat("x", 10)))
		assert.True(t, strings.HasSuffix(got, truncationMarker))
	})

	t.Run("cut never splits a rune", func(t *testing.T) {
		text := strings.Repeat("é", 10) // 2 bytes per rune
		got := Truncate(text, 5)
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, strings.Repeat("é", 2)+truncationMarker, got)
	})
}

func TestSanitizeUTF8(t *testing.T) {
	t.Run("valid text passes through", func(t *testing.T) {
		assert.Equal(t, "héllo wörld", SanitizeUTF8("héllo wörld"))
	})

	t.Run("invalid bytes are dropped", func(t *testing.T) {
		got := SanitizeUTF8("ok\xff\xfe then")
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, "ok then", got)
	})
}

func TestPrepareForPrompt(t *testing.T) {
	got := PrepareForPrompt("bad\xffbyte "+strings.Repeat("y", 50), 20)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, truncationMarker))
}

package gtts

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSplitText(t *testing.T) {
	assert.Empty(t, splitText("   ", 10))
	assert.Equal(t, []string{"hello world"}, splitText("  hello   world ", 100))
	assert.Equal(t, []string{"aaa bbb", "ccc"}, splitText("aaa bbb ccc", 7))
	assert.Equal(t, []string{"abcde", "fgh", "ij"}, splitText("abcdefgh ij", 5))
}

func TestSplitTextRuneBoundaries(t *testing.T) {
	text := strings.Repeat("नमस्ते ", 40)
	chunks := splitText(text, maxChunkRunes)

	assert.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk))
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), maxChunkRunes)
	}
	assert.Equal(t, strings.Join(strings.Fields(text), " "), strings.Join(chunks, " "))
}

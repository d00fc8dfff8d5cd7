package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultDictionary(t *testing.T) {
	dict := DefaultDictionary()

	assert.True(t, dict.Contains("ai overlord"))
	assert.True(t, dict.Contains("rogue"))
	assert.False(t, dict.Contains("god"))
	assert.True(t, dict.Contains("shit"))

	for _, word := range []string{"2g1c", "upskirt", "jailbait", "threesome", "apeshit", "voyeur", "zoophilia"} {
		assert.True(t, dict.Contains(word), word)
	}
	assert.Greater(t, dict.Len(), 400)
}

func TestDictionary_Normalization(t *testing.T) {
	dict := NewDictionary("  Space   Pirate ", "", "   ")

	assert.Equal(t, 1, dict.Len())
	assert.True(t, dict.Contains("space pirate"))
	assert.True(t, dict.Contains("SPACE PIRATE"))
	assert.Equal(t, []string{"space pirate"}, dict.Words())

	dict.Remove("Space Pirate")
	assert.Equal(t, 0, dict.Len())
}

func TestCompileTerms(t *testing.T) {
	assert.Nil(t, compileTerms(nil))
	assert.Nil(t, compileTerms([]string{" ", ""}))

	re := compileTerms([]string{"cut", "cut myself"})
	m := re.FindStringSubmatch("i cut myself")
	assert.Equal(t, "cut myself", m[1])

	// Regex metacharacters in terms are literal.
	re = compileTerms([]string{"a.b"})
	assert.True(t, re.MatchString("see a.b here"))
	assert.False(t, re.MatchString("see axb here"))
}

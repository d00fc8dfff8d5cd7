package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Check(t *testing.T) {
	filter := NewFilter()

	tests := []struct {
		name     string
		text     string
		clean    bool
		category string
		term     string
	}{
		{name: "benign prompt", text: "A lonely lighthouse keeper befriends a seal", clean: true},
		{name: "empty text", text: "", clean: true},
		{name: "whitespace only", text: "   \n\t", clean: true},
		{name: "violence keyword", text: "I want to kill the knight", category: CategoryViolence, term: "kill"},
		{name: "upper case", text: "KILL", category: CategoryViolence, term: "kill"},
		{name: "trailing punctuation", text: "Then they would kill!", category: CategoryViolence, term: "kill"},
		{name: "substring of a longer word", text: "A skillful archer in a class of wizards", clean: true},
		{name: "phrase keyword", text: "remember the bomb threat", category: CategoryViolence, term: "bomb"},
		{name: "slash in term", text: "a story about 9/11", category: CategoryMisc, term: "9/11"},
		{name: "profanity dictionary addition", text: "The rogue robot", category: CategoryProfanity, term: "rogue"},
		{name: "multi-word dictionary addition", text: "bow to the AI   overlord", category: CategoryProfanity, term: "ai overlord"},
		{name: "dictionary removal", text: "the old sea god slept", clean: true},
		{name: "profanity dictionary default", text: "what a twat", category: CategoryProfanity, term: "twat"},
		{name: "dictionary only upskirt", text: "an upskirt photo", category: CategoryProfanity, term: "upskirt"},
		{name: "dictionary only jailbait", text: "the jailbait rumor", category: CategoryProfanity, term: "jailbait"},
		{name: "dictionary only threesome", text: "they planned a threesome", category: CategoryProfanity, term: "threesome"},
		{name: "dictionary only apeshit", text: "he went apeshit", category: CategoryProfanity, term: "apeshit"},
		{name: "dictionary only voyeur", text: "a voyeur at the window", category: CategoryProfanity, term: "voyeur"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := filter.Check(tt.text)
			assert.Equal(t, tt.clean, verdict.Clean)
			if !tt.clean {
				assert.Equal(t, tt.category, verdict.Category)
				assert.Equal(t, tt.term, verdict.Term)
			}
			assert.Equal(t, tt.clean, filter.IsClean(tt.text))
		})
	}
}

func TestFilter_KeywordPassRunsFirst(t *testing.T) {
	// "porn" appears in both the sexual category and the profanity dictionary.
	verdict := NewFilter().Check("porn")
	assert.False(t, verdict.Clean)
	assert.Equal(t, CategorySexual, verdict.Category)
}

func TestFilter_DictionaryMembership(t *testing.T) {
	withRogue := NewFilter(WithKeywords(nil), WithDictionary(NewDictionary("rogue")))
	assert.False(t, withRogue.IsClean("rogue"))

	withoutRogue := NewFilter(WithKeywords(nil), WithDictionary(NewDictionary("rogue").Remove("rogue")))
	assert.True(t, withoutRogue.IsClean("rogue"))
}

func TestFilter_SnapshotsDictionary(t *testing.T) {
	dict := NewDictionary("gremlin")
	filter := NewFilter(WithKeywords(nil), WithDictionary(dict))

	dict.Remove("gremlin").Add("goblin")

	assert.False(t, filter.IsClean("a gremlin"))
	assert.True(t, filter.IsClean("a goblin"))
}

func TestFilter_EmptyTables(t *testing.T) {
	filter := NewFilter(WithKeywords(nil), WithDictionary(NewDictionary()))
	assert.True(t, filter.IsClean("anything at all"))
}

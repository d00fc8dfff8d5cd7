// Package moderation screens user-supplied and generated text before it is
// sent to a model or stored.
package moderation

import (
	"regexp"
	"strings"
)

// Verdict is the outcome of a moderation check.
type Verdict struct {
	Clean    bool
	Category string
	Term     string
}

type compiledCategory struct {
	name    string
	pattern *regexp.Regexp
}

// Filter is an immutable two-pass text screen: the harmful keyword table
// first, then the profanity dictionary. It is safe for concurrent use.
type Filter struct {
	categories []compiledCategory
	profanity  *regexp.Regexp
}

// Option configures a Filter.
type Option func(*filterOptions)

type filterOptions struct {
	keywords   []KeywordCategory
	dictionary *Dictionary
}

// WithKeywords replaces the harmful keyword table.
func WithKeywords(categories []KeywordCategory) Option {
	return func(o *filterOptions) {
		o.keywords = categories
	}
}

// WithDictionary replaces the profanity dictionary.
func WithDictionary(d *Dictionary) Option {
	return func(o *filterOptions) {
		o.dictionary = d
	}
}

// NewFilter compiles a Filter. Without options it uses DefaultKeywords and
// DefaultDictionary.
func NewFilter(opts ...Option) *Filter {
	o := &filterOptions{keywords: DefaultKeywords}
	for _, opt := range opts {
		opt(o)
	}
	if o.dictionary == nil {
		o.dictionary = DefaultDictionary()
	}

	f := &Filter{}
	for _, cat := range o.keywords {
		if re := compileTerms(cat.Terms); re != nil {
			f.categories = append(f.categories, compiledCategory{name: cat.Name, pattern: re})
		}
	}
	f.profanity = compileTerms(o.dictionary.Words())
	return f
}

// Check scans text and reports the first category and term that matched.
func (f *Filter) Check(text string) Verdict {
	normalized := strings.ToLower(text)
	if strings.TrimSpace(normalized) == "" {
		return Verdict{Clean: true}
	}

	for _, cat := range f.categories {
		if m := cat.pattern.FindStringSubmatch(normalized); m != nil {
			return Verdict{Category: cat.name, Term: normalizeTerm(m[1])}
		}
	}
	if f.profanity != nil {
		if m := f.profanity.FindStringSubmatch(normalized); m != nil {
			return Verdict{Category: CategoryProfanity, Term: normalizeTerm(m[1])}
		}
	}
	return Verdict{Clean: true}
}

// IsClean reports whether text passes both moderation passes.
func (f *Filter) IsClean(text string) bool {
	return f.Check(text).Clean
}

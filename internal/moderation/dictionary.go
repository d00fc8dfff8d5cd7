package moderation

import (
	"regexp"
	"sort"
	"strings"
)

// Dictionary is a mutable word list used to build a Filter. Mutate it during
// startup only; NewFilter snapshots the contents, so later edits never reach
// a running Filter.
type Dictionary struct {
	words map[string]struct{}
}

// NewDictionary returns a dictionary holding the given words.
func NewDictionary(words ...string) *Dictionary {
	d := &Dictionary{words: make(map[string]struct{}, len(words))}
	return d.Add(words...)
}

// DefaultDictionary returns the stock profanity list with the service
// additions applied and the service removals taken out.
func DefaultDictionary() *Dictionary {
	return NewDictionary(defaultProfanity...).
		Add(defaultAdditions...).
		Remove(defaultRemovals...)
}

// Add inserts words, normalized to lower case. Blank entries are ignored.
func (d *Dictionary) Add(words ...string) *Dictionary {
	for _, w := range words {
		if w = normalizeTerm(w); w != "" {
			d.words[w] = struct{}{}
		}
	}
	return d
}

// Remove deletes words. Unknown words are a no-op.
func (d *Dictionary) Remove(words ...string) *Dictionary {
	for _, w := range words {
		delete(d.words, normalizeTerm(w))
	}
	return d
}

// Contains reports whether the exact (normalized) word is in the dictionary.
func (d *Dictionary) Contains(word string) bool {
	_, ok := d.words[normalizeTerm(word)]
	return ok
}

// Words returns the dictionary contents in sorted order.
func (d *Dictionary) Words() []string {
	out := make([]string, 0, len(d.words))
	for w := range d.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of words.
func (d *Dictionary) Len() int {
	return len(d.words)
}

func normalizeTerm(term string) string {
	return strings.Join(strings.Fields(strings.ToLower(term)), " ")
}

// compileTerms builds one whole-word alternation for the given terms. The term
// itself is captured in group 1. Multi-word terms tolerate any run of
// whitespace between words. Returns nil for an empty term list.
func compileTerms(terms []string) *regexp.Regexp {
	uniq := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		if t = normalizeTerm(t); t != "" {
			uniq[t] = struct{}{}
		}
	}
	if len(uniq) == 0 {
		return nil
	}

	sorted := make([]string, 0, len(uniq))
	for t := range uniq {
		sorted = append(sorted, t)
	}
	// Longest first so the reported term is the most specific one.
	sort.Slice(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) > len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})

	alternatives := make([]string, len(sorted))
	for i, t := range sorted {
		words := strings.Fields(t)
		for j, w := range words {
			words[j] = regexp.QuoteMeta(w)
		}
		alternatives[i] = strings.Join(words, `\s+`)
	}

	const boundary = `[^\p{L}\p{N}_]`
	pattern := `(?:^|` + boundary + `)(` + strings.Join(alternatives, "|") + `)(?:$|` + boundary + `)`
	return regexp.MustCompile(pattern)
}

package knowledge

import (
	"sort"
	"strings"
	"unicode"
)

// #region stopwords
// stopwords contains common English words excluded from topic matching.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true,
	"was": true, "were": true, "do": true, "does": true, "did": true,
	"have": true, "has": true, "had": true, "be": true, "been": true,
	"being": true, "will": true, "would": true, "could": true, "should": true,
	"may": true, "might": true, "can": true, "shall": true,
	"and": true, "or": true, "but": true, "if": true,
	"then": true, "than": true, "so": true, "as": true, "at": true,
	"by": true, "for": true, "from": true, "in": true, "into": true,
	"of": true, "on": true, "to": true, "with": true, "about": true,
	"up": true, "out": true, "it": true, "its": true, "this": true,
	"that": true, "what": true, "which": true, "who": true, "how": true,
	"when": true, "where": true, "why": true, "you": true, "me": true,
	"i": true, "my": true, "your": true, "we": true, "they": true,
	"them": true, "tell": true, "between": true, "analyze": true,
}

// negations flip a statement's polarity for consistency checks.
var negations = map[string]bool{
	"not": true, "no": true, "never": true, "cannot": true, "without": true,
}

// Tokenize splits text into unique lowercase non-stopword tokens in first-seen order.
func Tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]bool)
	var tokens []string
	for _, w := range words {
		if len(w) < 2 || stopwords[w] || negations[w] || seen[w] {
			continue
		}
		seen[w] = true
		tokens = append(tokens, w)
	}
	return tokens
}

// SharedKeywords returns the count of tokens present in both slices.
func SharedKeywords(a, b []string) int {
	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[t] = true
	}
	count := 0
	for _, t := range b {
		if set[t] {
			count++
		}
	}
	return count
}

func negated(text string) bool {
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if negations[strings.Trim(w, ".,;:!?")] {
			return true
		}
	}
	return false
}

// #endregion stopwords

// #region ranking

// rank scores candidate facts by keyword overlap with the query and keeps the
// consistent ones: non-empty, within MaxFactLen, unique ids.
func rank(query string, candidates []Fact, limit int) []Fact {
	if limit <= 0 {
		limit = DefaultLimit
	}
	qTokens := Tokenize(query)
	if len(qTokens) == 0 {
		return nil
	}
	seen := make(map[string]bool)
	var out []Fact
	for _, f := range candidates {
		if strings.TrimSpace(f.Content) == "" || len(f.Content) > MaxFactLen {
			continue
		}
		if seen[f.ID] {
			continue
		}
		shared := SharedKeywords(qTokens, Tokenize(f.Content))
		if shared == 0 {
			continue
		}
		seen[f.ID] = true
		f.Score = float64(shared) / float64(len(qTokens))
		out = append(out, f)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// consistent reports whether fact agrees in polarity with every strongly
// overlapping known fact.
func consistent(fact string, known []Fact) bool {
	fTokens := Tokenize(fact)
	if len(fTokens) == 0 {
		return true
	}
	fNeg := negated(fact)
	for _, k := range known {
		kTokens := Tokenize(k.Content)
		shared := SharedKeywords(fTokens, kTokens)
		if shared*2 < len(fTokens) || shared*2 < len(kTokens) {
			continue
		}
		if negated(k.Content) != fNeg {
			return false
		}
	}
	return true
}

// matches reports whether text shares at least one token with pattern. Empty pattern matches.
func matches(pattern, text string) bool {
	p := Tokenize(pattern)
	if len(p) == 0 {
		return true
	}
	return SharedKeywords(p, Tokenize(text)) > 0
}

// #endregion ranking

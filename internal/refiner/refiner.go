// Package refiner turns raw ASR output into display-ready text: whitespace
// normalization, contraction repair, technical-jargon casing, sentence
// capitalization, and terminal punctuation.
package refiner

import (
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Refiner applies the fixed refinement step order to transcript text. The
// jargon table is read-mostly: Refine takes a read lock, AddCustomJargon is
// the only mutation entry point.
type Refiner struct {
	mu     sync.RWMutex
	jargon map[string]string
	rules  []jargonRule
}

type jargonRule struct {
	pattern   *regexp.Regexp
	canonical string
}

// New creates a refiner seeded with the built-in jargon table. Extra entries
// overwrite built-ins on duplicate keys (last write wins).
func New(extra map[string]string) *Refiner {
	table := make(map[string]string, len(defaultJargon)+len(extra))
	for term, canonical := range defaultJargon {
		table[term] = canonical
	}
	for term, canonical := range extra {
		term = strings.ToLower(strings.TrimSpace(term))
		canonical = strings.TrimSpace(canonical)
		if term == "" || canonical == "" {
			continue
		}
		table[term] = canonical
	}

	r := &Refiner{jargon: table}
	r.rebuildRules()
	return r
}

// Refine applies all refinement steps in order. Empty or whitespace-only
// input yields an empty string. The result is stable under re-application.
func (r *Refiner) Refine(text string) string {
	normalized := normalizeWhitespace(text)
	if normalized == "" {
		return ""
	}

	normalized = fixContractions(normalized)
	normalized = r.applyJargon(normalized)
	normalized = capitalizeSentenceStarts(normalized)
	normalized = capitalizePronounI(normalized)
	return ensureTerminalPunctuation(normalized)
}

// AddCustomJargon inserts or overwrites one jargon entry. The update is
// visible to the next Refine call. Blank terms or canonicals are ignored.
func (r *Refiner) AddCustomJargon(term string, canonical string) {
	term = strings.ToLower(strings.TrimSpace(term))
	canonical = strings.TrimSpace(canonical)
	if term == "" || canonical == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.jargon[term] = canonical
	r.rebuildRules()
}

// JargonSize reports the current number of jargon entries.
func (r *Refiner) JargonSize() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jargon)
}

// applyJargon replaces whole-word matches of each jargon term with its
// canonical form. Matching is case-insensitive and never rewrites substrings
// of longer words.
func (r *Refiner) applyJargon(text string) string {
	r.mu.RLock()
	rules := r.rules
	r.mu.RUnlock()

	for _, rule := range rules {
		text = rule.pattern.ReplaceAllLiteralString(text, rule.canonical)
	}
	return text
}

// rebuildRules recompiles the jargon match rules. Longest terms first so
// multi-word entries win before their components; map iteration order alone
// would be nondeterministic. Caller holds the write lock (or owns r solely).
func (r *Refiner) rebuildRules() {
	terms := make([]string, 0, len(r.jargon))
	for term := range r.jargon {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if len(terms[i]) != len(terms[j]) {
			return len(terms[i]) > len(terms[j])
		}
		return terms[i] < terms[j]
	})

	rules := make([]jargonRule, 0, len(terms))
	for _, term := range terms {
		pattern, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
		if err != nil {
			continue
		}
		rules = append(rules, jargonRule{pattern: pattern, canonical: r.jargon[term]})
	}
	r.rules = rules
}

// normalizeWhitespace collapses runs of whitespace, trims the ends, and drops
// stray spaces before punctuation.
func normalizeWhitespace(text string) string {
	normalized := strings.Join(strings.Fields(text), " ")
	if normalized == "" {
		return ""
	}
	return spaceBeforePunctuation.ReplaceAllString(normalized, "$1")
}

var spaceBeforePunctuation = regexp.MustCompile(`\s+([.,!?;:])`)

// ensureTerminalPunctuation appends a period when the text does not already
// end with sentence-terminal punctuation.
func ensureTerminalPunctuation(text string) string {
	if text == "" {
		return text
	}
	switch text[len(text)-1] {
	case '.', '!', '?':
		return text
	}
	return text + "."
}

package refiner

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// contractionEntry pairs a misheard bare word with its apostrophized form.
// Matching is whole-word and case-insensitive; a leading capital in the
// match is preserved in the replacement.
type contractionEntry struct {
	pattern     *regexp.Regexp
	replacement string
}

func contraction(word string, replacement string) contractionEntry {
	return contractionEntry{
		pattern:     regexp.MustCompile(`(?i)\b` + word + `\b`),
		replacement: replacement,
	}
}

// contractions is the fixed repair table. ASR backends frequently drop
// apostrophes; entries that collide with real words (were, well, its) are
// carried anyway to match observed dictation behavior.
var contractions = []contractionEntry{
	contraction("im", "I'm"),
	contraction("ive", "I've"),
	contraction("ill", "I'll"),
	contraction("id", "I'd"),
	contraction("youre", "you're"),
	contraction("youve", "you've"),
	contraction("youll", "you'll"),
	contraction("youd", "you'd"),
	contraction("hes", "he's"),
	contraction("shes", "she's"),
	contraction("its", "it's"),
	contraction("were", "we're"),
	contraction("weve", "we've"),
	contraction("well", "we'll"),
	contraction("wed", "we'd"),
	contraction("theyre", "they're"),
	contraction("theyve", "they've"),
	contraction("theyll", "they'll"),
	contraction("theyd", "they'd"),
	contraction("dont", "don't"),
	contraction("doesnt", "doesn't"),
	contraction("didnt", "didn't"),
	contraction("cant", "can't"),
	contraction("couldnt", "couldn't"),
	contraction("wouldnt", "wouldn't"),
	contraction("shouldnt", "shouldn't"),
	contraction("wont", "won't"),
	contraction("isnt", "isn't"),
	contraction("arent", "aren't"),
	contraction("wasnt", "wasn't"),
	contraction("werent", "weren't"),
	contraction("hasnt", "hasn't"),
	contraction("havent", "haven't"),
	contraction("hadnt", "hadn't"),
}

// fixContractions rewrites every table match, keeping a leading capital when
// the matched word had one.
func fixContractions(text string) string {
	for _, entry := range contractions {
		text = entry.pattern.ReplaceAllStringFunc(text, func(match string) string {
			return matchCase(match, entry.replacement)
		})
	}
	return text
}

// matchCase uppercases the first letter of replacement when match starts with
// an uppercase letter. Replacements are never lowercased: "im" still becomes
// "I'm".
func matchCase(match string, replacement string) string {
	first, _ := utf8.DecodeRuneInString(match)
	if !unicode.IsUpper(first) {
		return replacement
	}

	r, size := utf8.DecodeRuneInString(replacement)
	if r == utf8.RuneError {
		return replacement
	}
	return string(unicode.ToUpper(r)) + replacement[size:]
}

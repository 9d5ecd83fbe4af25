package refiner

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// capitalizeSentenceStarts uppercases the first alphabetic character of the
// text and the first alphabetic character following sentence-terminal
// punctuation plus whitespace. Nothing is ever lowercased, so canonical
// jargon casing survives.
func capitalizeSentenceStarts(text string) string {
	var out strings.Builder
	out.Grow(len(text))

	capitalizeFirst := true
	pendingBoundary := false
	sawWhitespace := false

	for _, r := range text {
		switch {
		case capitalizeFirst && unicode.IsLetter(r):
			r = unicode.ToUpper(r)
			capitalizeFirst = false
			pendingBoundary = false
			sawWhitespace = false
		case pendingBoundary && unicode.IsSpace(r):
			sawWhitespace = true
		case pendingBoundary && sawWhitespace && unicode.IsLetter(r):
			r = unicode.ToUpper(r)
			pendingBoundary = false
			sawWhitespace = false
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			// A letter directly after punctuation (as in "Next.js") is not a
			// sentence start.
			pendingBoundary = false
			sawWhitespace = false
		}

		out.WriteRune(r)

		if r == '.' || r == '!' || r == '?' {
			pendingBoundary = true
			sawWhitespace = false
		}
	}

	return out.String()
}

var (
	pronounIContractionPattern = regexp.MustCompile(`\bi['’](?:m|d|ll|ve|re|s)\b`)
	pronounIWordPattern        = regexp.MustCompile(`\bi\b`)
)

// capitalizePronounI uppercases the standalone pronoun "i" and the "i" in
// contractions like "i'm". Abbreviation forms such as "i.e." are left alone.
func capitalizePronounI(text string) string {
	text = pronounIContractionPattern.ReplaceAllStringFunc(text, func(match string) string {
		return "I" + match[1:]
	})

	matches := pronounIWordPattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var out strings.Builder
	out.Grow(len(text))

	last := 0
	for _, match := range matches {
		start, end := match[0], match[1]
		out.WriteString(text[last:start])
		if isAbbreviationI(text, start, end) {
			out.WriteString(text[start:end])
		} else {
			out.WriteString("I")
		}
		last = end
	}
	out.WriteString(text[last:])
	return out.String()
}

// isAbbreviationI reports whether the "i" at [start,end) is part of a dotted
// abbreviation like "i.e." or "e.i.".
func isAbbreviationI(text string, start int, end int) bool {
	if end+1 < len(text) && text[end] == '.' {
		next, _ := utf8.DecodeRuneInString(text[end+1:])
		if unicode.IsLetter(next) {
			return true
		}
	}

	if start > 1 && text[start-1] == '.' && end < len(text) && text[end] == '.' {
		prev, _ := utf8.DecodeLastRuneInString(text[:start-1])
		if unicode.IsLetter(prev) {
			return true
		}
	}

	return false
}

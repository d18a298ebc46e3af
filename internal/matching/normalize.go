package matching

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var corporateSuffixes = map[string]bool{
	"inc": true, "incorporated": true, "llc": true, "ltd": true, "limited": true,
	"corp": true, "corporation": true, "co": true, "company": true, "plc": true,
	"gmbh": true, "sa": true, "ag": true, "nv": true, "bv": true, "sarl": true,
	"spa": true, "holdings": true, "holding": true,
}

var lowSignalWords = map[string]bool{
	"the": true, "of": true, "and": true, "for": true, "to": true, "in": true,
	"on": true, "at": true, "by": true, "from": true, "with": true, "de": true,
	"la": true, "le": true, "el": true, "da": true, "do": true, "di": true,
	"du": true, "del": true, "des": true, "van": true, "von": true, "y": true,
	"a": true, "an": true,
}

var stripDiacritics = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases, strips diacritics via NFKD decomposition, expands
// "&", strips apostrophes, folds non-alphanumerics to spaces, collapses
// whitespace, and drops corporate-suffix/low-signal tokens, returning the
// remaining tokens rejoined with single spaces.
func Normalize(raw string) string {
	s := strings.ToLower(raw)
	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, "’", "")

	if folded, _, err := transform.String(stripDiacritics, s); err == nil {
		s = folded
	}

	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	tokens := strings.Fields(b.String())
	kept := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if corporateSuffixes[t] || lowSignalWords[t] {
			continue
		}
		kept = append(kept, t)
	}
	return strings.Join(kept, " ")
}

// Tokens splits an already-normalized string into its token set.
func Tokens(normalized string) []string {
	if normalized == "" {
		return nil
	}
	return strings.Split(normalized, " ")
}

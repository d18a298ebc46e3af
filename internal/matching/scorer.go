package matching

// MinAccept is the hard acceptance threshold below which a candidate/variant
// pairing is rejected outright.
const MinAccept = 0.86

// levenshteinDistance is the classic two-row dynamic-programming edit
// distance over runes.
func levenshteinDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prevRow := make([]int, len(b)+1)
	row := make([]int, len(b)+1)
	for j := range prevRow {
		prevRow[j] = j
	}

	for i := 1; i <= len(a); i++ {
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prevRow[j] + 1
			ins := row[j-1] + 1
			sub := prevRow[j-1] + cost
			row[j] = min3(del, ins, sub)
		}
		row, prevRow = prevRow, row
	}

	return prevRow[len(b)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// editSimilarity returns 1 - levenshtein(a, b) / max(len(a), len(b)), or 1
// when both strings are empty.
func editSimilarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 1.0
	}
	dist := levenshteinDistance(ra, rb)
	return 1.0 - float64(dist)/float64(maxLen)
}

func tokenSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}

// containmentAndJaccard returns (shared, containment, jaccard) for two
// token sets, using set semantics (duplicates collapsed).
func containmentAndJaccard(a, b []string) (shared int, containment, jaccard float64) {
	setA, setB := tokenSet(a), tokenSet(b)
	for t := range setA {
		if setB[t] {
			shared++
		}
	}
	minLen := len(setA)
	if len(setB) < minLen {
		minLen = len(setB)
	}
	unionLen := len(setA) + len(setB) - shared

	if minLen > 0 {
		containment = float64(shared) / float64(minLen)
	}
	if unionLen > 0 {
		jaccard = float64(shared) / float64(unionLen)
	}
	return shared, containment, jaccard
}

// containsPhrase reports whether needle appears in haystack as a
// whole-token phrase (space-delimited substring bounded by token
// boundaries, not a raw substring match).
func containsPhrase(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	hTokens := " " + haystack + " "
	nTokens := " " + needle + " "
	return len(haystack) >= len(needle) && indexOf(hTokens, nTokens) >= 0
}

func indexOf(haystack, needle string) int {
	n, m := len(haystack), len(needle)
	if m > n {
		return -1
	}
	for i := 0; i+m <= n; i++ {
		if haystack[i:i+m] == needle {
			return i
		}
	}
	return -1
}

// scoreCandidateAgainstVariant scores a normalized candidate string against
// a single variant's normalized string, applying the token-shortlist,
// phrase-containment, strong-containment, and single-token-trap rules.
func scoreCandidateAgainstVariant(candTokens []string, candNorm string, variant Variant) float64 {
	if candNorm == variant.Normalized {
		return 1.0
	}

	if len(candTokens) == 1 && len(variant.Tokens) == 1 {
		if candTokens[0] == variant.Tokens[0] {
			return 1.0
		}
	}

	shared, containment, jaccard := containmentAndJaccard(candTokens, variant.Tokens)
	if shared == 0 {
		return 0
	}

	editSim := editSimilarity(candNorm, variant.Normalized)
	score := 0.5*containment + 0.2*jaccard + 0.3*editSim

	shorter, longer := candNorm, variant.Normalized
	if len(longer) < len(shorter) {
		shorter, longer = longer, shorter
	}
	if len(shorter) >= 4 && containsPhrase(longer, shorter) {
		if score < 0.91 {
			score = 0.91
		}
	}

	minLen := len(candTokens)
	if len(variant.Tokens) < minLen {
		minLen = len(variant.Tokens)
	}
	if containment == 1 && minLen >= 2 && editSim >= 0.8 {
		if score < 0.90 {
			score = 0.90
		}
	}

	return score
}

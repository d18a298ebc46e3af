package matching

import "github.com/location-microservice/internal/domain"

// Matcher scores offices against a company Index built once per refresh
// batch.
type Matcher struct {
	idx *Index
}

// NewMatcher wraps a prebuilt Index.
func NewMatcher(idx *Index) *Matcher {
	return &Matcher{idx: idx}
}

// Match is the outcome of scoring one office field against the company
// index.
type Match struct {
	CompanyID     int64
	CompanyName   string
	MatchedField  string // "name" | "brand" | "operator"
	MatchedValue  string
	MatchedSource VariantSource
	Score         float64
}

// MatchOffice builds the candidate strings name, brand, operator (in that
// order, skipping empties and repeats) and returns the best surviving match,
// or nil if no candidate clears MinAccept.
func (m *Matcher) MatchOffice(o *domain.Office) *Match {
	type candidate struct {
		field string
		raw   string
	}

	var candidates []candidate
	if o.Name != nil {
		candidates = append(candidates, candidate{"name", *o.Name})
	}
	if o.Brand != nil {
		candidates = append(candidates, candidate{"brand", *o.Brand})
	}
	if o.Operator != nil {
		candidates = append(candidates, candidate{"operator", *o.Operator})
	}

	var best *Match
	seenNormalized := make(map[string]bool)

	for _, cand := range candidates {
		normalized := Normalize(cand.raw)
		if normalized == "" || seenNormalized[normalized] {
			continue
		}
		seenNormalized[normalized] = true

		candMatch := m.scoreCandidate(cand.field, normalized)
		if candMatch == nil {
			continue
		}
		if best == nil || betterMatch(candMatch, best) {
			best = candMatch
		}
	}

	return best
}

func betterMatch(a, b *Match) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.MatchedSource == SourceCompanyName && b.MatchedSource != SourceCompanyName
}

func (m *Matcher) scoreCandidate(field, normalized string) *Match {
	tokens := Tokens(normalized)

	if variantIdxs, ok := m.idx.exactIndex[normalized]; ok && len(variantIdxs) > 0 {
		v := m.idx.variants[variantIdxs[0]]
		for _, vi := range variantIdxs {
			if m.idx.variants[vi].Source == SourceCompanyName {
				v = m.idx.variants[vi]
				break
			}
		}
		return &Match{
			CompanyID:     v.CompanyID,
			CompanyName:   v.CompanyName,
			MatchedField:  field,
			MatchedValue:  v.Raw,
			MatchedSource: v.Source,
			Score:         1.0,
		}
	}

	var best *Match
	for _, vi := range m.idx.shortlist(tokens) {
		v := m.idx.variants[vi]
		score := scoreCandidateAgainstVariant(tokens, normalized, v)
		if score < MinAccept {
			continue
		}
		candidate := &Match{
			CompanyID:     v.CompanyID,
			CompanyName:   v.CompanyName,
			MatchedField:  field,
			MatchedValue:  v.Raw,
			MatchedSource: v.Source,
			Score:         score,
		}
		if best == nil || betterMatch(candidate, best) {
			best = candidate
		}
	}

	return best
}

// FilterResult is the outcome of filtering a batch of offices against the
// company index.
type FilterResult struct {
	Survivors        []domain.Office
	Matches          []*Match
	MatchedCount     int
	FilteredOutCount int
}

// FilterOfficesWithKnownCompanies runs the matcher over every office and
// returns the subset that matched any company, plus counts.
func (m *Matcher) FilterOfficesWithKnownCompanies(offices []domain.Office) FilterResult {
	var result FilterResult
	for _, o := range offices {
		match := m.MatchOffice(&o)
		if match == nil {
			result.FilteredOutCount++
			continue
		}
		result.MatchedCount++
		result.Survivors = append(result.Survivors, o)
		result.Matches = append(result.Matches, match)
	}
	return result
}

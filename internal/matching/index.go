package matching

import "github.com/location-microservice/internal/domain"

// VariantSource tags whether a variant came from the company's own name or
// from one of its aliases.
type VariantSource string

const (
	SourceCompanyName VariantSource = "company_name"
	SourceAlias       VariantSource = "alias"
)

// Variant is one normalized candidate string the matcher can compare
// offices against.
type Variant struct {
	CompanyID   int64
	CompanyName string
	Raw         string
	Normalized  string
	Tokens      []string
	Source      VariantSource
}

// Index is an in-memory lookup structure over every company's variants,
// built once per refresh batch.
type Index struct {
	variants   []Variant
	exactIndex map[string][]int
	tokenIndex map[string][]int
}

// BuildIndex constructs variants for every company (its name plus each
// pipe-delimited alias), drops empty or duplicate-within-company variants,
// and indexes the survivors by exact normalized form and by token.
func BuildIndex(companies []domain.Company) *Index {
	idx := &Index{
		exactIndex: make(map[string][]int),
		tokenIndex: make(map[string][]int),
	}

	for _, c := range companies {
		seen := make(map[string]bool)

		addVariant := func(raw string, source VariantSource) {
			normalized := Normalize(raw)
			if normalized == "" || seen[normalized] {
				return
			}
			seen[normalized] = true
			idx.variants = append(idx.variants, Variant{
				CompanyID:   c.ID,
				CompanyName: c.CompanyName,
				Raw:         raw,
				Normalized:  normalized,
				Tokens:      Tokens(normalized),
				Source:      source,
			})
		}

		addVariant(c.CompanyName, SourceCompanyName)
		for _, alias := range splitAliases(c.KnownAliases) {
			addVariant(alias, SourceAlias)
		}
	}

	for i, v := range idx.variants {
		idx.exactIndex[v.Normalized] = append(idx.exactIndex[v.Normalized], i)
		for _, t := range v.Tokens {
			idx.tokenIndex[t] = append(idx.tokenIndex[t], i)
		}
	}

	return idx
}

func splitAliases(aliases *string) []string {
	if aliases == nil || *aliases == "" {
		return nil
	}
	var out []string
	start := 0
	s := *aliases
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '|' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}

// shortlist returns the indexes of every variant sharing at least one token
// with the given token set, deduplicated.
func (idx *Index) shortlist(tokens []string) []int {
	seen := make(map[int]bool)
	var out []int
	for _, t := range tokens {
		for _, i := range idx.tokenIndex[t] {
			if !seen[i] {
				seen[i] = true
				out = append(out, i)
			}
		}
	}
	return out
}

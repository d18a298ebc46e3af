package domain

// Company is a curated company record matched against normalized office
// names, brands, and operators during refresh and on read.
type Company struct {
	ID                     int64   `json:"id" db:"id"`
	CompanyName            string  `json:"companyName" db:"company_name"`
	CompanyNameNormalized  string  `json:"-" db:"company_name_normalized"`
	KnownAliases           *string `json:"knownAliases,omitempty" db:"known_aliases"`
	HQCountry              *string `json:"hqCountry,omitempty" db:"hq_country"`
	Description            *string `json:"description,omitempty" db:"description"`
	Type                   *string `json:"type,omitempty" db:"type"`
	Geography              *string `json:"geography,omitempty" db:"geography"`
	Industry               *string `json:"industry,omitempty" db:"industry"`
	SuitabilityTier        *string `json:"suitabilityTier,omitempty" db:"suitability_tier"`
}

// CompanyCSVRow is a validated row parsed from a companies CSV upload.
type CompanyCSVRow struct {
	CompanyName     string
	KnownAliases    *string
	HQCountry       *string
	Description     *string
	Type            *string
	Geography       *string
	Industry        *string
	SuitabilityTier *string
}

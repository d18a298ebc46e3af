package dto

import "time"

// CenterResponse is one row of GET /api/centers.
type CenterResponse struct {
	ID         int64   `json:"id"`
	CenterCode string  `json:"centerCode"`
	Name       string  `json:"name"`
	Tier       *string `json:"tier,omitempty"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Country    *string `json:"country,omitempty"`
	Region     *string `json:"region,omitempty"`
}

// CenterSummary is the embedded center descriptor in an office-list response.
type CenterSummary struct {
	ID         int64   `json:"id"`
	CenterCode string  `json:"centerCode"`
	Name       string  `json:"name"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
}

// OfficeResponse is one office entry in GET /api/centers/{id}/offices.
type OfficeResponse struct {
	OSMType              string     `json:"osmType"`
	OSMID                int64      `json:"osmId"`
	Name                 *string    `json:"name,omitempty"`
	Brand                *string    `json:"brand,omitempty"`
	Operator             *string    `json:"operator,omitempty"`
	Website              *string    `json:"website,omitempty"`
	Wikidata             *string    `json:"wikidata,omitempty"`
	WikidataEntityID     *string    `json:"wikidataEntityId,omitempty"`
	EmployeeCount        *int64     `json:"employeeCount,omitempty"`
	EmployeeCountAsOf    *time.Time `json:"employeeCountAsOf,omitempty"`
	MarketCap            *float64   `json:"marketCap,omitempty"`
	MarketCapCurrencyQID *string    `json:"marketCapCurrencyQid,omitempty"`
	MarketCapAsOf        *time.Time `json:"marketCapAsOf,omitempty"`
	WikidataEnrichedAt   *time.Time `json:"wikidataEnrichedAt,omitempty"`
	Lat                  float64    `json:"lat"`
	Lon                  float64    `json:"lon"`
	LowConfidence        bool       `json:"lowConfidence"`
	DistanceM            float64    `json:"distanceM"`
	LinkedCompanyID      *int64     `json:"linkedCompanyId,omitempty"`
	LinkedCompanyName    *string    `json:"linkedCompanyName,omitempty"`
}

// OfficeListResponse is the body of GET /api/centers/{id}/offices.
type OfficeListResponse struct {
	Center   CenterSummary    `json:"center"`
	RadiusKm float64          `json:"radiusKm"`
	Offices  []OfficeResponse `json:"offices"`
}

// FlagSubmissionResponse is the body of POST /api/offices/flag-deletion.
type FlagSubmissionResponse struct {
	Outcome string `json:"outcome"`
	FlagID  *int64 `json:"flagId,omitempty"`
}

// FlagDecisionResponse is the body of a deletion-flag decision.
type FlagDecisionResponse struct {
	Outcome        string `json:"outcome"`
	DeletedLinks   int    `json:"deletedLinks,omitempty"`
	DeletedOffices int    `json:"deletedOffices,omitempty"`
}

// DeletionFlagResponse is one row of the admin deletion-flag listing.
type DeletionFlagResponse struct {
	ID          int64      `json:"id"`
	CenterID    *int64     `json:"centerId,omitempty"`
	OSMType     string     `json:"osmType"`
	OSMID       int64      `json:"osmId"`
	Reason      *string    `json:"reason,omitempty"`
	Status      string     `json:"status"`
	SubmittedAt time.Time  `json:"submittedAt"`
	ReviewedAt  *time.Time `json:"reviewedAt,omitempty"`
}

// CSVUploadIssue mirrors a single row-level problem found while parsing an
// uploaded CSV.
type CSVUploadIssue struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// CentersUploadResponse is the body of the centers CSV upload endpoint.
type CentersUploadResponse struct {
	Inserted int              `json:"inserted"`
	Updated  int              `json:"updated"`
	Disabled int              `json:"disabled"`
	Issues   []CSVUploadIssue `json:"issues"`
}

// CompaniesUploadResponse is the body of the companies CSV upload endpoint.
type CompaniesUploadResponse struct {
	Inserted int              `json:"inserted"`
	Updated  int              `json:"updated"`
	Issues   []CSVUploadIssue `json:"issues"`
}

// RefreshCountsResponse mirrors domain.RefreshCounts for a single center's
// synchronous refresh.
type RefreshCountsResponse struct {
	OfficesFetched              int `json:"officesFetched"`
	OfficesMatched              int `json:"officesMatched"`
	OfficesFilteredOutNoCompany int `json:"officesFilteredOutNoCompanyMatch"`
	LinksUpserted               int `json:"linksUpserted"`
	PrunedLinks                 int `json:"prunedLinks"`
	WikidataEntitiesFetched     int `json:"wikidataEntitiesFetched"`
	WikidataOfficesUpdated      int `json:"wikidataOfficesUpdated"`
}

// RefreshAllResponse is the body of refresh-batch/refresh-all.
type RefreshAllResponse struct {
	RefreshCountsResponse
	CentersProcessed int  `json:"centersProcessed"`
	CentersFailed    int  `json:"centersFailed"`
	OK               bool `json:"ok"`
}

// StatusChecks are the boolean health checks in the admin status response.
type StatusChecks struct {
	ActiveCentersAtLeastOne bool `json:"activeCentersAtLeastOne"`
	RefreshStatePresent     bool `json:"refreshStatePresent"`
	RefreshRecentEnough     bool `json:"refreshRecentEnough"`
}

// StatusThresholds surfaces the configured threshold the checks are against.
type StatusThresholds struct {
	MaxRefreshAgeMinutes int `json:"maxRefreshAgeMinutes"`
}

// StatusMetrics optionally carries exact row counts.
type StatusMetrics struct {
	ExactCounts           bool `json:"exactCounts"`
	CentersTotal          int  `json:"centersTotal"`
	ActiveCenters         int  `json:"activeCenters"`
	OfficesTotal          *int `json:"officesTotal,omitempty"`
	CenterOfficeLinksTotal *int `json:"centerOfficeLinksTotal,omitempty"`
}

// StatusRefresh surfaces the scheduler cursor and its recency.
type StatusRefresh struct {
	Cursor     string  `json:"cursor"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
	AgeMinutes *float64   `json:"ageMinutes,omitempty"`
}

// StatusResponse is the body of GET /api/admin/status.
type StatusResponse struct {
	OK          bool             `json:"ok"`
	GeneratedAt time.Time        `json:"generatedAt"`
	Checks      StatusChecks     `json:"checks"`
	Thresholds  StatusThresholds `json:"thresholds"`
	Metrics     StatusMetrics    `json:"metrics"`
	Refresh     StatusRefresh    `json:"refresh"`
}

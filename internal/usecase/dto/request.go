package dto

// CenterListRequest filters GET /api/centers.
type CenterListRequest struct {
	Tier       string `query:"tier"`
	ActiveOnly bool   `query:"activeOnly"`
}

// OfficeListRequest parameterizes GET /api/centers/{id}/offices.
type OfficeListRequest struct {
	CenterID           int64
	RadiusKm           float64
	Limit              int
	HighConfidenceOnly bool
	Search             string
}

// FlagSubmissionRequest is the body of POST /api/offices/flag-deletion.
type FlagSubmissionRequest struct {
	CenterID int64  `json:"centerId" validate:"required"`
	OSMType  string `json:"osmType" validate:"required,oneof=node way relation"`
	OSMID    int64  `json:"osmId" validate:"required"`
	Reason   string `json:"reason" validate:"omitempty,max=500"`
}

// FlagDecisionRequest is the body of POST
// /api/admin/offices/deletion-flags/{flagId}/decision.
type FlagDecisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
}

// RefreshCenterRequest is the body of POST /api/admin/refresh-center/{id}.
type RefreshCenterRequest struct {
	RadiusKm   *int `json:"radiusKm" validate:"omitempty,oneof=10 25 50 100"`
	MaxOffices *int `json:"maxOffices" validate:"omitempty,min=1,max=10000"`
}

// RefreshAllRequest is the body of POST /api/admin/refresh-all.
type RefreshAllRequest struct {
	DelayMs          *int  `json:"delayMs" validate:"omitempty,min=0,max=60000"`
	BatchSize        *int  `json:"batchSize" validate:"omitempty,min=1,max=200"`
	RadiusKm         *int  `json:"radiusKm" validate:"omitempty,oneof=10 25 50 100"`
	MaxOffices       *int  `json:"maxOffices" validate:"omitempty,min=1,max=10000"`
	FullClean        bool  `json:"fullClean"`
	CenterRetryCount *int  `json:"centerRetryCount" validate:"omitempty,min=0,max=20"`
	RetryDelayMs     *int  `json:"retryDelayMs" validate:"omitempty,min=0,max=60000"`
}

// StatusRequest parameterizes GET /api/admin/status.
type StatusRequest struct {
	IncludeCounts bool
}

// DeletionFlagListRequest filters GET /api/admin/offices/deletion-flags.
type DeletionFlagListRequest struct {
	Status string
	Limit  int
}

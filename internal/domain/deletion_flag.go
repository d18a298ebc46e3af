package domain

import "time"

// DeletionFlagStatus is the review state of an OfficeDeletionFlag.
type DeletionFlagStatus string

const (
	FlagStatusPending  DeletionFlagStatus = "pending"
	FlagStatusApproved DeletionFlagStatus = "approved"
	FlagStatusRejected DeletionFlagStatus = "rejected"
)

// OfficeDeletionFlag is a user-submitted request to remove an office from
// the directory, subject to admin review.
type OfficeDeletionFlag struct {
	ID          int64              `json:"id" db:"id"`
	CenterID    *int64             `json:"centerId,omitempty" db:"center_id"`
	OSMType     OSMType            `json:"osmType" db:"osm_type"`
	OSMID       int64              `json:"osmId" db:"osm_id"`
	Reason      *string            `json:"reason,omitempty" db:"reason"`
	Status      DeletionFlagStatus `json:"status" db:"status"`
	SubmittedAt time.Time          `json:"submittedAt" db:"submitted_at"`
	ReviewedAt  *time.Time         `json:"reviewedAt,omitempty" db:"reviewed_at"`
}

// FlagSubmissionOutcome tags the result of submitting a deletion flag.
type FlagSubmissionOutcome string

const (
	SubmissionCreated       FlagSubmissionOutcome = "created"
	SubmissionAlreadyPending FlagSubmissionOutcome = "already_pending"
	SubmissionAlreadyBanned FlagSubmissionOutcome = "already_banned"
)

// FlagDecision is the admin's choice when reviewing a pending flag.
type FlagDecision string

const (
	DecisionApprove FlagDecision = "approve"
	DecisionReject  FlagDecision = "reject"
)

// FlagDecisionOutcome tags the result of applying a decision to a flag.
type FlagDecisionOutcome string

const (
	DecisionOutcomeApproved        FlagDecisionOutcome = "approved"
	DecisionOutcomeRejected        FlagDecisionOutcome = "rejected"
	DecisionOutcomeAlreadyApproved FlagDecisionOutcome = "already_approved"
	DecisionOutcomeAlreadyRejected FlagDecisionOutcome = "already_rejected"
	DecisionOutcomeNotFound        FlagDecisionOutcome = "not_found"
)

// FlagDecisionResult is the outcome of applying a decision to a deletion
// flag, including the office cleanup counts an approval triggers.
type FlagDecisionResult struct {
	Outcome        FlagDecisionOutcome
	Flag           *OfficeDeletionFlag
	DeletedLinks   int
	DeletedOffices int
}

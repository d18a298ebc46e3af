package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/location-microservice/internal/domain"
	"github.com/location-microservice/internal/domain/repository"
	"github.com/location-microservice/internal/usecase/dto"
)

// DeletionFlagUseCase runs the public flag-submission and admin
// flag-decision state machines.
type DeletionFlagUseCase struct {
	flags   repository.DeletionFlagRepository
	offices repository.OfficeRepository
	centers repository.CenterRepository
	logger  *zap.Logger
}

func NewDeletionFlagUseCase(
	flags repository.DeletionFlagRepository,
	offices repository.OfficeRepository,
	centers repository.CenterRepository,
	logger *zap.Logger,
) *DeletionFlagUseCase {
	return &DeletionFlagUseCase{flags: flags, offices: offices, centers: centers, logger: logger}
}

// Submit validates the center and office exist, then runs the
// already_banned/already_pending/created state machine.
func (uc *DeletionFlagUseCase) Submit(ctx context.Context, req dto.FlagSubmissionRequest) (dto.FlagSubmissionResponse, error) {
	if _, err := uc.centers.GetByID(ctx, req.CenterID); err != nil {
		return dto.FlagSubmissionResponse{}, errCenterNotFound
	}

	key := domain.OfficeKey{OSMType: domain.OSMType(req.OSMType), OSMID: req.OSMID}
	if _, err := uc.offices.GetByKey(ctx, key); err != nil {
		return dto.FlagSubmissionResponse{}, errOfficeNotFound
	}

	centerID := req.CenterID
	var reason *string
	if req.Reason != "" {
		reason = &req.Reason
	}

	outcome, flag, err := uc.flags.Submit(ctx, &domain.OfficeDeletionFlag{
		CenterID: &centerID, OSMType: key.OSMType, OSMID: key.OSMID, Reason: reason,
	})
	if err != nil {
		return dto.FlagSubmissionResponse{}, fmt.Errorf("submit deletion flag: %w", err)
	}

	resp := dto.FlagSubmissionResponse{Outcome: string(outcome)}
	if flag != nil {
		resp.FlagID = &flag.ID
	}

	uc.logger.Info("deletion flag submitted",
		zap.String("outcome", string(outcome)), zap.String("osm_type", req.OSMType), zap.Int64("osm_id", req.OSMID))

	return resp, nil
}

// List returns deletion flags filtered by status, defaulting to pending.
func (uc *DeletionFlagUseCase) List(ctx context.Context, req dto.DeletionFlagListRequest) ([]dto.DeletionFlagResponse, error) {
	limit := req.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	status := req.Status
	if status == "" {
		status = "pending"
	}

	flags, err := uc.flags.ListByStatus(ctx, status, limit, 0)
	if err != nil {
		return nil, fmt.Errorf("list deletion flags: %w", err)
	}

	out := make([]dto.DeletionFlagResponse, 0, len(flags))
	for _, f := range flags {
		out = append(out, dto.DeletionFlagResponse{
			ID: f.ID, CenterID: f.CenterID, OSMType: string(f.OSMType), OSMID: f.OSMID,
			Reason: f.Reason, Status: string(f.Status), SubmittedAt: f.SubmittedAt, ReviewedAt: f.ReviewedAt,
		})
	}
	return out, nil
}

// Decide applies an admin decision, translating the repository's state
// machine outcome into the HTTP-facing error for the not_found/conflict
// cases.
func (uc *DeletionFlagUseCase) Decide(ctx context.Context, id int64, decisionStr string) (dto.FlagDecisionResponse, error) {
	var decision domain.FlagDecision
	switch decisionStr {
	case string(domain.DecisionApprove):
		decision = domain.DecisionApprove
	case string(domain.DecisionReject):
		decision = domain.DecisionReject
	default:
		return dto.FlagDecisionResponse{}, errInvalidDecision
	}

	result, err := uc.flags.Decide(ctx, id, decision)
	if err != nil {
		return dto.FlagDecisionResponse{}, fmt.Errorf("decide deletion flag %d: %w", id, err)
	}

	switch result.Outcome {
	case domain.DecisionOutcomeNotFound:
		return dto.FlagDecisionResponse{}, errFlagNotFound
	case domain.DecisionOutcomeAlreadyApproved:
		if decision == domain.DecisionReject {
			return dto.FlagDecisionResponse{}, errFlagConflict
		}
	}

	uc.logger.Info("deletion flag decided", zap.Int64("id", id), zap.String("outcome", string(result.Outcome)))

	return dto.FlagDecisionResponse{
		Outcome:        string(result.Outcome),
		DeletedLinks:   result.DeletedLinks,
		DeletedOffices: result.DeletedOffices,
	}, nil
}

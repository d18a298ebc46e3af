package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/location-microservice/internal/domain"
	"github.com/location-microservice/internal/domain/repository"
	"github.com/location-microservice/internal/repository/postgres/testhelpers"
)

type DeletionFlagRepositoryTestSuite struct {
	suite.Suite
	testDB     *testhelpers.TestDB
	flagRepo   repository.DeletionFlagRepository
	officeRepo repository.OfficeRepository
	bannedRepo repository.BannedOfficeRepository
	ctx        context.Context
}

func (s *DeletionFlagRepositoryTestSuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDB(s.T())
	s.flagRepo = testhelpers.NewDeletionFlagRepositoryForTest(s.testDB.DB, s.testDB.Logger)
	s.officeRepo = testhelpers.NewOfficeRepositoryForTest(s.testDB.DB, s.testDB.Logger)
	s.bannedRepo = testhelpers.NewBannedOfficeRepositoryForTest(s.testDB.DB, s.testDB.Logger)
}

func (s *DeletionFlagRepositoryTestSuite) TearDownSuite() {
	if s.testDB != nil {
		s.testDB.Close()
	}
}

func (s *DeletionFlagRepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.testDB.Cleanup())
}

func (s *DeletionFlagRepositoryTestSuite) key() domain.OfficeKey {
	return domain.OfficeKey{OSMType: domain.OSMTypeNode, OSMID: 1}
}

func (s *DeletionFlagRepositoryTestSuite) TestSubmit_CreatedThenAlreadyPending() {
	key := s.key()
	outcome, flag, err := s.flagRepo.Submit(s.ctx, &domain.OfficeDeletionFlag{OSMType: key.OSMType, OSMID: key.OSMID})
	s.NoError(err)
	s.Equal(domain.SubmissionCreated, outcome)
	s.NotNil(flag)

	outcome2, flag2, err := s.flagRepo.Submit(s.ctx, &domain.OfficeDeletionFlag{OSMType: key.OSMType, OSMID: key.OSMID})
	s.NoError(err)
	s.Equal(domain.SubmissionAlreadyPending, outcome2)
	s.Equal(flag.ID, flag2.ID)
}

func (s *DeletionFlagRepositoryTestSuite) TestSubmit_AlreadyBanned() {
	key := s.key()
	s.Require().NoError(s.bannedRepo.Ban(s.ctx, key, nil))

	outcome, flag, err := s.flagRepo.Submit(s.ctx, &domain.OfficeDeletionFlag{OSMType: key.OSMType, OSMID: key.OSMID})
	s.NoError(err)
	s.Equal(domain.SubmissionAlreadyBanned, outcome)
	s.Nil(flag)
}

func (s *DeletionFlagRepositoryTestSuite) TestDecide_ApproveBansAndDeletesOffice() {
	key := s.key()
	name := "Acme Corp"
	s.Require().NoError(s.officeRepo.UpsertOffice(s.ctx, &domain.Office{OSMType: key.OSMType, OSMID: key.OSMID, Name: &name, Lat: 1, Lon: 1}))

	_, flag, err := s.flagRepo.Submit(s.ctx, &domain.OfficeDeletionFlag{OSMType: key.OSMType, OSMID: key.OSMID})
	s.Require().NoError(err)

	result, err := s.flagRepo.Decide(s.ctx, flag.ID, domain.DecisionApprove)
	s.NoError(err)
	s.Equal(domain.DecisionOutcomeApproved, result.Outcome)
	s.Equal(0, result.DeletedLinks)
	s.Equal(1, result.DeletedOffices)

	banned, err := s.bannedRepo.IsBanned(s.ctx, key)
	s.NoError(err)
	s.True(banned)

	result2, err := s.flagRepo.Decide(s.ctx, flag.ID, domain.DecisionApprove)
	s.NoError(err)
	s.Equal(domain.DecisionOutcomeAlreadyApproved, result2.Outcome)
}

func (s *DeletionFlagRepositoryTestSuite) TestDecide_Reject() {
	key := s.key()
	_, flag, err := s.flagRepo.Submit(s.ctx, &domain.OfficeDeletionFlag{OSMType: key.OSMType, OSMID: key.OSMID})
	s.Require().NoError(err)

	result, err := s.flagRepo.Decide(s.ctx, flag.ID, domain.DecisionReject)
	s.NoError(err)
	s.Equal(domain.DecisionOutcomeRejected, result.Outcome)

	result2, err := s.flagRepo.Decide(s.ctx, flag.ID, domain.DecisionReject)
	s.NoError(err)
	s.Equal(domain.DecisionOutcomeAlreadyRejected, result2.Outcome)
}

func (s *DeletionFlagRepositoryTestSuite) TestListByStatus_FiltersAndAll() {
	key := s.key()
	_, flag, err := s.flagRepo.Submit(s.ctx, &domain.OfficeDeletionFlag{OSMType: key.OSMType, OSMID: key.OSMID})
	s.Require().NoError(err)
	_, err = s.flagRepo.Decide(s.ctx, flag.ID, domain.DecisionReject)
	s.Require().NoError(err)

	pending, err := s.flagRepo.ListByStatus(s.ctx, "pending", 100, 0)
	s.NoError(err)
	s.Len(pending, 0)

	rejected, err := s.flagRepo.ListByStatus(s.ctx, "rejected", 100, 0)
	s.NoError(err)
	s.Len(rejected, 1)

	all, err := s.flagRepo.ListByStatus(s.ctx, "all", 100, 0)
	s.NoError(err)
	s.Len(all, 1)
}

func (s *DeletionFlagRepositoryTestSuite) TestDecide_NotFound() {
	result, err := s.flagRepo.Decide(s.ctx, 999999, domain.DecisionApprove)
	s.NoError(err)
	s.Equal(domain.DecisionOutcomeNotFound, result.Outcome)
}

func TestDeletionFlagRepositorySuite(t *testing.T) {
	suite.Run(t, new(DeletionFlagRepositoryTestSuite))
}

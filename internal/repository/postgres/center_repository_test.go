package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/location-microservice/internal/domain"
	"github.com/location-microservice/internal/domain/repository"
	"github.com/location-microservice/internal/repository/postgres/testhelpers"
)

type CenterRepositoryTestSuite struct {
	suite.Suite
	testDB *testhelpers.TestDB
	repo   repository.CenterRepository
	ctx    context.Context
}

func (s *CenterRepositoryTestSuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDB(s.T())
	s.repo = testhelpers.NewCenterRepositoryForTest(s.testDB.DB, s.testDB.Logger)
}

func (s *CenterRepositoryTestSuite) TearDownSuite() {
	if s.testDB != nil {
		s.testDB.Close()
	}
}

func (s *CenterRepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.testDB.Cleanup())
}

func (s *CenterRepositoryTestSuite) TestUpsertFromCSV_InsertThenUpdate() {
	row := domain.CenterCSVRow{CenterCode: "C-100", Name: "Example Center", Lat: 40.7, Lon: -74.0}

	outcome, c, err := s.repo.UpsertFromCSV(s.ctx, row, "token-1")
	s.NoError(err)
	s.Equal(domain.OutcomeInserted, outcome)
	s.True(c.IsActive)

	row.Name = "Example Center Renamed"
	outcome, c2, err := s.repo.UpsertFromCSV(s.ctx, row, "token-2")
	s.NoError(err)
	s.Equal(domain.OutcomeUpdated, outcome)
	s.Equal(c.ID, c2.ID)
	s.Equal("Example Center Renamed", c2.Name)
}

func (s *CenterRepositoryTestSuite) TestDisableMissingFromSync() {
	_, _, err := s.repo.UpsertFromCSV(s.ctx, domain.CenterCSVRow{CenterCode: "C-1", Name: "One", Lat: 1, Lon: 1}, "token-1")
	s.Require().NoError(err)
	_, _, err = s.repo.UpsertFromCSV(s.ctx, domain.CenterCSVRow{CenterCode: "C-2", Name: "Two", Lat: 2, Lon: 2}, "token-2")
	s.Require().NoError(err)

	disabled, err := s.repo.DisableMissingFromSync(s.ctx, "token-2")
	s.NoError(err)
	s.Equal(1, disabled)

	c1, err := s.repo.GetByCode(s.ctx, "C-1")
	s.NoError(err)
	s.False(c1.IsActive)

	c2, err := s.repo.GetByCode(s.ctx, "C-2")
	s.NoError(err)
	s.True(c2.IsActive)
}

func (s *CenterRepositoryTestSuite) TestList_FilterByTierAndActive() {
	tier := "1"
	_, _, err := s.repo.UpsertFromCSV(s.ctx, domain.CenterCSVRow{CenterCode: "C-A", Name: "A", Lat: 1, Lon: 1, Tier: &tier}, "t")
	s.Require().NoError(err)
	_, _, err = s.repo.UpsertFromCSV(s.ctx, domain.CenterCSVRow{CenterCode: "C-B", Name: "B", Lat: 2, Lon: 2}, "t")
	s.Require().NoError(err)

	centers, err := s.repo.List(s.ctx, repository.CenterListFilter{Tier: &tier})
	s.NoError(err)
	s.Len(centers, 1)
	s.Equal("C-A", centers[0].CenterCode)
}

func (s *CenterRepositoryTestSuite) TestGetByID_NotFound() {
	_, err := s.repo.GetByID(s.ctx, 999999)
	s.Error(err)
}

func TestCenterRepositorySuite(t *testing.T) {
	suite.Run(t, new(CenterRepositoryTestSuite))
}

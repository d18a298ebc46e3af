package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/location-microservice/internal/domain"
	"github.com/location-microservice/internal/domain/repository"
	"github.com/location-microservice/internal/repository/postgres/testhelpers"
)

type OfficeRepositoryTestSuite struct {
	suite.Suite
	testDB     *testhelpers.TestDB
	centerRepo repository.CenterRepository
	officeRepo repository.OfficeRepository
	ctx        context.Context
	centerID   int64
}

func (s *OfficeRepositoryTestSuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDB(s.T())
	s.centerRepo = testhelpers.NewCenterRepositoryForTest(s.testDB.DB, s.testDB.Logger)
	s.officeRepo = testhelpers.NewOfficeRepositoryForTest(s.testDB.DB, s.testDB.Logger)
}

func (s *OfficeRepositoryTestSuite) TearDownSuite() {
	if s.testDB != nil {
		s.testDB.Close()
	}
}

func (s *OfficeRepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.testDB.Cleanup())

	_, c, err := s.centerRepo.UpsertFromCSV(s.ctx, domain.CenterCSVRow{
		CenterCode: "C-1", Name: "Test Center", Lat: 40.0, Lon: -73.0,
	}, "token-1")
	s.Require().NoError(err)
	s.centerID = c.ID
}

func (s *OfficeRepositoryTestSuite) upsertOffice(osmID int64, name string, lowConfidence bool) domain.OfficeKey {
	n := name
	o := &domain.Office{
		OSMType: domain.OSMTypeNode, OSMID: osmID, Name: &n,
		Lat: 40.001, Lon: -73.001, LowConfidence: lowConfidence,
	}
	s.Require().NoError(s.officeRepo.UpsertOffice(s.ctx, o))
	return o.Key()
}

func (s *OfficeRepositoryTestSuite) TestUpsertAndGetByKey() {
	key := s.upsertOffice(1, "Acme Corp", false)

	got, err := s.officeRepo.GetByKey(s.ctx, key)
	s.NoError(err)
	s.Equal("Acme Corp", *got.Name)
}

func (s *OfficeRepositoryTestSuite) TestListNearCenter_ExcludesBanned() {
	key1 := s.upsertOffice(1, "Acme Corp", false)
	key2 := s.upsertOffice(2, "Banned Co", false)

	s.Require().NoError(s.officeRepo.UpsertLink(s.ctx, domain.CenterOfficeLink{
		CenterID: s.centerID, OSMType: key1.OSMType, OSMID: key1.OSMID, DistanceM: 100, LastSeen: time.Now(),
	}))
	s.Require().NoError(s.officeRepo.UpsertLink(s.ctx, domain.CenterOfficeLink{
		CenterID: s.centerID, OSMType: key2.OSMType, OSMID: key2.OSMID, DistanceM: 200, LastSeen: time.Now(),
	}))

	bannedRepo := testhelpers.NewBannedOfficeRepositoryForTest(s.testDB.DB, s.testDB.Logger)
	s.Require().NoError(bannedRepo.Ban(s.ctx, key2, nil))

	rows, err := s.officeRepo.ListNearCenter(s.ctx, repository.OfficeListOptions{
		CenterID: s.centerID, RadiusM: 5000, Limit: 100,
	})
	s.NoError(err)
	s.Len(rows, 1)
	s.Equal("Acme Corp", *rows[0].Name)
}

func (s *OfficeRepositoryTestSuite) TestListNearCenter_SearchPrefix() {
	key1 := s.upsertOffice(1, "Acme Corp", false)
	key2 := s.upsertOffice(2, "Other Inc", false)

	for _, k := range []domain.OfficeKey{key1, key2} {
		s.Require().NoError(s.officeRepo.UpsertLink(s.ctx, domain.CenterOfficeLink{
			CenterID: s.centerID, OSMType: k.OSMType, OSMID: k.OSMID, DistanceM: 100, LastSeen: time.Now(),
		}))
	}

	rows, err := s.officeRepo.ListNearCenter(s.ctx, repository.OfficeListOptions{
		CenterID: s.centerID, RadiusM: 5000, Limit: 100, Search: "Acme",
	})
	s.NoError(err)
	s.Len(rows, 1)
	s.Equal("Acme Corp", *rows[0].Name)
}

func (s *OfficeRepositoryTestSuite) TestPruneLinksNotSeenSince() {
	key1 := s.upsertOffice(1, "Keep", false)
	key2 := s.upsertOffice(2, "Drop", false)

	for _, k := range []domain.OfficeKey{key1, key2} {
		s.Require().NoError(s.officeRepo.UpsertLink(s.ctx, domain.CenterOfficeLink{
			CenterID: s.centerID, OSMType: k.OSMType, OSMID: k.OSMID, DistanceM: 100, LastSeen: time.Now(),
		}))
	}

	pruned, err := s.officeRepo.PruneLinksNotSeenSince(s.ctx, s.centerID, []domain.OfficeKey{key1})
	s.NoError(err)
	s.Equal(1, pruned)

	rows, err := s.officeRepo.ListNearCenter(s.ctx, repository.OfficeListOptions{CenterID: s.centerID, RadiusM: 5000, Limit: 100})
	s.NoError(err)
	s.Len(rows, 1)
	s.Equal("Keep", *rows[0].Name)
}

func (s *OfficeRepositoryTestSuite) TestDeleteByKey() {
	key := s.upsertOffice(1, "To Delete", false)
	s.Require().NoError(s.officeRepo.UpsertLink(s.ctx, domain.CenterOfficeLink{
		CenterID: s.centerID, OSMType: key.OSMType, OSMID: key.OSMID, DistanceM: 100, LastSeen: time.Now(),
	}))

	links, offices, err := s.officeRepo.DeleteByKey(s.ctx, key)
	s.NoError(err)
	s.Equal(1, links)
	s.Equal(1, offices)

	_, err = s.officeRepo.GetByKey(s.ctx, key)
	s.Error(err)
}

func (s *OfficeRepositoryTestSuite) TestPurgeAll() {
	key := s.upsertOffice(1, "Purge Me", false)
	s.Require().NoError(s.officeRepo.UpsertLink(s.ctx, domain.CenterOfficeLink{
		CenterID: s.centerID, OSMType: key.OSMType, OSMID: key.OSMID, DistanceM: 100, LastSeen: time.Now(),
	}))

	s.Require().NoError(s.officeRepo.PurgeAll(s.ctx))

	rows, err := s.officeRepo.ListNearCenter(s.ctx, repository.OfficeListOptions{CenterID: s.centerID, RadiusM: 5000, Limit: 100})
	s.NoError(err)
	s.Len(rows, 0)
}

func (s *OfficeRepositoryTestSuite) TestCountOfficesAndLinks() {
	key1 := s.upsertOffice(1, "Acme Corp", false)
	s.upsertOffice(2, "Other Inc", false)

	s.Require().NoError(s.officeRepo.UpsertLink(s.ctx, domain.CenterOfficeLink{
		CenterID: s.centerID, OSMType: key1.OSMType, OSMID: key1.OSMID, DistanceM: 100, LastSeen: time.Now(),
	}))

	offices, err := s.officeRepo.CountOffices(s.ctx)
	s.NoError(err)
	s.Equal(2, offices)

	links, err := s.officeRepo.CountLinks(s.ctx)
	s.NoError(err)
	s.Equal(1, links)
}

func TestOfficeRepositorySuite(t *testing.T) {
	suite.Run(t, new(OfficeRepositoryTestSuite))
}

package refresh_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/location-microservice/internal/config"
	"github.com/location-microservice/internal/domain"
	"github.com/location-microservice/internal/domain/repository"
	"github.com/location-microservice/internal/matching"
	"github.com/location-microservice/internal/refresh"
	"github.com/location-microservice/internal/repository/postgres/testhelpers"
)

type stubOverpass struct {
	elements []domain.OverpassElement
}

func (s *stubOverpass) QueryOfficesAround(ctx context.Context, lat, lon, radiusM float64) ([]domain.OverpassElement, error) {
	return s.elements, nil
}

type noopWikidata struct{}

func (noopWikidata) GetEntities(ctx context.Context, qids []string) (map[string]domain.WikidataEntity, error) {
	return map[string]domain.WikidataEntity{}, nil
}

type EngineIntegrationTestSuite struct {
	suite.Suite
	testDB     *testhelpers.TestDB
	centerRepo repository.CenterRepository
	officeRepo repository.OfficeRepository
	companyRepo repository.CompanyRepository
	bannedRepo  repository.BannedOfficeRepository
	stateRepo   repository.RefreshStateRepository
	ctx         context.Context
}

func (s *EngineIntegrationTestSuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDB(s.T())
	s.centerRepo = testhelpers.NewCenterRepositoryForTest(s.testDB.DB, s.testDB.Logger)
	s.officeRepo = testhelpers.NewOfficeRepositoryForTest(s.testDB.DB, s.testDB.Logger)
	s.companyRepo = testhelpers.NewCompanyRepositoryForTest(s.testDB.DB, s.testDB.Logger)
	s.bannedRepo = testhelpers.NewBannedOfficeRepositoryForTest(s.testDB.DB, s.testDB.Logger)
	s.stateRepo = testhelpers.NewRefreshStateRepositoryForTest(s.testDB.DB, s.testDB.Logger)
}

func (s *EngineIntegrationTestSuite) TearDownSuite() {
	if s.testDB != nil {
		s.testDB.Close()
	}
}

func (s *EngineIntegrationTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.testDB.Cleanup())
}

func (s *EngineIntegrationTestSuite) TestHappyRefresh() {
	_, center, err := s.centerRepo.UpsertFromCSV(s.ctx, domain.CenterCSVRow{
		CenterCode: "PM", Name: "Princess Margaret", Lat: 43.6582, Lon: -79.3907,
	}, "token-1")
	s.Require().NoError(err)

	aliases := "Acme Corp|Acme Ltd"
	_, _, err = s.companyRepo.UpsertFromCSV(s.ctx, domain.CompanyCSVRow{CompanyName: "Acme", KnownAliases: &aliases})
	s.Require().NoError(err)

	overpass := &stubOverpass{elements: []domain.OverpassElement{
		{Type: "node", ID: 1, Lat: 43.66, Lon: -79.39, Tags: map[string]string{"name": "Acme Corp"}},
		{Type: "way", ID: 2, Center: &domain.OverpassLatLon{Lat: 43.67, Lon: -79.38}, Tags: map[string]string{"name": "Zeta Holdings"}},
		{Type: "node", ID: 3, Lat: 43.65, Lon: -79.40, Tags: map[string]string{}},
	}}

	cfg := config.RefreshConfig{DefaultRadiusM: 25000, StaleLinkDays: 30}
	wikidataCfg := config.WikidataConfig{EnrichEnabled: false}

	engine := refresh.NewEngine(
		s.centerRepo, s.officeRepo, s.companyRepo, s.bannedRepo, s.stateRepo, nil,
		overpass, noopWikidata{},
		cfg, config.OverpassConfig{}, wikidataCfg,
		s.testDB.Logger,
	)

	companies, err := s.companyRepo.ListAllForMatching(s.ctx)
	s.Require().NoError(err)
	idx := matching.BuildIndex(companies)
	bannedSet := map[domain.OfficeKey]bool{}

	counts, err := engine.RefreshCenter(s.ctx, *center, refresh.CenterOptions{RadiusM: 25000}, idx, bannedSet)
	s.Require().NoError(err)

	s.Equal(2, counts.OfficesFetched)
	s.Equal(1, counts.OfficesMatched)
	s.Equal(1, counts.OfficesFilteredOutNoCompany)
	s.Equal(1, counts.LinksUpserted)

	rows, err := s.officeRepo.ListNearCenter(s.ctx, repository.OfficeListOptions{CenterID: center.ID, RadiusM: 25000, Limit: 100})
	s.Require().NoError(err)
	s.Len(rows, 1)
	s.Equal("Acme Corp", *rows[0].Name)
	s.InDelta(225, rows[0].DistanceM, 400)
}

func TestEngineIntegrationSuite(t *testing.T) {
	suite.Run(t, new(EngineIntegrationTestSuite))
}

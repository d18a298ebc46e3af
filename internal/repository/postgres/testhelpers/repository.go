package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/location-microservice/internal/domain/repository"
	"github.com/location-microservice/internal/repository/postgres"
)

func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

func NewCenterRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.CenterRepository {
	return postgres.NewCenterRepository(NewDBForTest(db, logger))
}

func NewCompanyRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.CompanyRepository {
	return postgres.NewCompanyRepository(NewDBForTest(db, logger))
}

func NewOfficeRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.OfficeRepository {
	return postgres.NewOfficeRepository(NewDBForTest(db, logger))
}

func NewBannedOfficeRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.BannedOfficeRepository {
	return postgres.NewBannedOfficeRepository(NewDBForTest(db, logger))
}

func NewDeletionFlagRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.DeletionFlagRepository {
	return postgres.NewDeletionFlagRepository(NewDBForTest(db, logger))
}

func NewRefreshStateRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.RefreshStateRepository {
	return postgres.NewRefreshStateRepository(NewDBForTest(db, logger))
}

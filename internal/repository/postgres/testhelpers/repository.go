package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/restaurant-roulette/internal/domain/repository"
	"github.com/restaurant-roulette/internal/repository/postgres"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewGeocodeCacheRepositoryForTest creates a geocode cache repository with test database and logger
func NewGeocodeCacheRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.GeocodeCacheRepository {
	return postgres.NewGeocodeCacheRepository(NewDBForTest(db, logger))
}

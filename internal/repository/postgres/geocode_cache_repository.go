package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/restaurant-roulette/internal/domain"
	"github.com/restaurant-roulette/internal/domain/repository"
)

type geocodeCacheRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewGeocodeCacheRepository создаёт кеш геокодирования в PostgreSQL
func NewGeocodeCacheRepository(db *DB) repository.GeocodeCacheRepository {
	return &geocodeCacheRepository{
		db:     db,
		logger: db.logger,
	}
}

// NormalizeAddress - ключ кеша: адрес без внешних пробелов в нижнем регистре
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

func (r *geocodeCacheRepository) Get(ctx context.Context, address string) (*domain.GeocodeResult, error) {
	query := `
		SELECT latitude, longitude, formatted_address
		FROM geocode_cache
		WHERE address = $1
	`

	var result domain.GeocodeResult
	err := r.db.GetContext(ctx, &result, query, NormalizeAddress(address))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: %w", err)
	}

	return &result, nil
}

func (r *geocodeCacheRepository) Save(ctx context.Context, address string, result *domain.GeocodeResult) error {
	query := `
		INSERT INTO geocode_cache (address, latitude, longitude, formatted_address)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (address) DO UPDATE SET
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			formatted_address = EXCLUDED.formatted_address,
			updated_at = NOW()
	`

	_, err := r.db.ExecContext(ctx, query,
		NormalizeAddress(address),
		result.Latitude,
		result.Longitude,
		result.FormattedAddress,
	)
	if err != nil {
		return fmt.Errorf("save geocode cache: %w", err)
	}

	r.logger.Debug("Geocode result cached", zap.String("address", NormalizeAddress(address)))
	return nil
}

package repository

import (
	"context"

	"github.com/bookhaven/pos-api/internal/domain/entity"
)

// SettingsRepository defines the interface for store settings data access.
// The store settings table holds a single row keyed by entity.StoreSettingsID.
type SettingsRepository interface {
	Get(ctx context.Context) (*entity.StoreSettings, error)
	Upsert(ctx context.Context, settings *entity.StoreSettings) error
}

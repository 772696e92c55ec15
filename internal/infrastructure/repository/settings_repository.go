package repository

import (
	"context"
	"errors"

	"github.com/bookhaven/pos-api/internal/domain/entity"
	domainRepo "github.com/bookhaven/pos-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) domainRepo.SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context) (*entity.StoreSettings, error) {
	var settings entity.StoreSettings
	err := r.db.WithContext(ctx).First(&settings, "id = ?", entity.StoreSettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &settings, err
}

// Upsert writes the single store settings row, creating it on first save.
func (r *settingsRepository) Upsert(ctx context.Context, settings *entity.StoreSettings) error {
	settings.ID = entity.StoreSettingsID
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(settings).Error
}

package service

import (
	"context"

	"github.com/bookhaven/pos-api/internal/domain/entity"
	"github.com/bookhaven/pos-api/internal/domain/repository"
)

// SettingsService handles the store profile used on receipts and invoices
type SettingsService struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// GetStoreSettings returns the store profile, falling back to defaults when
// nothing has been saved yet.
func (s *SettingsService) GetStoreSettings(ctx context.Context) (*entity.StoreSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return &entity.StoreSettings{
			ID:   entity.StoreSettingsID,
			Name: "BookHaven",
		}, nil
	}
	return settings, nil
}

// UpdateStoreSettingsInput represents the store profile update input
type UpdateStoreSettingsInput struct {
	Name        *string
	Address     *string
	Phone       *string
	Email       *string
	GSTIN       *string
	Website     *string
	Description *string
}

// UpdateStoreSettings merges the input into the store profile and saves it
func (s *SettingsService) UpdateStoreSettings(ctx context.Context, input *UpdateStoreSettingsInput) (*entity.StoreSettings, error) {
	settings, err := s.GetStoreSettings(ctx)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		settings.Name = *input.Name
	}
	if input.Address != nil {
		settings.Address = *input.Address
	}
	if input.Phone != nil {
		settings.Phone = *input.Phone
	}
	if input.Email != nil {
		settings.Email = *input.Email
	}
	if input.GSTIN != nil {
		settings.GSTIN = *input.GSTIN
	}
	if input.Website != nil {
		settings.Website = *input.Website
	}
	if input.Description != nil {
		settings.Description = *input.Description
	}

	if err := s.settingsRepo.Upsert(ctx, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

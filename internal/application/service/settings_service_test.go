package service

import (
	"context"
	"testing"

	"github.com/bookhaven/pos-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStoreSettingsDefaults(t *testing.T) {
	svc := NewSettingsService(&fakeSettingsRepo{})

	settings, err := svc.GetStoreSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.StoreSettingsID, settings.ID)
	assert.Equal(t, "BookHaven", settings.Name)
}

func TestUpdateStoreSettingsMergesFields(t *testing.T) {
	repo := &fakeSettingsRepo{settings: &entity.StoreSettings{
		ID:      entity.StoreSettingsID,
		Name:    "Corner Books",
		Address: "12 MG Road",
	}}
	svc := NewSettingsService(repo)

	phone := "+91 98765 43210"
	updated, err := svc.UpdateStoreSettings(context.Background(), &UpdateStoreSettingsInput{
		Phone: &phone,
	})
	require.NoError(t, err)

	// untouched fields survive a partial update
	assert.Equal(t, "Corner Books", updated.Name)
	assert.Equal(t, "12 MG Road", updated.Address)
	assert.Equal(t, phone, updated.Phone)

	saved, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, phone, saved.Phone)
}

func TestUpdateStoreSettingsCreatesRowOnFirstSave(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := NewSettingsService(repo)

	name := "New Chapter Books"
	updated, err := svc.UpdateStoreSettings(context.Background(), &UpdateStoreSettingsInput{
		Name: &name,
	})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, entity.StoreSettingsID, updated.ID)
}

package handler

import (
	"github.com/bookhaven/pos-api/internal/application/service"
	"github.com/bookhaven/pos-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// SettingsHandler handles store settings HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Get returns the store profile used on receipts and invoices
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settingsService.GetStoreSettings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Store settings retrieved successfully", settings)
}

type updateSettingsRequest struct {
	Name        *string `json:"name"`
	Address     *string `json:"address"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	GSTIN       *string `json:"gstin"`
	Website     *string `json:"website"`
	Description *string `json:"description"`
}

// Update merges the provided fields into the store profile
func (h *SettingsHandler) Update(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	settings, err := h.settingsService.UpdateStoreSettings(c.Request.Context(), &service.UpdateStoreSettingsInput{
		Name:        req.Name,
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
		GSTIN:       req.GSTIN,
		Website:     req.Website,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Store settings updated successfully", settings)
}

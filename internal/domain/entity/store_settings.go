package entity

import "time"

// StoreSettingsID is the fixed primary key of the singleton settings row.
const StoreSettingsID = "store"

// StoreSettings is the singleton document holding the store's identity.
// Read by invoice rendering and the POS screen.
type StoreSettings struct {
	ID          string    `gorm:"primaryKey;size:20" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Address     string    `gorm:"type:text" json:"address"`
	Phone       string    `gorm:"size:50" json:"phone"`
	Email       string    `gorm:"size:255" json:"email"`
	GSTIN       string    `gorm:"size:50;column:gstin" json:"gstin,omitempty"`
	Website     string    `gorm:"size:255" json:"website,omitempty"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the table name for the StoreSettings model
func (StoreSettings) TableName() string {
	return "store_settings"
}

package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Book represents a title in the store catalog. Stock is decremented by the
// checkout transaction and must never go negative.
type Book struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Title     string         `gorm:"size:255;not null" json:"title"`
	Author    string         `gorm:"size:255;not null" json:"author"`
	Category  string         `gorm:"size:255;index" json:"category"` // category name, no FK
	Pages     int            `gorm:"default:0" json:"pages"`
	Price     int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	Stock     int            `gorm:"default:0" json:"stock"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (b Book) MarshalJSON() ([]byte, error) {
	type Alias Book
	return json.Marshal(&struct {
		Alias
		Price float64 `json:"price"`
	}{
		Alias: Alias(b),
		Price: float64(b.Price) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new book
func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Book model
func (Book) TableName() string {
	return "books"
}

// GetPriceDecimal returns the price as a decimal (for display)
func (b *Book) GetPriceDecimal() float64 {
	return float64(b.Price) / 100
}

// SetPriceFromDecimal sets the price from a decimal value
func (b *Book) SetPriceFromDecimal(price float64) {
	b.Price = int64(price * 100)
}

// Category represents a book category. Books reference categories by name,
// so renaming a category does not cascade.
type Category struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name        string         `gorm:"size:255;unique;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new category
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}

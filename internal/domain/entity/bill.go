package entity

import (
	"encoding/json"
	"time"

	"github.com/bookhaven/pos-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Bill represents one completed checkout. A bill's contents are immutable
// after creation; the only permitted change is the completed to cancelled
// status transition, which returns its copies to stock.
type Bill struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceNumber string             `gorm:"size:20;unique;not null" json:"invoice_number"`
	SubTotal      int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Discount      int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Total         int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	CustomerID    string             `gorm:"size:64;index" json:"customer_id"` // "guest" when no customer selected
	CustomerName  string             `gorm:"size:255" json:"customer_name"`
	CustomerPhone string             `gorm:"size:50" json:"customer_phone"`
	CustomerEmail string             `gorm:"size:255" json:"customer_email"`
	PaymentMethod enum.PaymentMethod `gorm:"size:10;default:'cash'" json:"payment_method"`
	Status        enum.BillStatus    `gorm:"default:0" json:"status"`
	CreatedByID   uuid.UUID          `gorm:"type:uuid;not null;index" json:"created_by_id"`
	CreatedByName string             `gorm:"size:255" json:"created_by_name"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	DeletedAt     gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	Items []BillItem `gorm:"foreignKey:BillID" json:"items,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (b Bill) MarshalJSON() ([]byte, error) {
	type Alias Bill
	return json.Marshal(&struct {
		Alias
		SubTotal float64 `json:"subtotal"`
		Discount float64 `json:"discount"`
		Total    float64 `json:"total"`
	}{
		Alias:    Alias(b),
		SubTotal: float64(b.SubTotal) / 100,
		Discount: float64(b.Discount) / 100,
		Total:    float64(b.Total) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new bill
func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Bill model
func (Bill) TableName() string {
	return "bills"
}

// GetTotalDecimal returns the total as a decimal
func (b *Bill) GetTotalDecimal() float64 {
	return float64(b.Total) / 100
}

// GetSubTotalDecimal returns the subtotal as a decimal
func (b *Bill) GetSubTotalDecimal() float64 {
	return float64(b.SubTotal) / 100
}

// GetDiscountDecimal returns the aggregate discount as a decimal
func (b *Bill) GetDiscountDecimal() float64 {
	return float64(b.Discount) / 100
}

// BillItem represents a line item in a bill. The book's title and author are
// denormalized at checkout time so the bill survives catalog edits.
type BillItem struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	BillID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"bill_id"`
	BookID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"book_id"`
	Title     string         `gorm:"size:255;not null" json:"title"`
	Author    string         `gorm:"size:255" json:"author"`
	Quantity  int            `gorm:"not null" json:"quantity"`
	UnitPrice int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	Discount  int64          `gorm:"default:0" json:"-"` // Per-unit discount in cents
	Total     int64          `gorm:"not null" json:"-"` // quantity * (price - discount), in cents
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Bill Bill `gorm:"foreignKey:BillID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (bi BillItem) MarshalJSON() ([]byte, error) {
	type Alias BillItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		Discount  float64 `json:"discount"`
		Total     float64 `json:"total"`
	}{
		Alias:     Alias(bi),
		UnitPrice: float64(bi.UnitPrice) / 100,
		Discount:  float64(bi.Discount) / 100,
		Total:     float64(bi.Total) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new bill item
func (bi *BillItem) BeforeCreate(tx *gorm.DB) error {
	if bi.ID == uuid.Nil {
		bi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BillItem model
func (BillItem) TableName() string {
	return "bill_items"
}

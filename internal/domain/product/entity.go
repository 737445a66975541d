// internal/domain/product/entity.go
package product

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a catalog item
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"not null;size:255" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Category    string          `gorm:"not null;size:100;index" json:"category"`
	Model       string          `gorm:"not null;size:100" json:"model"`
	Brand       string          `gorm:"not null;size:100" json:"brand"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	ImageURL    string          `gorm:"size:500" json:"image_url"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Product) TableName() string { return "products" }

// InStock reports whether at least one unit can be sold
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// IsLowStock reports whether stock is at or below threshold
func (p *Product) IsLowStock(threshold int) bool {
	return p.Stock <= threshold
}

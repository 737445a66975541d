// internal/domain/review/entity.go
package review

import (
	"time"

	"github.com/google/uuid"
	"github.com/your-org/ventilation-store/internal/domain/product"
	"github.com/your-org/ventilation-store/internal/domain/profile"
)

const (
	MinRating        = 1
	MaxRating        = 5
	MinCommentLength = 10
	MaxCommentLength = 500
)

// Review is a customer's rating of a product they received
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_product" json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_reviews_user_product;index" json:"product_id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Product *product.Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Author  *profile.Profile `gorm:"foreignKey:UserID;references:UserID" json:"-"`
}

// TableName overrides the table name for Review
func (Review) TableName() string {
	return "reviews"
}

// CanBeEditedBy checks if the user owns the review
func (r *Review) CanBeEditedBy(userID uuid.UUID) bool {
	return r.UserID == userID
}

// Response is the review as returned to clients
type Response struct {
	ID          uint      `json:"id"`
	ProductID   uint      `json:"product_id"`
	ProductName string    `json:"product_name"`
	ImageURL    string    `json:"image_url,omitempty"`
	OrderID     uint      `json:"order_id"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	AuthorName  string    `json:"author_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Summary aggregates a product's ratings
type Summary struct {
	Count        int         `json:"count"`
	Average      float64     `json:"average"`
	Distribution map[int]int `json:"distribution"`
}

// ProductReviews lists a product's reviews with their summary
type ProductReviews struct {
	Reviews []Response `json:"reviews"`
	Summary Summary    `json:"summary"`
}

// PendingItem is a delivered product the customer has not reviewed yet
type PendingItem struct {
	ProductID   uint       `json:"product_id"`
	ProductName string     `json:"product_name"`
	ImageURL    string     `json:"image_url,omitempty"`
	OrderID     uint       `json:"order_id"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}

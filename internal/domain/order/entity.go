// internal/domain/order/entity.go
package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/your-org/ventilation-store/internal/domain/product"
	"github.com/your-org/ventilation-store/internal/domain/profile"
)

// Status represents the order status
type Status string

const (
	StatusPending   Status = "pending"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"

	// StatusAll is the filter sentinel that matches every order
	StatusAll Status = "all"
)

// ParseStatus accepts a known status, "all" or an empty string (treated as "all")
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case "":
		return StatusAll, nil
	case StatusAll, StatusPending, StatusShipped, StatusDelivered, StatusCancelled:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

// IsTerminal reports whether no further transition is possible
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

var transitions = map[Status][]Status{
	StatusPending: {StatusShipped, StatusCancelled},
	StatusShipped: {StatusDelivered, StatusCancelled},
}

// CanTransition reports whether an administrator may move an order from one status to another
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// OrderRecord is the persisted order row with its relations
type OrderRecord struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	PlacedAt        time.Time       `gorm:"not null;index" json:"placed_at"`
	Status          Status          `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Total           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	ShippingAddress string          `gorm:"type:text" json:"shipping_address"` // JSON encoded Address
	Notes           string          `gorm:"type:text" json:"notes"`
	CancelReason    string          `gorm:"size:255" json:"cancel_reason"`
	CancelledAt     *time.Time      `json:"cancelled_at"`
	ShippedAt       *time.Time      `json:"shipped_at"`
	DeliveredAt     *time.Time      `json:"delivered_at"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Relationships
	Details  []OrderDetail    `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"details"`
	Payments []PaymentRecord  `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"payments"`
	Customer *profile.Profile `gorm:"foreignKey:UserID;references:UserID" json:"customer,omitempty"`
}

// OrderDetail is one purchased line. Name and unit price are snapshots taken at checkout.
type OrderDetail struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	OrderID     uint             `gorm:"not null;index" json:"order_id"`
	ProductID   uint             `gorm:"not null;index" json:"product_id"`
	ProductName string           `gorm:"size:255" json:"product_name"`
	UnitPrice   decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	Quantity    int              `gorm:"not null" json:"quantity"`
	Product     *product.Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// PaymentRecord stores how an order was paid
type PaymentRecord struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	MethodID  int             `gorm:"not null" json:"method_id"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Status    string          `gorm:"size:20;not null" json:"status"`
	Reference string          `gorm:"size:64;index" json:"reference"`
	PaidAt    *time.Time      `json:"paid_at"`
	CreatedAt time.Time       `json:"created_at"`
}

// TableName overrides
func (OrderRecord) TableName() string   { return "orders" }
func (OrderDetail) TableName() string   { return "order_details" }
func (PaymentRecord) TableName() string { return "payments" }

// Address is the delivery address captured at checkout
type Address struct {
	FullName   string `json:"full_name"`
	Street     string `json:"street"`
	Number     string `json:"number,omitempty"`
	District   string `json:"district,omitempty"`
	City       string `json:"city"`
	Department string `json:"department,omitempty"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
}

// View is the flat, client-ready order
type View struct {
	ID              uint            `json:"id"`
	Number          string          `json:"number"`
	UserID          uuid.UUID       `json:"user_id"`
	PlacedAt        time.Time       `json:"placed_at"`
	Status          Status          `json:"status"`
	Total           decimal.Decimal `json:"total"`
	Lines           []Line          `json:"lines"`
	ShippingAddress Address         `json:"shipping_address"`
	Payment         PaymentSummary  `json:"payment"`
	CustomerName    string          `json:"customer_name,omitempty"`
	CustomerEmail   string          `json:"customer_email,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CancelReason    string          `json:"cancel_reason,omitempty"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
	ShippedAt       *time.Time      `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
}

// Line is one projected order line
type Line struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ImageURL  string          `json:"image_url,omitempty"`
}

// PaymentSummary describes the first payment attached to an order
type PaymentSummary struct {
	MethodID  int             `json:"method_id"`
	Method    string          `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status,omitempty"`
	Reference string          `json:"reference,omitempty"`
	PaidAt    *time.Time      `json:"paid_at,omitempty"`
}

// Number formats a human readable order number: ORD-YYYYMMDD-XXXXX
func Number(id uint, placedAt time.Time) string {
	return fmt.Sprintf("ORD-%s-%05d", placedAt.Format("20060102"), id)
}

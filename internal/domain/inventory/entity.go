// internal/domain/inventory/entity.go
package inventory

import (
	"time"
)

// MovementType represents the direction of a stock movement
type MovementType string

const (
	MovementTypeInbound  MovementType = "inbound"
	MovementTypeOutbound MovementType = "outbound"
)

// MovementReason represents the reason for a stock movement
type MovementReason string

const (
	ReasonSale         MovementReason = "sale"
	ReasonCancellation MovementReason = "cancellation"
	ReasonAdjustment   MovementReason = "adjustment"
	ReasonInitial      MovementReason = "initial"
)

// ReferenceOrder marks movements caused by an order
const ReferenceOrder = "order"

// Movement is one entry in a product's stock ledger
type Movement struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	ProductID     uint           `gorm:"not null;index" json:"product_id"`
	MovementType  MovementType   `gorm:"size:20;not null" json:"movement_type"`
	Reason        MovementReason `gorm:"size:20;not null" json:"reason"`
	Quantity      int            `gorm:"not null" json:"quantity"`
	NewQuantity   int            `gorm:"not null" json:"new_quantity"`
	ReferenceType string         `gorm:"size:50" json:"reference_type,omitempty"`
	ReferenceID   uint           `gorm:"index" json:"reference_id,omitempty"`
	Notes         string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// TableName overrides the table name
func (Movement) TableName() string { return "inventory_movements" }

// Sale records units leaving stock for an order
func Sale(productID uint, quantity int, orderID uint) Movement {
	return Movement{
		ProductID:     productID,
		MovementType:  MovementTypeOutbound,
		Reason:        ReasonSale,
		Quantity:      quantity,
		ReferenceType: ReferenceOrder,
		ReferenceID:   orderID,
	}
}

// Cancellation records units returned by a cancelled order
func Cancellation(productID uint, quantity int, orderID uint) Movement {
	return Movement{
		ProductID:     productID,
		MovementType:  MovementTypeInbound,
		Reason:        ReasonCancellation,
		Quantity:      quantity,
		ReferenceType: ReferenceOrder,
		ReferenceID:   orderID,
	}
}

// Adjustment records a manual stock change; delta may be negative
func Adjustment(productID uint, delta int, reason MovementReason) Movement {
	m := Movement{
		ProductID:    productID,
		MovementType: MovementTypeInbound,
		Reason:       reason,
		Quantity:     delta,
	}
	if delta < 0 {
		m.MovementType = MovementTypeOutbound
		m.Quantity = -delta
	}
	return m
}

// Delta is the signed stock change of the movement
func (m *Movement) Delta() int {
	if m.MovementType == MovementTypeOutbound {
		return -m.Quantity
	}
	return m.Quantity
}

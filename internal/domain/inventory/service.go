// internal/domain/inventory/service.go
package inventory

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// stockTable is the catalog table holding the stock column
const stockTable = "products"

// Take decrements stock by quantity when enough units remain.
// It reports false, leaving stock untouched, otherwise.
func Take(tx *gorm.DB, productID uint, quantity int) (bool, error) {
	result := tx.Table(stockTable).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return false, fmt.Errorf("failed to update stock: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Put returns units to stock
func Put(tx *gorm.DB, productID uint, quantity int) error {
	if err := tx.Table(stockTable).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity)).Error; err != nil {
		return fmt.Errorf("failed to restore stock: %w", err)
	}
	return nil
}

// Record appends movements to the ledger, stamping each with the stock
// level it left behind. Call it after the stock column has been changed.
func Record(tx *gorm.DB, movements ...Movement) error {
	for i := range movements {
		var stock int
		if err := tx.Table(stockTable).
			Select("stock").
			Where("id = ?", movements[i].ProductID).
			Scan(&stock).Error; err != nil {
			return fmt.Errorf("failed to read stock: %w", err)
		}
		movements[i].NewQuantity = stock
	}

	if len(movements) == 0 {
		return nil
	}
	if err := tx.Create(&movements).Error; err != nil {
		return fmt.Errorf("failed to record stock movement: %w", err)
	}
	return nil
}

// Service reads the stock ledger
type Service struct {
	db *gorm.DB
}

// NewService creates a new inventory service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// History returns a product's movements, newest first
func (s *Service) History(ctx context.Context, productID uint, limit int) ([]Movement, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var movements []Movement
	if err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&movements).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve stock movements: %w", err)
	}
	return movements, nil
}

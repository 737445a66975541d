// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/ventilation-store/internal/domain/inventory"
	"github.com/your-org/ventilation-store/internal/domain/profile"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrInvalidStatus           = errors.New("invalid order status")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrNotCancellable          = errors.New("only pending orders can be cancelled")
)

// Service handles order reads and status changes
type Service struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewService creates a new order service
func NewService(db *gorm.DB, log *logrus.Logger) *Service {
	return &Service{db: db, log: log}
}

// AdminListRequest represents admin order list query parameters
type AdminListRequest struct {
	Status string `form:"status"`
	Search string `form:"search"`
}

// ListForUser returns the user's orders filtered by status, newest first
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, status Status) ([]View, error) {
	var records []OrderRecord
	if err := s.withRelations(s.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	return FilterByStatus(ProjectAll(records), status), nil
}

// GetForUser returns one of the user's orders
func (s *Service) GetForUser(ctx context.Context, userID uuid.UUID, id uint) (*View, error) {
	record, err := s.find(s.db.WithContext(ctx).Where("user_id = ?", userID), id)
	if err != nil {
		return nil, err
	}
	view := Project(record)
	return &view, nil
}

// CancelForUser cancels a pending order and returns its units to stock
func (s *Service) CancelForUser(ctx context.Context, userID uuid.UUID, id uint, reason string) (*View, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record OrderRecord
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to retrieve order: %w", err)
		}

		if record.Status != StatusPending {
			return ErrNotCancellable
		}

		return cancel(tx, &record, reason)
	})
	if err != nil {
		if !errors.Is(err, ErrOrderNotFound) && !errors.Is(err, ErrNotCancellable) {
			s.log.WithError(err).WithFields(logrus.Fields{
				"order_id": id,
				"user_id":  userID,
			}).Error("order cancellation failed")
		}
		return nil, err
	}

	return s.GetForUser(ctx, userID, id)
}

// AdminList returns customer orders. Orders placed from admin profiles are excluded.
func (s *Service) AdminList(ctx context.Context, req *AdminListRequest) ([]View, error) {
	status, err := ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	admins := db.Model(&profile.Profile{}).Select("user_id").Where("role = ?", profile.RoleAdmin)

	query := s.withRelations(db).
		Preload("Customer").
		Where("user_id NOT IN (?)", admins)

	if status != StatusAll {
		query = query.Where("status = ?", status)
	}

	if search := strings.TrimSpace(req.Search); search != "" {
		query = applySearch(db, query, search)
	}

	var records []OrderRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	return SortedByDateDescending(ProjectAll(records)), nil
}

// AdminGet returns any order with its customer
func (s *Service) AdminGet(ctx context.Context, id uint) (*View, error) {
	record, err := s.find(s.db.WithContext(ctx).Preload("Customer"), id)
	if err != nil {
		return nil, err
	}
	view := Project(record)
	return &view, nil
}

// UpdateStatus moves an order along the status transition table
func (s *Service) UpdateStatus(ctx context.Context, id uint, to Status, reason string) (*View, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record OrderRecord
		if err := tx.First(&record, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to retrieve order: %w", err)
		}

		if !CanTransition(record.Status, to) {
			return fmt.Errorf("%w from %s to %s", ErrInvalidStatusTransition, record.Status, to)
		}

		if to == StatusCancelled {
			return cancel(tx, &record, reason)
		}

		now := time.Now().UTC()
		updates := map[string]interface{}{"status": to}
		switch to {
		case StatusShipped:
			updates["shipped_at"] = now
		case StatusDelivered:
			updates["delivered_at"] = now
		}

		if err := tx.Model(&record).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"order_id": id, "status": to}).Info("order status updated")
	return s.AdminGet(ctx, id)
}

// Records returns raw rows for reporting
func (s *Service) Records(ctx context.Context) ([]OrderRecord, error) {
	var records []OrderRecord
	if err := s.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}
	return records, nil
}

func (s *Service) withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Details", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Details.Product").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		})
}

func (s *Service) find(query *gorm.DB, id uint) (*OrderRecord, error) {
	var record OrderRecord
	if err := s.withRelations(query).Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return &record, nil
}

func cancel(tx *gorm.DB, record *OrderRecord, reason string) error {
	if err := restoreStock(tx, record.ID); err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := tx.Model(record).Updates(map[string]interface{}{
		"status":        StatusCancelled,
		"cancel_reason": strings.TrimSpace(reason),
		"cancelled_at":  now,
	}).Error; err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}
	return nil
}

func restoreStock(tx *gorm.DB, orderID uint) error {
	var details []OrderDetail
	if err := tx.Where("order_id = ?", orderID).Find(&details).Error; err != nil {
		return fmt.Errorf("failed to get order details: %w", err)
	}

	movements := make([]inventory.Movement, 0, len(details))
	for _, d := range details {
		if err := inventory.Put(tx, d.ProductID, d.Quantity); err != nil {
			return err
		}
		movements = append(movements, inventory.Cancellation(d.ProductID, d.Quantity, orderID))
	}
	return inventory.Record(tx, movements...)
}

func applySearch(db, query *gorm.DB, search string) *gorm.DB {
	like := "%" + strings.ToLower(search) + "%"
	customers := db.Model(&profile.Profile{}).Select("user_id").
		Where("LOWER(first_names) LIKE ? OR LOWER(last_names) LIKE ? OR LOWER(email) LIKE ? OR national_id LIKE ?",
			like, like, like, like)

	if id, err := strconv.ParseUint(strings.TrimPrefix(strings.ToUpper(search), "#"), 10, 64); err == nil {
		return query.Where("id = ? OR user_id IN (?)", id, customers)
	}
	return query.Where("user_id IN (?)", customers)
}

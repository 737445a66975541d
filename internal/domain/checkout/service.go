// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/ventilation-store/internal/domain/cart"
	"github.com/your-org/ventilation-store/internal/domain/inventory"
	"github.com/your-org/ventilation-store/internal/domain/order"
	"github.com/your-org/ventilation-store/internal/domain/payment"
	"github.com/your-org/ventilation-store/internal/domain/product"
	"github.com/your-org/ventilation-store/internal/domain/profile"
	"github.com/your-org/ventilation-store/internal/domain/validation"
	"gorm.io/gorm"
)

// ErrEmptyCart is returned when there is nothing to order
var ErrEmptyCart = errors.New("cart is empty")

// Carts is the part of the cart service checkout depends on
type Carts interface {
	Snapshot(ctx context.Context, sessionID string) (*cart.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

// Service turns a cart into an order
type Service struct {
	db    *gorm.DB
	carts Carts
	log   *logrus.Logger
}

// NewService creates a new checkout service
func NewService(db *gorm.DB, carts Carts, log *logrus.Logger) *Service {
	return &Service{db: db, carts: carts, log: log}
}

// Item is a buy-now line that bypasses the session cart
type Item struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// PlaceOrderRequest represents the checkout form
type PlaceOrderRequest struct {
	FullName   string `json:"full_name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Notes      string `json:"notes"`

	PaymentMethod string `json:"payment_method"`
	CardNumber    string `json:"card_number"`
	CardHolder    string `json:"card_holder"`
	CardExpiry    string `json:"card_expiry"`
	CVV           string `json:"cvv"`

	Items []Item `json:"items,omitempty"`
}

// PaymentOptions lists the methods accepted at checkout
func PaymentOptions() []payment.Method {
	return payment.Methods()
}

// Validate checks the shipping form and, for card payments, the card fields.
// It returns the resolved payment method id.
func (r *PlaceOrderRequest) Validate() (int, error) {
	errs := validation.ShippingRules.Validate(map[string]string{
		"full_name":   r.FullName,
		"address":     r.Address,
		"city":        r.City,
		"postal_code": r.PostalCode,
		"phone":       r.Phone,
		"email":       r.Email,
		"notes":       r.Notes,
	})

	methodID, ok := order.MethodCode(r.PaymentMethod)
	if !ok {
		errs = validation.Join(errs, &validation.Errors{Fields: map[string]string{
			"payment_method": "Select a payment method",
		}})
	} else if order.IsCardMethod(methodID) {
		errs = validation.Join(errs, validation.CardRules.Validate(map[string]string{
			"card_number": r.CardNumber,
			"card_holder": r.CardHolder,
			"card_expiry": r.CardExpiry,
			"cvv":         r.CVV,
		}))
	}

	if errs != nil {
		return 0, errs
	}
	return methodID, nil
}

// PlaceOrder creates a pending order from the session cart, or from req.Items
// when present. Stock is re-checked and decremented in the same transaction.
func (s *Service) PlaceOrder(ctx context.Context, userID uuid.UUID, sessionID string, req *PlaceOrderRequest) (*order.View, error) {
	methodID, err := req.Validate()
	if err != nil {
		return nil, err
	}

	items, fromCart, err := s.resolveItems(ctx, sessionID, req.Items)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	address, err := order.EncodeAddress(order.Address{
		FullName:   strings.TrimSpace(req.FullName),
		Street:     strings.TrimSpace(req.Address),
		City:       strings.TrimSpace(req.City),
		PostalCode: req.PostalCode,
		Phone:      req.Phone,
		Email:      strings.TrimSpace(req.Email),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode shipping address: %w", err)
	}

	now := time.Now().UTC()
	record := order.OrderRecord{
		UserID:          userID,
		PlacedAt:        now,
		Status:          order.StatusPending,
		ShippingAddress: address,
		Notes:           strings.TrimSpace(req.Notes),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureProfile(tx, userID, req.Email); err != nil {
			return err
		}

		reserved, err := reserve(tx, items)
		if err != nil {
			return err
		}

		total := reserved.Total()
		record.Total = total
		for _, line := range reserved.Lines() {
			record.Details = append(record.Details, order.OrderDetail{
				ProductID:   line.ProductID,
				ProductName: line.Name,
				UnitPrice:   line.UnitPrice,
				Quantity:    line.Quantity,
			})
		}
		record.Payments = []order.PaymentRecord{{
			MethodID:  methodID,
			Amount:    total,
			Status:    payment.Approved,
			Reference: uuid.NewString(),
			PaidAt:    &now,
		}}

		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		movements := make([]inventory.Movement, 0, len(record.Details))
		for _, d := range record.Details {
			movements = append(movements, inventory.Sale(d.ProductID, d.Quantity, record.ID))
		}
		return inventory.Record(tx, movements...)
	})
	if err != nil {
		if !isBusinessError(err) {
			s.log.WithError(err).WithFields(logrus.Fields{
				"user_id":    userID,
				"session_id": sessionID,
			}).Error("checkout failed")
		}
		return nil, err
	}

	if fromCart {
		if err := s.carts.Clear(ctx, sessionID); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"order_id":   record.ID,
				"session_id": sessionID,
			}).Warn("failed to clear cart after order creation")
		}
	}

	s.log.WithFields(logrus.Fields{
		"order_id": record.ID,
		"user_id":  userID,
		"total":    record.Total.StringFixed(2),
	}).Info("order placed")

	view := order.Project(&record)
	return &view, nil
}

func (s *Service) resolveItems(ctx context.Context, sessionID string, buyNow []Item) ([]Item, bool, error) {
	if len(buyNow) > 0 {
		for _, item := range buyNow {
			if item.Quantity < 1 {
				return nil, false, cart.ErrInvalidQuantity
			}
		}
		return buyNow, false, nil
	}

	c, err := s.carts.Snapshot(ctx, sessionID)
	if err != nil {
		if errors.Is(err, cart.ErrSessionRequired) {
			return nil, false, ErrEmptyCart
		}
		return nil, false, err
	}

	items := make([]Item, 0, c.Len())
	for _, line := range c.Lines() {
		items = append(items, Item{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return items, true, nil
}

// reserve re-reads every product, rebuilds the lines at current prices
// and decrements stock
func reserve(tx *gorm.DB, items []Item) (*cart.Cart, error) {
	reserved := cart.New()

	for _, item := range items {
		var p product.Product
		if err := tx.First(&p, item.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: %d", product.ErrProductNotFound, item.ProductID)
			}
			return nil, fmt.Errorf("failed to retrieve product: %w", err)
		}

		if err := reserved.AddItem(cart.Product{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Stock:    p.Stock,
			ImageURL: p.ImageURL,
		}, item.Quantity); err != nil {
			return nil, err
		}
	}

	for _, line := range reserved.Lines() {
		ok, err := inventory.Take(tx, line.ProductID, line.Quantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &cart.StockError{ProductID: line.ProductID, Requested: line.Quantity, Available: line.StockCeiling}
		}
	}

	return reserved, nil
}

func ensureProfile(tx *gorm.DB, userID uuid.UUID, email string) error {
	p := profile.Profile{UserID: userID}
	if err := tx.Where(profile.Profile{UserID: userID}).
		Attrs(profile.Profile{Email: email, Role: profile.RoleCustomer}).
		FirstOrCreate(&p).Error; err != nil {
		return fmt.Errorf("failed to load customer profile: %w", err)
	}
	return nil
}

func isBusinessError(err error) bool {
	return errors.Is(err, cart.ErrInsufficientStock) ||
		errors.Is(err, cart.ErrInvalidQuantity) ||
		errors.Is(err, product.ErrProductNotFound)
}

// Quote prices the session cart without reserving anything
func (s *Service) Quote(ctx context.Context, sessionID string) (decimal.Decimal, int, error) {
	c, err := s.carts.Snapshot(ctx, sessionID)
	if err != nil {
		return decimal.Zero, 0, err
	}
	return c.Total(), c.ItemCount(), nil
}

// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/ventilation-store/internal/domain/product"
)

// ErrSessionRequired is returned when no session id accompanies a cart request
var ErrSessionRequired = errors.New("cart session id is required")

// Catalog resolves products for add-to-cart
type Catalog interface {
	Get(ctx context.Context, id uint) (*product.Product, error)
}

// Service owns the per-session cart state. Each operation loads the
// snapshot, applies one mutation and saves only when it succeeded.
type Service struct {
	store   Store
	catalog Catalog
	log     *logrus.Logger

	// serializes read-modify-write per session inside this process
	locks sessionLocks
}

// NewService creates a new cart service
func NewService(store Store, catalog Catalog, log *logrus.Logger) *Service {
	return &Service{
		store:   store,
		catalog: catalog,
		log:     log,
		locks:   sessionLocks{held: make(map[string]*sessionLock)},
	}
}

// Get returns the session's cart summary
func (s *Service) Get(ctx context.Context, sessionID string) (*Summary, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return summarize(sessionID, c), nil
}

// Add resolves the product from the catalog and merges quantity into the cart
func (s *Service) Add(ctx context.Context, sessionID string, productID uint, quantity int) (*Summary, error) {
	p, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, sessionID, func(c *Cart) error {
		return c.AddItem(Product{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Stock:    p.Stock,
			ImageURL: p.ImageURL,
		}, quantity)
	})
}

// Remove deletes a product's line
func (s *Service) Remove(ctx context.Context, sessionID string, productID uint) (*Summary, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) error {
		c.RemoveItem(productID)
		return nil
	})
}

// SetQuantity replaces a line's quantity
func (s *Service) SetQuantity(ctx context.Context, sessionID string, productID uint, quantity int) (*Summary, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) error {
		return c.SetQuantity(productID, quantity)
	})
}

// Clear empties the session's cart
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrSessionRequired
	}

	unlock := s.lock(sessionID)
	defer unlock()

	if err := s.store.Delete(ctx, sessionID); err != nil {
		return err
	}

	s.log.WithField("session_id", sessionID).Debug("cart cleared")
	return nil
}

// Count returns the number of units in the cart
func (s *Service) Count(ctx context.Context, sessionID string) (int, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return c.ItemCount(), nil
}

// Snapshot returns the raw cart for checkout
func (s *Service) Snapshot(ctx context.Context, sessionID string) (*Cart, error) {
	return s.load(ctx, sessionID)
}

func (s *Service) mutate(ctx context.Context, sessionID string, apply func(*Cart) error) (*Summary, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}

	unlock := s.lock(sessionID)
	defer unlock()

	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := apply(c); err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, sessionID, c.Lines()); err != nil {
		return nil, fmt.Errorf("failed to persist cart: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"session_id": sessionID,
		"lines":      c.Len(),
		"items":      c.ItemCount(),
	}).Debug("cart updated")

	return summarize(sessionID, c), nil
}

func (s *Service) load(ctx context.Context, sessionID string) (*Cart, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}

	lines, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return New(lines...), nil
}

func (s *Service) lock(sessionID string) func() {
	return s.locks.acquire(sessionID)
}

// sessionLocks hands out one mutex per session while it has holders or
// waiters. The entry is dropped when the last holder unlocks.
type sessionLocks struct {
	mu   sync.Mutex
	held map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func (l *sessionLocks) acquire(key string) func() {
	l.mu.Lock()
	entry, ok := l.held[key]
	if !ok {
		entry = &sessionLock{}
		l.held[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.held, key)
		}
		l.mu.Unlock()
	}
}

func (l *sessionLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.held)
}

func summarize(sessionID string, c *Cart) *Summary {
	total := c.Total()
	return &Summary{
		SessionID: sessionID,
		Lines:     c.Lines(),
		ItemCount: c.ItemCount(),
		Total:     total,
		Display:   Display(total),
	}
}

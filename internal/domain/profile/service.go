// internal/domain/profile/service.go
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/ventilation-store/internal/domain/payment"
	"github.com/your-org/ventilation-store/internal/domain/validation"
	"gorm.io/gorm"
)

// ErrProfileNotFound is returned when no profile exists for the user
var ErrProfileNotFound = errors.New("profile not found")

// Service handles profile business logic. Reads go through a Redis cache
// keyed by user id; writes refresh it.
type Service struct {
	db    *gorm.DB
	cache *redis.Client
	ttl   time.Duration
	log   *logrus.Logger
}

// NewService creates a new profile service. A nil cache disables caching.
func NewService(db *gorm.DB, cache *redis.Client, ttl time.Duration, log *logrus.Logger) *Service {
	return &Service{db: db, cache: cache, ttl: ttl, log: log}
}

// UpdateRequest represents the editable profile data
type UpdateRequest struct {
	FirstNames       string         `json:"first_names"`
	LastNames        string         `json:"last_names"`
	NationalID       string         `json:"national_id"`
	BirthDate        string         `json:"birth_date"`
	Phone            string         `json:"phone"`
	Email            string         `json:"email"`
	Address          AddressRequest `json:"address"`
	PreferredPayment string         `json:"preferred_payment"`
}

// AddressRequest represents the editable address data
type AddressRequest struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	Department string `json:"department"`
	City       string `json:"city"`
	District   string `json:"district"`
	PostalCode string `json:"postal_code"`
	Reference  string `json:"reference"`
}

// ListCustomersRequest represents admin customer list query parameters
type ListCustomersRequest struct {
	Search string `form:"search"`
}

func cacheKey(userID uuid.UUID) string {
	return fmt.Sprintf("profile:%s", userID)
}

// Get returns the user's profile
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	if p, ok := s.fromCache(ctx, userID); ok {
		return p, nil
	}

	var p Profile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to retrieve profile: %w", err)
	}

	s.toCache(ctx, &p)
	return &p, nil
}

// GetOrDefault returns the stored profile or an unsaved customer profile
// carrying the identity provider's email
func (s *Service) GetOrDefault(ctx context.Context, userID uuid.UUID, email string) (*Profile, error) {
	p, err := s.Get(ctx, userID)
	if errors.Is(err, ErrProfileNotFound) {
		return &Profile{UserID: userID, Email: strings.ToLower(email), Role: RoleCustomer}, nil
	}
	return p, err
}

// Update validates and stores the user's own profile
func (s *Service) Update(ctx context.Context, userID uuid.UUID, req *UpdateRequest) (*Profile, error) {
	if errs := req.Validate(); errs != nil {
		return nil, errs
	}

	var p Profile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", userID).First(&p).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			p = Profile{UserID: userID, Role: RoleCustomer}
			req.apply(&p)
			if err := tx.Create(&p).Error; err != nil {
				return fmt.Errorf("failed to create profile: %w", err)
			}
			return nil
		case err != nil:
			return fmt.Errorf("failed to load profile: %w", err)
		}

		req.apply(&p)
		if err := tx.Save(&p).Error; err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, &p)
	return &p, nil
}

// ListCustomers returns non-admin profiles, optionally filtered by name, national id or email
func (s *Service) ListCustomers(ctx context.Context, req *ListCustomersRequest) ([]Profile, error) {
	query := s.db.WithContext(ctx).Where("role <> ?", RoleAdmin)

	if search := strings.TrimSpace(req.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(first_names) LIKE ? OR LOWER(last_names) LIKE ? OR national_id LIKE ? OR LOWER(email) LIKE ?",
			like, like, like, like)
	}

	var profiles []Profile
	if err := query.Order("last_names ASC, first_names ASC").Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve customers: %w", err)
	}
	return profiles, nil
}

// UpdateCustomer lets an administrator edit an existing customer profile
func (s *Service) UpdateCustomer(ctx context.Context, userID uuid.UUID, req *UpdateRequest) (*Profile, error) {
	if errs := req.Validate(); errs != nil {
		return nil, errs
	}

	var p Profile
	if err := s.db.WithContext(ctx).Where("user_id = ? AND role <> ?", userID, RoleAdmin).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to retrieve customer: %w", err)
	}

	req.apply(&p)
	if err := s.db.WithContext(ctx).Save(&p).Error; err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	s.log.WithField("user_id", userID).Info("customer profile updated by admin")
	s.toCache(ctx, &p)
	return &p, nil
}

// CountCustomers returns the number of non-admin profiles
func (s *Service) CountCustomers(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&Profile{}).Where("role <> ?", RoleAdmin).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return total, nil
}

// Validate checks personal data, the address when any address field is set,
// and the preferred payment method when given
func (r *UpdateRequest) Validate() *validation.Errors {
	errs := validation.ProfileRules.Validate(map[string]string{
		"first_names": r.FirstNames,
		"last_names":  r.LastNames,
		"national_id": r.NationalID,
		"birth_date":  r.BirthDate,
		"phone":       r.Phone,
		"email":       r.Email,
	})

	if r.Address != (AddressRequest{}) {
		errs = validation.Join(errs, validation.AddressRules.Validate(map[string]string{
			"street":      r.Address.Street,
			"number":      r.Address.Number,
			"department":  r.Address.Department,
			"city":        r.Address.City,
			"district":    r.Address.District,
			"postal_code": r.Address.PostalCode,
			"reference":   r.Address.Reference,
		}))
	}

	if r.PreferredPayment != "" {
		if _, ok := payment.Lookup(r.PreferredPayment); !ok {
			errs = validation.Join(errs, &validation.Errors{Fields: map[string]string{
				"preferred_payment": "Select a valid payment method",
			}})
		}
	}

	return errs
}

func (r *UpdateRequest) apply(p *Profile) {
	p.FirstNames = strings.TrimSpace(r.FirstNames)
	p.LastNames = strings.TrimSpace(r.LastNames)
	p.NationalID = r.NationalID
	p.BirthDate = r.BirthDate
	p.Phone = r.Phone
	p.Email = r.Email
	p.Address = Address{
		Street:     strings.TrimSpace(r.Address.Street),
		Number:     strings.TrimSpace(r.Address.Number),
		Department: strings.TrimSpace(r.Address.Department),
		City:       strings.TrimSpace(r.Address.City),
		District:   strings.TrimSpace(r.Address.District),
		PostalCode: r.Address.PostalCode,
		Reference:  strings.TrimSpace(r.Address.Reference),
	}
	if m, ok := payment.Lookup(r.PreferredPayment); ok {
		p.PreferredPayment = m.Key
	} else {
		p.PreferredPayment = ""
	}
}

func (s *Service) fromCache(ctx context.Context, userID uuid.UUID) (*Profile, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(ctx, cacheKey(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.WithError(err).WithField("user_id", userID).Warn("profile cache read failed")
		}
		return nil, false
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, false
	}
	return &p, true
}

func (s *Service) toCache(ctx context.Context, p *Profile) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(p.UserID), data, s.ttl).Err(); err != nil {
		s.log.WithError(err).WithField("user_id", p.UserID).Warn("profile cache write failed")
	}
}

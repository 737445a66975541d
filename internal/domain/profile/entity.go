// internal/domain/profile/entity.go
package profile

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role distinguishes storefront customers from administrators
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Profile holds the customer data the identity provider does not own.
// UserID is the provider's subject.
type Profile struct {
	UserID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	FirstNames       string    `gorm:"size:100" json:"first_names"`
	LastNames        string    `gorm:"size:100" json:"last_names"`
	NationalID       string    `gorm:"size:8;index" json:"national_id"`
	BirthDate        string    `gorm:"size:10" json:"birth_date"`
	Phone            string    `gorm:"size:9" json:"phone"`
	Email            string    `gorm:"size:255;index" json:"email"`
	Role             Role      `gorm:"size:20;not null;default:'customer';index" json:"role"`
	Address          Address   `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	PreferredPayment string    `gorm:"size:20" json:"preferred_payment"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Address is the customer's default delivery address
type Address struct {
	Street     string `gorm:"size:255" json:"street"`
	Number     string `gorm:"size:20" json:"number"`
	Department string `gorm:"size:100" json:"department"`
	City       string `gorm:"size:100" json:"city"`
	District   string `gorm:"size:100" json:"district"`
	PostalCode string `gorm:"size:5" json:"postal_code"`
	Reference  string `gorm:"size:255" json:"reference"`
}

// TableName overrides the table name for Profile
func (Profile) TableName() string {
	return "profiles"
}

// BeforeSave normalizes the email
func (p *Profile) BeforeSave(tx *gorm.DB) error {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	if p.Role == "" {
		p.Role = RoleCustomer
	}
	return nil
}

// FullName joins first and last names
func (p *Profile) FullName() string {
	return strings.TrimSpace(p.FirstNames + " " + p.LastNames)
}

// DisplayName returns the full name, falling back to the email
func (p *Profile) DisplayName() string {
	if name := p.FullName(); name != "" {
		return name
	}
	return p.Email
}

// IsAdmin reports whether the profile belongs to an administrator
func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

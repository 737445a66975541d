// internal/domain/product/service.go
package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/your-org/ventilation-store/internal/domain/inventory"
	"github.com/your-org/ventilation-store/internal/domain/validation"
	"gorm.io/gorm"
)

// ErrProductNotFound is returned when no product matches the id
var ErrProductNotFound = errors.New("product not found")

// Service handles product business logic
type Service struct {
	db *gorm.DB
}

// NewService creates a new product service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ListRequest represents product list query parameters
type ListRequest struct {
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=20"`
	Category  string `form:"category"`
	Search    string `form:"search"`
	SortBy    string `form:"sort_by,default=created_at"`
	SortOrder string `form:"sort_order,default=desc"`
	InStock   bool   `form:"in_stock"`
}

// CreateRequest represents product creation data
type CreateRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Model       string          `json:"model"`
	Brand       string          `json:"brand"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"image_url"`
}

// UpdateRequest represents a partial product update
type UpdateRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Model       *string          `json:"model"`
	Brand       *string          `json:"brand"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	ImageURL    *string          `json:"image_url"`
}

// ListResponse represents product response with pagination
type ListResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// NewPagination computes page metadata
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// List retrieves products with filtering and pagination
func (s *Service) List(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	var products []Product
	var total int64

	query := s.db.WithContext(ctx).Model(&Product{})

	if req.Category != "" {
		query = query.Where("LOWER(category) = ?", strings.ToLower(req.Category))
	}

	if req.Search != "" {
		search := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(category) LIKE ?", search, search)
	}

	if req.InStock {
		query = query.Where("stock > 0")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Order(buildOrderClause(req.SortBy, req.SortOrder)).
		Offset(offset).Limit(req.Limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	return &ListResponse{
		Products:   products,
		Pagination: NewPagination(req.Page, req.Limit, total),
	}, nil
}

// Get retrieves a single product by ID
func (s *Service) Get(ctx context.Context, id uint) (*Product, error) {
	var product Product
	result := s.db.WithContext(ctx).Where("id = ?", id).First(&product)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}
	return &product, nil
}

// Create validates and stores a new product
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Product, error) {
	if errs := validateFields(req.Name, req.Category, req.Model, req.Brand, req.Price, req.Stock); errs != nil {
		return nil, errs
	}

	product := Product{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Category:    req.Category,
		Model:       strings.TrimSpace(req.Model),
		Brand:       strings.TrimSpace(req.Brand),
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		if product.Stock == 0 {
			return nil
		}
		return inventory.Record(tx, inventory.Adjustment(product.ID, product.Stock, inventory.ReasonInitial))
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Update applies a partial update; the merged result is validated as a whole
func (s *Service) Update(ctx context.Context, id uint, req *UpdateRequest) (*Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	previousStock := product.Stock

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = strings.TrimSpace(*req.Description)
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Model != nil {
		product.Model = strings.TrimSpace(*req.Model)
	}
	if req.Brand != nil {
		product.Brand = strings.TrimSpace(*req.Brand)
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}

	if errs := validateFields(product.Name, product.Category, product.Model, product.Brand, product.Price, product.Stock); errs != nil {
		return nil, errs
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(product).Error; err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}
		if delta := product.Stock - previousStock; delta != 0 {
			return inventory.Record(tx, inventory.Adjustment(product.ID, delta, inventory.ReasonAdjustment))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// Delete soft-deletes a product. Order details keep their name and price snapshots.
func (s *Service) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&Product{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// StockCeiling returns how many units of a product can be bought
func (s *Service) StockCeiling(ctx context.Context, id uint) (int, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return product.Stock, nil
}

// LowStock returns products at or below threshold units, scarcest first
func (s *Service) LowStock(ctx context.Context, threshold, limit int) ([]Product, error) {
	var products []Product
	if err := s.db.WithContext(ctx).
		Where("stock <= ?", threshold).
		Order("stock ASC, name ASC").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve low stock products: %w", err)
	}
	return products, nil
}

// Categories returns the distinct catalog categories
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := s.db.WithContext(ctx).Model(&Product{}).
		Distinct().
		Order("category ASC").
		Pluck("category", &categories).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}
	return categories, nil
}

// Count returns the number of catalog products
func (s *Service) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&Product{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}

func validateFields(name, category, model, brand string, price decimal.Decimal, stock int) *validation.Errors {
	fields := make(map[string]string)

	for field, value := range map[string]string{"name": name, "category": category, "model": model, "brand": brand} {
		if strings.TrimSpace(value) == "" {
			fields[field] = field + " is required"
		}
	}
	if !price.IsPositive() {
		fields["price"] = "price must be greater than zero"
	}
	if stock < 0 {
		fields["stock"] = "stock cannot be negative"
	}

	if len(fields) == 0 {
		return nil
	}
	return &validation.Errors{Fields: fields}
}

func buildOrderClause(sortBy, sortOrder string) string {
	validSortFields := map[string]bool{
		"created_at": true,
		"name":       true,
		"price":      true,
		"stock":      true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}

	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}

// internal/domain/review/service.go
package review

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/your-org/ventilation-store/internal/domain/order"
	"github.com/your-org/ventilation-store/internal/domain/validation"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound   = errors.New("review not found")
	ErrReviewNotAllowed = errors.New("only delivered products can be reviewed")
	ErrAlreadyReviewed  = errors.New("you have already reviewed this product")
	ErrNotOwner         = errors.New("you cannot modify this review")
)

// Service handles review business logic
type Service struct {
	db *gorm.DB
}

// NewService creates a new review service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateRequest represents review creation data
type CreateRequest struct {
	ProductID uint   `json:"product_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// UpdateRequest represents a partial review update
type UpdateRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

// Create stores a review for a product found in one of the user's delivered orders
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *CreateRequest) (*Response, error) {
	comment := strings.TrimSpace(req.Comment)
	if errs := validateReview(req.Rating, comment); errs != nil {
		return nil, errs
	}

	db := s.db.WithContext(ctx)

	var existing int64
	if err := db.Model(&Review{}).
		Where("user_id = ? AND product_id = ?", userID, req.ProductID).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if existing > 0 {
		return nil, ErrAlreadyReviewed
	}

	orderID, err := s.deliveredOrderFor(db, userID, req.ProductID)
	if err != nil {
		return nil, err
	}

	review := Review{
		UserID:    userID,
		ProductID: req.ProductID,
		OrderID:   orderID,
		Rating:    req.Rating,
		Comment:   comment,
	}
	if err := db.Create(&review).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	return s.get(ctx, review.ID)
}

// Update edits the user's own review
func (s *Service) Update(ctx context.Context, userID uuid.UUID, id uint, req *UpdateRequest) (*Response, error) {
	review, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	rating := review.Rating
	if req.Rating != nil {
		rating = *req.Rating
	}
	comment := review.Comment
	if req.Comment != nil {
		comment = strings.TrimSpace(*req.Comment)
	}

	if errs := validateReview(rating, comment); errs != nil {
		return nil, errs
	}

	if err := s.db.WithContext(ctx).Model(review).Updates(map[string]interface{}{
		"rating":  rating,
		"comment": comment,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	return s.get(ctx, id)
}

// Delete removes the user's own review
func (s *Service) Delete(ctx context.Context, userID uuid.UUID, id uint) error {
	review, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(review).Error; err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return nil
}

// ListMine returns the user's reviews, newest first
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID) ([]Response, error) {
	var reviews []Review
	if err := s.db.WithContext(ctx).
		Preload("Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Author").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve reviews: %w", err)
	}
	return buildResponses(reviews), nil
}

// Pending lists delivered products the user has not reviewed, one entry per product
func (s *Service) Pending(ctx context.Context, userID uuid.UUID) ([]PendingItem, error) {
	db := s.db.WithContext(ctx)

	var orders []order.OrderRecord
	if err := db.
		Preload("Details", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Details.Product").
		Where("user_id = ? AND status = ?", userID, order.StatusDelivered).
		Order("placed_at DESC, id DESC").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve delivered orders: %w", err)
	}

	var reviewed []uint
	if err := db.Model(&Review{}).Where("user_id = ?", userID).Pluck("product_id", &reviewed).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve reviewed products: %w", err)
	}

	seen := make(map[uint]bool, len(reviewed))
	for _, id := range reviewed {
		seen[id] = true
	}

	pending := make([]PendingItem, 0)
	for _, o := range orders {
		for _, line := range order.Project(&o).Lines {
			if seen[line.ProductID] {
				continue
			}
			seen[line.ProductID] = true
			pending = append(pending, PendingItem{
				ProductID:   line.ProductID,
				ProductName: line.Name,
				ImageURL:    line.ImageURL,
				OrderID:     o.ID,
				DeliveredAt: o.DeliveredAt,
			})
		}
	}
	return pending, nil
}

// ListForProduct returns a product's reviews with rating statistics
func (s *Service) ListForProduct(ctx context.Context, productID uint) (*ProductReviews, error) {
	var reviews []Review
	if err := s.db.WithContext(ctx).
		Preload("Product").
		Preload("Author").
		Where("product_id = ?", productID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve reviews: %w", err)
	}

	return &ProductReviews{
		Reviews: buildResponses(reviews),
		Summary: summarize(reviews),
	}, nil
}

func (s *Service) deliveredOrderFor(db *gorm.DB, userID uuid.UUID, productID uint) (uint, error) {
	var orderIDs []uint
	if err := db.Model(&order.OrderDetail{}).
		Joins("JOIN orders ON orders.id = order_details.order_id").
		Where("orders.user_id = ? AND orders.status = ? AND order_details.product_id = ?",
			userID, order.StatusDelivered, productID).
		Order("orders.placed_at DESC").
		Limit(1).
		Pluck("order_details.order_id", &orderIDs).Error; err != nil {
		return 0, fmt.Errorf("failed to verify purchase: %w", err)
	}

	if len(orderIDs) == 0 {
		return 0, ErrReviewNotAllowed
	}
	return orderIDs[0], nil
}

func (s *Service) owned(ctx context.Context, userID uuid.UUID, id uint) (*Review, error) {
	var review Review
	if err := s.db.WithContext(ctx).First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to retrieve review: %w", err)
	}
	if !review.CanBeEditedBy(userID) {
		return nil, ErrNotOwner
	}
	return &review, nil
}

func (s *Service) get(ctx context.Context, id uint) (*Response, error) {
	var review Review
	if err := s.db.WithContext(ctx).Preload("Product").Preload("Author").First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to retrieve review: %w", err)
	}
	resp := buildResponse(&review)
	return &resp, nil
}

func validateReview(rating int, comment string) *validation.Errors {
	fields := make(map[string]string)

	if rating < MinRating || rating > MaxRating {
		fields["rating"] = fmt.Sprintf("Rating must be between %d and %d", MinRating, MaxRating)
	}

	if n := utf8.RuneCountInString(comment); n > 0 && (n < MinCommentLength || n > MaxCommentLength) {
		fields["comment"] = fmt.Sprintf("Comment must be between %d and %d characters", MinCommentLength, MaxCommentLength)
	}

	if len(fields) == 0 {
		return nil
	}
	return &validation.Errors{Fields: fields}
}

func buildResponses(reviews []Review) []Response {
	out := make([]Response, 0, len(reviews))
	for i := range reviews {
		out = append(out, buildResponse(&reviews[i]))
	}
	return out
}

func buildResponse(r *Review) Response {
	resp := Response{
		ID:        r.ID,
		ProductID: r.ProductID,
		OrderID:   r.OrderID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Product != nil {
		resp.ProductName = r.Product.Name
		resp.ImageURL = r.Product.ImageURL
	} else {
		resp.ProductName = order.UnavailableProduct
	}
	if r.Author != nil {
		resp.AuthorName = r.Author.DisplayName()
	}
	return resp
}

func summarize(reviews []Review) Summary {
	summary := Summary{Distribution: make(map[int]int, MaxRating)}
	for rating := MinRating; rating <= MaxRating; rating++ {
		summary.Distribution[rating] = 0
	}
	if len(reviews) == 0 {
		return summary
	}

	total := 0
	for _, r := range reviews {
		summary.Distribution[r.Rating]++
		total += r.Rating
	}
	summary.Count = len(reviews)
	summary.Average = math.Round(float64(total)/float64(len(reviews))*10) / 10
	return summary
}

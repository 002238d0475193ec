package database

import (
	"context"
	"time"

	"krishi-vaidya/internal/models"

	"github.com/google/uuid"
)

// AccrualResult reports what a reputation accrual attempt did. Updated is
// false when the acting user's record was not found; post creation proceeds
// regardless, so callers log and move on rather than fail.
type AccrualResult struct {
	Updated  bool
	NewScore int
	Delta    int
}

// ProductUpdate carries the mutable listing fields for an edit. ImageURL is
// applied only when non-empty (no new image uploaded means keep the old one).
type ProductUpdate struct {
	Name        string
	Price       int
	Unit        string
	Location    string
	Category    string
	Description string
	ImageURL    string
}

// Store is the data-access surface the handlers and actors are built
// against. *MongoDB is the production implementation.
type Store interface {
	SaveUser(ctx context.Context, user *models.User) error
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)
	AccrueOnPost(ctx context.Context, phone string, now time.Time) (AccrualResult, error)
	TopUsersByScore(ctx context.Context, limit int) ([]*models.User, error)

	SavePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error)
	GetRecentPosts(ctx context.Context) ([]*models.Post, error)
	IncrementLikes(ctx context.Context, postID uuid.UUID) error
	AppendComment(ctx context.Context, postID uuid.UUID, comment models.Comment) error

	SaveProduct(ctx context.Context, product *models.Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetAllProducts(ctx context.Context) ([]*models.Product, error)
	GetSellerProducts(ctx context.Context, sellerPhone string) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, update ProductUpdate) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

var _ Store = (*MongoDB)(nil)

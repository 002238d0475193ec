// Package databasetest provides an in-memory Store for handler and
// actor tests, mirroring the Mongo implementation's semantics.
package databasetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"krishi-vaidya/internal/database"
	"krishi-vaidya/internal/models"
	"krishi-vaidya/internal/reputation"
	"krishi-vaidya/internal/utils"
)

type MemStore struct {
	mu       sync.Mutex
	users    map[string]*models.User // keyed by phone
	posts    map[uuid.UUID]*models.Post
	products map[uuid.UUID]*models.Product
}

func NewMemStore() *MemStore {
	return &MemStore{
		users:    make(map[string]*models.User),
		posts:    make(map[uuid.UUID]*models.Post),
		products: make(map[uuid.UUID]*models.Product),
	}
}

var _ database.Store = (*MemStore)(nil)

func (s *MemStore) SaveUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.users[user.Phone]; ok && existing.ID != user.ID {
		return utils.NewAppError(utils.ErrUserAlreadyExists, "a user with this phone number already exists", nil)
	}
	clone := *user
	s.users[user.Phone] = &clone
	return nil
}

func (s *MemStore) GetUserByPhone(_ context.Context, phone string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[phone]
	if !ok {
		return nil, utils.NewUserNotFoundError(phone)
	}
	clone := *user
	return &clone, nil
}

func (s *MemStore) AccrueOnPost(_ context.Context, phone string, now time.Time) (database.AccrualResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[phone]
	if !ok {
		return database.AccrualResult{Updated: false}, nil
	}

	delta := reputation.Accrue(user.LastPostAt, now)
	user.Score += delta
	stamp := now
	user.LastPostAt = &stamp
	return database.AccrualResult{Updated: true, NewScore: user.Score, Delta: delta}, nil
}

func (s *MemStore) TopUsersByScore(_ context.Context, limit int) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		clone := *u
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Score != all[j].Score {
			return all[i].Score > all[j].Score
		}
		return strings.Compare(all[i].ID.String(), all[j].ID.String()) < 0
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *MemStore) SavePost(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *post
	s.posts[post.ID] = &clone
	return nil
}

func (s *MemStore) GetPost(_ context.Context, id uuid.UUID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrPostNotFound, "post not found", nil)
	}
	clone := *post
	return &clone, nil
}

func (s *MemStore) GetRecentPosts(_ context.Context) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]*models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		clone := *p
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all, nil
}

func (s *MemStore) IncrementLikes(_ context.Context, postID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok {
		return utils.NewAppError(utils.ErrPostNotFound, "post not found", nil)
	}
	post.Likes++
	return nil
}

func (s *MemStore) AppendComment(_ context.Context, postID uuid.UUID, comment models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok {
		return utils.NewAppError(utils.ErrPostNotFound, "post not found", nil)
	}
	post.Comments = append(post.Comments, comment)
	return nil
}

func (s *MemStore) SaveProduct(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *product
	s.products[product.ID] = &clone
	return nil
}

func (s *MemStore) GetProduct(_ context.Context, id uuid.UUID) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrProductNotFound, "product not found", nil)
	}
	clone := *product
	return &clone, nil
}

func (s *MemStore) GetAllProducts(_ context.Context) ([]*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedProducts(func(*models.Product) bool { return true }), nil
}

func (s *MemStore) GetSellerProducts(_ context.Context, sellerPhone string) ([]*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedProducts(func(p *models.Product) bool { return p.SellerPhone == sellerPhone }), nil
}

func (s *MemStore) sortedProducts(keep func(*models.Product) bool) []*models.Product {
	all := make([]*models.Product, 0, len(s.products))
	for _, p := range s.products {
		if keep(p) {
			clone := *p
			all = append(all, &clone)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all
}

func (s *MemStore) UpdateProduct(_ context.Context, id uuid.UUID, update database.ProductUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return utils.NewAppError(utils.ErrProductNotFound, "product not found", nil)
	}

	product.Name = update.Name
	product.Price = update.Price
	product.Unit = update.Unit
	product.Location = update.Location
	product.Category = update.Category
	product.Description = update.Description
	if update.ImageURL != "" {
		product.ImageURL = update.ImageURL
	}
	product.UpdatedAt = time.Now()
	return nil
}

func (s *MemStore) DeleteProduct(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return utils.NewAppError(utils.ErrProductNotFound, "product not found", nil)
	}
	delete(s.products, id)
	return nil
}

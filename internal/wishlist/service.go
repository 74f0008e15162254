package wishlist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rohanmahajan/furnimart-backend/internal/products"
	"github.com/rohanmahajan/furnimart-backend/pkg/db/models"
	pkgerrors "github.com/rohanmahajan/furnimart-backend/pkg/errors"
)

// ItemResponse is one wishlist entry on the wire.
type ItemResponse struct {
	ID        uuid.UUID                 `json:"id"`
	ProductID uuid.UUID                 `json:"productId"`
	Product   *products.ProductResponse `json:"product,omitempty"`
	AddedAt   time.Time                 `json:"addedAt"`
}

// Service manages a customer's wishlist.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]ItemResponse, error)
	Add(ctx context.Context, userID, productID uuid.UUID) ([]ItemResponse, error)
	Remove(ctx context.Context, userID, productID uuid.UUID) ([]ItemResponse, error)
}

type service struct {
	repo     Repository
	products products.Repository
}

// NewService builds a wishlist service.
func NewService(repo Repository, productsRepo products.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("wishlist repository required")
	}
	if productsRepo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{repo: repo, products: productsRepo}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]ItemResponse, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wishlist")
	}
	return toResponses(items), nil
}

// Add is idempotent: wishing for a product twice leaves one entry.
func (s *service) Add(ctx context.Context, userID, productID uuid.UUID) ([]ItemResponse, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	exists, err := s.repo.Exists(ctx, userID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check wishlist")
	}
	if !exists {
		item := &models.WishlistItem{ID: uuid.New(), UserID: userID, ProductID: productID}
		if _, err := s.repo.Create(ctx, item); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add wishlist item")
		}
	}

	return s.List(ctx, userID)
}

func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) ([]ItemResponse, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if err := s.repo.Delete(ctx, userID, productID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist item")
	}
	return s.List(ctx, userID)
}

func toResponses(items []models.WishlistItem) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		resp := ItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			AddedAt:   item.AddedAt,
		}
		if item.Product != nil {
			product := products.ToProductResponse(*item.Product)
			resp.Product = &product
		}
		out = append(out, resp)
	}
	return out
}

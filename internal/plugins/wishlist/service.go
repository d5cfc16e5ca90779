package wishlist

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/keyxmakerx/storefront/internal/apperror"
	"github.com/keyxmakerx/storefront/internal/commerce"
)

// WishlistService defines the business logic contract for wishlists.
type WishlistService interface {
	List(ctx context.Context, userID string) ([]commerce.WishlistItem, error)
	Add(ctx context.Context, userID, productID string) (bool, error)
	Remove(ctx context.Context, userID, productID string) error
}

type wishlistService struct {
	repo WishlistRepository
	now  func() time.Time
}

// NewWishlistService creates a new wishlist service.
func NewWishlistService(repo WishlistRepository) WishlistService {
	return &wishlistService{repo: repo, now: time.Now}
}

// List returns the user's wishlist.
func (s *wishlistService) List(ctx context.Context, userID string) ([]commerce.WishlistItem, error) {
	items, err := s.repo.ListWishlist(ctx, userID)
	if err != nil {
		return nil, apperror.NewStoreUnavailable(err)
	}
	return items, nil
}

// Add puts a product on the wishlist. It reports false, without error,
// when the product is already there.
func (s *wishlistService) Add(ctx context.Context, userID, productID string) (bool, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return false, apperror.NewMissingFields("Please provide a product")
	}

	exists, err := s.repo.ProductExists(ctx, productID)
	if err != nil {
		return false, apperror.NewStoreUnavailable(err)
	}
	if !exists {
		return false, apperror.NewNotFound("Product not found")
	}

	added, err := s.repo.Add(ctx, uuid.NewString(), userID, productID, s.now().UTC())
	if err != nil {
		return false, apperror.NewStoreUnavailable(fmt.Errorf("adding to wishlist: %w", err))
	}
	if added {
		slog.Debug("wishlist item added",
			slog.String("user_id", userID),
			slog.String("product_id", productID),
		)
	}
	return added, nil
}

// Remove takes a product off the wishlist. Removing a product that is not
// on it succeeds.
func (s *wishlistService) Remove(ctx context.Context, userID, productID string) error {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return apperror.NewMissingFields("Please provide a product")
	}
	if err := s.repo.Remove(ctx, userID, productID); err != nil {
		return apperror.NewStoreUnavailable(err)
	}
	return nil
}

package cart

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

// maxQuantity bounds a single cart entry.
const maxQuantity = 99

// CartService defines the business logic contract for carts.
type CartService interface {
	List(ctx context.Context, userID string) ([]commerce.CartItem, error)
	Add(ctx context.Context, userID, productID string, quantity int) (bool, error)
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error
	Remove(ctx context.Context, userID, productID string) error
	Empty(ctx context.Context, userID string) error
}

type cartService struct {
	repo CartRepository
	now  func() time.Time
}

// NewCartService creates a new cart service.
func NewCartService(repo CartRepository) CartService {
	return &cartService{repo: repo, now: time.Now}
}

// List returns the user's cart.
func (s *cartService) List(ctx context.Context, userID string) ([]commerce.CartItem, error) {
	items, err := s.repo.ListCart(ctx, userID)
	if err != nil {
		return nil, apperror.NewStoreUnavailable(err)
	}
	return items, nil
}

// Add puts a product in the cart. It reports false, without error, when
// the product is already there; the quantity endpoint changes amounts.
func (s *cartService) Add(ctx context.Context, userID, productID string, quantity int) (bool, error) {
	productID = strings.TrimSpace(productID)
	if err := checkItem(productID, quantity); err != nil {
		return false, err
	}

	exists, err := s.repo.ProductExists(ctx, productID)
	if err != nil {
		return false, apperror.NewStoreUnavailable(err)
	}
	if !exists {
		return false, apperror.NewNotFound("Product not found")
	}

	added, err := s.repo.Add(ctx, uuid.NewString(), userID, productID, quantity, s.now().UTC())
	if err != nil {
		return false, apperror.NewStoreUnavailable(fmt.Errorf("adding to cart: %w", err))
	}
	if added {
		slog.Debug("cart item added",
			slog.String("user_id", userID),
			slog.String("product_id", productID),
			slog.Int("quantity", quantity),
		)
	}
	return added, nil
}

// UpdateQuantity sets the quantity of a product in the cart. Setting the
// quantity of a product that is not in it changes nothing and succeeds.
func (s *cartService) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error {
	productID = strings.TrimSpace(productID)
	if err := checkItem(productID, quantity); err != nil {
		return err
	}

	if err := s.repo.SetQuantity(ctx, userID, productID, quantity); err != nil {
		return apperror.NewStoreUnavailable(err)
	}
	return nil
}

// Remove takes a product out of the cart. Removing a product that is not
// in it succeeds.
func (s *cartService) Remove(ctx context.Context, userID, productID string) error {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return apperror.NewMissingFields("Please provide a product")
	}
	if err := s.repo.Remove(ctx, userID, productID); err != nil {
		return apperror.NewStoreUnavailable(err)
	}
	return nil
}

// Empty removes everything from the cart.
func (s *cartService) Empty(ctx context.Context, userID string) error {
	if err := s.repo.Empty(ctx, userID); err != nil {
		return apperror.NewStoreUnavailable(err)
	}
	return nil
}

func checkItem(productID string, quantity int) error {
	if productID == "" {
		return apperror.NewMissingFields("Please provide a product")
	}
	if quantity < 1 {
		return apperror.NewMissingFields("Please provide a quantity of at least 1")
	}
	if quantity > maxQuantity {
		return apperror.NewBadRequest(fmt.Sprintf("Quantity cannot exceed %d", maxQuantity))
	}
	return nil
}

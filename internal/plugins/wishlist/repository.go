package wishlist

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/keyxmakerx/storefront/internal/commerce"
	"github.com/keyxmakerx/storefront/internal/database"
)

// WishlistRepository defines the data access contract for wishlists.
type WishlistRepository interface {
	ListWishlist(ctx context.Context, userID string) ([]commerce.WishlistItem, error)
	ProductExists(ctx context.Context, productID string) (bool, error)
	// Add inserts an entry and reports false if the product was already
	// on the list.
	Add(ctx context.Context, id, userID, productID string, addedAt time.Time) (bool, error)
	Remove(ctx context.Context, userID, productID string) error
}

// wishlistRepository implements WishlistRepository with MariaDB queries.
type wishlistRepository struct {
	db *sql.DB
}

// NewWishlistRepository creates a new wishlist repository.
func NewWishlistRepository(db *sql.DB) WishlistRepository {
	return &wishlistRepository{db: db}
}

// ListWishlist returns the user's wishlist, oldest first, with products
// attached.
func (r *wishlistRepository) ListWishlist(ctx context.Context, userID string) ([]commerce.WishlistItem, error) {
	query := `SELECT w.product_id, w.created_at, p.name, p.price_cents, p.image_url
	          FROM wishlist_items w
	          JOIN products p ON p.id = w.product_id
	          WHERE w.user_id = ?
	          ORDER BY w.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing wishlist: %w", err)
	}
	defer rows.Close()

	items := []commerce.WishlistItem{}
	for rows.Next() {
		var item commerce.WishlistItem
		p := &commerce.Product{}
		if err := rows.Scan(&item.ProductID, &item.AddedAt, &p.Name, &p.PriceCents, &p.ImageURL); err != nil {
			return nil, fmt.Errorf("scanning wishlist row: %w", err)
		}
		p.ID = item.ProductID
		item.Product = p
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating wishlist rows: %w", err)
	}
	return items, nil
}

// ProductExists checks whether the product is in the catalog.
func (r *wishlistRepository) ProductExists(ctx context.Context, productID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM products WHERE id = ?)`, productID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking product exists: %w", err)
	}
	return exists, nil
}

// Add inserts a wishlist entry. The unique key on (user_id, product_id)
// turns a repeat add into a no-op.
func (r *wishlistRepository) Add(ctx context.Context, id, userID, productID string, addedAt time.Time) (bool, error) {
	query := `INSERT INTO wishlist_items (id, user_id, product_id, created_at) VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, id, userID, productID, addedAt); err != nil {
		if database.IsDuplicateKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("inserting wishlist item: %w", err)
	}
	return true, nil
}

// Remove deletes the entry if present.
func (r *wishlistRepository) Remove(ctx context.Context, userID, productID string) error {
	query := `DELETE FROM wishlist_items WHERE user_id = ? AND product_id = ?`
	if _, err := r.db.ExecContext(ctx, query, userID, productID); err != nil {
		return fmt.Errorf("removing wishlist item: %w", err)
	}
	return nil
}

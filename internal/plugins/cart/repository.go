package cart

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/keyxmakerx/storefront/internal/commerce"
	"github.com/keyxmakerx/storefront/internal/database"
)

// CartRepository defines the data access contract for carts.
type CartRepository interface {
	ListCart(ctx context.Context, userID string) ([]commerce.CartItem, error)
	ProductExists(ctx context.Context, productID string) (bool, error)
	// Add inserts an entry and reports false if the product was already
	// in the cart.
	Add(ctx context.Context, id, userID, productID string, quantity int, addedAt time.Time) (bool, error)
	SetQuantity(ctx context.Context, userID, productID string, quantity int) error
	Remove(ctx context.Context, userID, productID string) error
	Empty(ctx context.Context, userID string) error
}

// cartRepository implements CartRepository with MariaDB queries.
type cartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new cart repository.
func NewCartRepository(db *sql.DB) CartRepository {
	return &cartRepository{db: db}
}

// ListCart returns the user's cart, oldest entry first, with products
// attached.
func (r *cartRepository) ListCart(ctx context.Context, userID string) ([]commerce.CartItem, error) {
	query := `SELECT c.product_id, c.quantity, c.created_at, p.name, p.price_cents, p.image_url
	          FROM cart_items c
	          JOIN products p ON p.id = c.product_id
	          WHERE c.user_id = ?
	          ORDER BY c.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing cart: %w", err)
	}
	defer rows.Close()

	items := []commerce.CartItem{}
	for rows.Next() {
		var item commerce.CartItem
		p := &commerce.Product{}
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.AddedAt, &p.Name, &p.PriceCents, &p.ImageURL); err != nil {
			return nil, fmt.Errorf("scanning cart row: %w", err)
		}
		p.ID = item.ProductID
		item.Product = p
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cart rows: %w", err)
	}
	return items, nil
}

// ProductExists checks whether the product is in the catalog.
func (r *cartRepository) ProductExists(ctx context.Context, productID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM products WHERE id = ?)`, productID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking product exists: %w", err)
	}
	return exists, nil
}

// Add inserts a cart entry. The unique key on (user_id, product_id) turns
// a repeat add into a no-op.
func (r *cartRepository) Add(ctx context.Context, id, userID, productID string, quantity int, addedAt time.Time) (bool, error) {
	query := `INSERT INTO cart_items (id, user_id, product_id, quantity, created_at) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, id, userID, productID, quantity, addedAt); err != nil {
		if database.IsDuplicateKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("inserting cart item: %w", err)
	}
	return true, nil
}

// SetQuantity replaces the quantity of an existing entry. A product not in
// the cart matches no row.
func (r *cartRepository) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	query := `UPDATE cart_items SET quantity = ? WHERE user_id = ? AND product_id = ?`
	if _, err := r.db.ExecContext(ctx, query, quantity, userID, productID); err != nil {
		return fmt.Errorf("updating cart quantity: %w", err)
	}
	return nil
}

// Remove deletes the entry if present.
func (r *cartRepository) Remove(ctx context.Context, userID, productID string) error {
	query := `DELETE FROM cart_items WHERE user_id = ? AND product_id = ?`
	if _, err := r.db.ExecContext(ctx, query, userID, productID); err != nil {
		return fmt.Errorf("removing cart item: %w", err)
	}
	return nil
}

// Empty deletes every entry in the user's cart.
func (r *cartRepository) Empty(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("emptying cart: %w", err)
	}
	return nil
}

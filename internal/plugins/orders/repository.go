// Package orders reads a customer's saved addresses and placed orders for
// the account view. Checkout and payment live elsewhere; nothing here
// writes.
package orders

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/keyxmakerx/storefront/internal/commerce"
)

// OrderRepository lists the order history records of one account.
type OrderRepository interface {
	ListAddresses(ctx context.Context, userID string) ([]commerce.Address, error)
	ListOrders(ctx context.Context, userID string) ([]commerce.Order, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// ListAddresses returns the user's addresses, oldest first.
func (r *orderRepository) ListAddresses(ctx context.Context, userID string) ([]commerce.Address, error) {
	query := `SELECT id, name, address_line, city, state, country, pin_code, mobile_no, created_at
	          FROM addresses WHERE user_id = ? ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing addresses: %w", err)
	}
	defer rows.Close()

	addresses := []commerce.Address{}
	for rows.Next() {
		var a commerce.Address
		if err := rows.Scan(&a.ID, &a.Name, &a.AddressLine, &a.City, &a.State,
			&a.Country, &a.PinCode, &a.MobileNo, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning address row: %w", err)
		}
		addresses = append(addresses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating address rows: %w", err)
	}
	return addresses, nil
}

// ListOrders returns the user's orders, newest first, each with its
// delivery address and lines populated.
func (r *orderRepository) ListOrders(ctx context.Context, userID string) ([]commerce.Order, error) {
	query := `SELECT o.id, o.payment_info_id, o.total_amount_cents, o.discount_amount_cents,
	                 o.order_amount_cents, o.created_at,
	                 a.id, a.name, a.address_line, a.city, a.state, a.country, a.pin_code, a.mobile_no, a.created_at
	          FROM orders o
	          JOIN addresses a ON a.id = o.address_id
	          WHERE o.user_id = ?
	          ORDER BY o.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	orders := []commerce.Order{}
	index := map[string]int{}
	for rows.Next() {
		o := commerce.Order{Address: &commerce.Address{}, Lines: []commerce.OrderLine{}}
		a := o.Address
		if err := rows.Scan(&o.ID, &o.PaymentInfoID, &o.TotalAmountCents, &o.DiscountAmountCents,
			&o.OrderAmountCents, &o.CreatedAt,
			&a.ID, &a.Name, &a.AddressLine, &a.City, &a.State, &a.Country, &a.PinCode, &a.MobileNo, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}
	rows.Close()

	if len(orders) == 0 {
		return orders, nil
	}
	if err := r.attachLines(ctx, userID, orders, index); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachLines loads every order line of the user in one query and files
// each under its order.
func (r *orderRepository) attachLines(ctx context.Context, userID string, orders []commerce.Order, index map[string]int) error {
	query := `SELECT oi.order_id, oi.product_id, oi.quantity, p.name, p.price_cents, p.image_url
	          FROM order_items oi
	          JOIN orders o ON o.id = oi.order_id
	          JOIN products p ON p.id = oi.product_id
	          WHERE o.user_id = ?`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("listing order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		line := commerce.OrderLine{Product: &commerce.Product{}}
		p := line.Product
		if err := rows.Scan(&orderID, &line.ProductID, &line.Quantity, &p.Name, &p.PriceCents, &p.ImageURL); err != nil {
			return fmt.Errorf("scanning order line: %w", err)
		}
		p.ID = line.ProductID

		i, ok := index[orderID]
		if !ok {
			continue
		}
		orders[i].Lines = append(orders[i].Lines, line)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating order lines: %w", err)
	}
	return nil
}

// Package commerce holds the catalog and order records an account refers
// to. The records are owned by their own tables; accounts only hold
// references and receive populated copies when a view is built.
package commerce

import "time"

// Product is a catalog item as shown inside carts, wishlists and orders.
type Product struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	PriceCents int64   `json:"price_cents"`
	ImageURL   *string `json:"image_url,omitempty"`
}

// WishlistItem is one wishlist entry. Product is populated on read.
type WishlistItem struct {
	ProductID string    `json:"product_id"`
	Product   *Product  `json:"product,omitempty"`
	AddedAt   time.Time `json:"added_at"`
}

// CartItem is one cart entry. At most one entry exists per product.
type CartItem struct {
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Product   *Product  `json:"product,omitempty"`
	AddedAt   time.Time `json:"added_at"`
}

// Address is a delivery address owned by an account.
type Address struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	AddressLine string    `json:"address_line"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	Country     string    `json:"country"`
	PinCode     string    `json:"pin_code"`
	MobileNo    string    `json:"mobile_no"`
	CreatedAt   time.Time `json:"created_at"`
}

// OrderLine is a product and quantity inside an order.
type OrderLine struct {
	ProductID string   `json:"product_id"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product,omitempty"`
}

// Order is a placed order. Only the payment reference is stored; no
// gateway state lives here.
type Order struct {
	ID                  string      `json:"id"`
	PaymentInfoID       string      `json:"payment_info_id"`
	TotalAmountCents    int64       `json:"total_amount_cents"`
	DiscountAmountCents int64       `json:"discount_amount_cents"`
	OrderAmountCents    int64       `json:"order_amount_cents"`
	Address             *Address    `json:"address,omitempty"`
	Lines               []OrderLine `json:"products"`
	CreatedAt           time.Time   `json:"created_at"`
}

// Package cart holds a logged-in customer's shopping cart: one entry per
// product with a positive quantity.
package cart

// ItemRequest names a product and, where relevant, a quantity.
type ItemRequest struct {
	ProductID string `json:"productId" form:"productId"`
	Quantity  int    `json:"quantity" form:"quantity"`
}

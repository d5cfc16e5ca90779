// Package wishlist lets a logged-in customer keep a list of products for
// later. Each product appears at most once per account.
package wishlist

// ItemRequest names the product to add or remove.
type ItemRequest struct {
	ProductID string `json:"productId" form:"productId"`
}

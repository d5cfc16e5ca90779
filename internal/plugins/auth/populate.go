package auth

import (
	"context"
	"fmt"

	"github.com/keyxmakerx/storefront/internal/commerce"
)

// WishlistLoader lists a user's wishlist with products attached.
type WishlistLoader interface {
	ListWishlist(ctx context.Context, userID string) ([]commerce.WishlistItem, error)
}

// CartLoader lists a user's cart with products attached.
type CartLoader interface {
	ListCart(ctx context.Context, userID string) ([]commerce.CartItem, error)
}

// OrderLoader lists a user's saved addresses and placed orders.
type OrderLoader interface {
	ListAddresses(ctx context.Context, userID string) ([]commerce.Address, error)
	ListOrders(ctx context.Context, userID string) ([]commerce.Order, error)
}

// AccountPopulator resolves every reference a user holds into the full
// records, producing the view returned to the client.
type AccountPopulator interface {
	Populate(ctx context.Context, user *User) (*Account, error)
}

// Populator builds accounts from the wishlist, cart and order stores. Any
// loader may be nil, in which case that collection is returned empty.
type Populator struct {
	wishlist WishlistLoader
	cart     CartLoader
	orders   OrderLoader
}

// NewPopulator creates a populator over the given loaders.
func NewPopulator(wishlist WishlistLoader, cart CartLoader, orders OrderLoader) *Populator {
	return &Populator{wishlist: wishlist, cart: cart, orders: orders}
}

// Populate loads every association of user. Collections are never nil so
// they encode as [] rather than null.
func (p *Populator) Populate(ctx context.Context, user *User) (*Account, error) {
	acct := emptyAccount(user)
	if p == nil {
		return acct, nil
	}

	var err error
	if p.wishlist != nil {
		if acct.Wishlist, err = p.wishlist.ListWishlist(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("loading wishlist: %w", err)
		}
	}
	if p.cart != nil {
		if acct.Cart, err = p.cart.ListCart(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("loading cart: %w", err)
		}
	}
	if p.orders != nil {
		if acct.Addresses, err = p.orders.ListAddresses(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("loading addresses: %w", err)
		}
		if acct.Orders, err = p.orders.ListOrders(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("loading orders: %w", err)
		}
	}

	fillEmpty(acct)
	return acct, nil
}

func emptyAccount(user *User) *Account {
	acct := &Account{User: user}
	fillEmpty(acct)
	return acct
}

func fillEmpty(acct *Account) {
	if acct.Wishlist == nil {
		acct.Wishlist = []commerce.WishlistItem{}
	}
	if acct.Cart == nil {
		acct.Cart = []commerce.CartItem{}
	}
	if acct.Addresses == nil {
		acct.Addresses = []commerce.Address{}
	}
	if acct.Orders == nil {
		acct.Orders = []commerce.Order{}
	}
}

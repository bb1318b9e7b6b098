package cart

import (
	"context"
)

// CartService is the contract the checkout-flow consumes:
// a read-only view on the cart plus the clear-operation that is
// invoked after an order has been placed.
//
//go:generate mockgen -source=api.go -package cart -destination cart_mock.go CartService
type CartService interface {
	Get(c context.Context, shopperUID string) (Cart, error)
	Clear(c context.Context, shopperUID string) error
}

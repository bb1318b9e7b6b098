package order

import (
	"context"
)

// OrderService is the contract the checkout-flow consumes to turn a
// reviewed cart into a placed order. The caller fills in the what
// (items, address, payment-method); uid, status and timestamps are
// assigned here.
//
//go:generate mockgen -source=api.go -package order -destination order_mock.go OrderService
type OrderService interface {
	Place(c context.Context, order Order) (Order, error)
}

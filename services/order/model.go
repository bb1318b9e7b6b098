package order

import (
	"time"

	"github.com/lok57/storefront/services/cart"
	"github.com/lok57/storefront/services/shopper"
)

type OrderStatus string

const (
	OrderStatusPlaced OrderStatus = "placed"
)

type Order struct {
	UID             string
	ShopperUID      string
	CreatedAt       time.Time
	Status          OrderStatus
	DeliveryAddress shopper.Address
	PaymentMethod   shopper.PaymentMethod
	Items           []cart.LineItem
	TotalInCents    int64
	Currency        string
}

func (o Order) Timestamp() string {
	return o.CreatedAt.Format("2006-01-02 15:04:05")
}

package checkout

import (
	"github.com/lok57/storefront/lib/mylog"
	"github.com/lok57/storefront/lib/mypublisher"
	"github.com/lok57/storefront/lib/mystore"
	"github.com/lok57/storefront/lib/mytime"
	"github.com/lok57/storefront/services/cart"
	"github.com/lok57/storefront/services/order"
	"github.com/lok57/storefront/services/shopper"
)

type service struct {
	checkoutStore mystore.Store[CheckoutSession]
	shoppers      shopper.ShopperService
	carts         cart.CartService
	orders        order.OrderService
	publisher     mypublisher.Publisher
	nower         mytime.Nower
	logger        mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(store mystore.Store[CheckoutSession], shoppers shopper.ShopperService, carts cart.CartService, orders order.OrderService, nower mytime.Nower, logger mylog.Logger, pub mypublisher.Publisher) *service {
	return &service{
		checkoutStore: store,
		shoppers:      shoppers,
		carts:         carts,
		orders:        orders,
		publisher:     pub,
		nower:         nower,
		logger:        logger,
	}
}

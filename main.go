package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"github.com/lok57/storefront/lib/mypublisher"
	"github.com/lok57/storefront/lib/mypubsub"
	"github.com/lok57/storefront/lib/myqueue"
	"github.com/lok57/storefront/lib/mysession"
	"github.com/lok57/storefront/lib/mystore"
	"github.com/lok57/storefront/lib/mytime"
	"github.com/lok57/storefront/lib/myuuid"
	"github.com/lok57/storefront/services/cart"
	"github.com/lok57/storefront/services/checkout"
	"github.com/lok57/storefront/services/order"
	"github.com/lok57/storefront/services/shopper"
)

const orderSubmitDelay = 2 * time.Second

func main() {
	c := context.Background()

	router := mux.NewRouter()
	nower := mytime.RealNower{}
	uuider := myuuid.RealUUIDer{}
	sessionMgr := mysession.New()

	subscriber, subscriberCleanup, err := mypubsub.New(c)
	if err != nil {
		log.Fatalf("Error creating pubsub: %s", err)
	}
	defer subscriberCleanup()

	queue, queueCleanup, err := myqueue.New(c)
	if err != nil {
		log.Fatalf("Error creating queue: %s", err)
	}
	defer queueCleanup()

	publisher, publisherCleanup, err := mypublisher.New(c, subscriber, queue, nower)
	if err != nil {
		log.Fatalf("Error creating publisher: %s", err)
	}
	defer publisherCleanup()
	publisher.RegisterEndpoints(c, router)

	shopperService, shopperCleanup := createShopperService(c, nower, uuider, subscriber, sessionMgr, router)
	defer shopperCleanup()

	cartService, cartCleanup := createCartService(c, nower, uuider, publisher, shopperService, sessionMgr, router)
	defer cartCleanup()

	orderService, orderCleanup := createOrderService(c, nower, uuider, publisher, shopperService, sessionMgr, router)
	defer orderCleanup()

	checkoutCleanup := createCheckoutService(c, nower, publisher, shopperService, cartService, orderService, sessionMgr, router)
	defer checkoutCleanup()

	startWebServerBlocking(router)
}

func createShopperService(c context.Context, nower mytime.Nower, uuider myuuid.UUIDer, subscriber mypubsub.PubSub, sessionMgr *mysession.Manager, router *mux.Router) (shopper.ShopperService, func()) {
	store, cleanup, err := mystore.New[shopper.Shopper](c)
	if err != nil {
		log.Fatalf("Error creating shopper-store: %s", err)
	}

	service := shopper.NewService(store, nower, uuider, subscriber, sessionMgr)
	err = service.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering shopper-endpoints: %s", err)
	}

	return service, cleanup
}

func createCartService(c context.Context, nower mytime.Nower, uuider myuuid.UUIDer, publisher mypublisher.Publisher, shoppers shopper.ShopperService, sessionMgr *mysession.Manager, router *mux.Router) (cart.CartService, func()) {
	store, cleanup, err := mystore.New[cart.Cart](c)
	if err != nil {
		log.Fatalf("Error creating cart-store: %s", err)
	}

	service := cart.NewService(store, nower, uuider, publisher, shoppers, sessionMgr)
	service.RegisterEndpoints(c, router)

	return service, cleanup
}

func createOrderService(c context.Context, nower mytime.Nower, uuider myuuid.UUIDer, publisher mypublisher.Publisher, shoppers shopper.ShopperService, sessionMgr *mysession.Manager, router *mux.Router) (order.OrderService, func()) {
	store, cleanup, err := mystore.New[order.Order](c)
	if err != nil {
		log.Fatalf("Error creating order-store: %s", err)
	}

	service := order.NewService(store, order.NewSubmitter(orderSubmitDelay), nower, uuider, publisher, shoppers, sessionMgr)
	service.RegisterEndpoints(c, router)

	return service, cleanup
}

func createCheckoutService(c context.Context, nower mytime.Nower, publisher mypublisher.Publisher, shoppers shopper.ShopperService, carts cart.CartService, orders order.OrderService, sessionMgr *mysession.Manager, router *mux.Router) func() {
	store, cleanup, err := mystore.New[checkout.CheckoutSession](c)
	if err != nil {
		log.Fatalf("Error creating checkout-store: %s", err)
	}

	service := checkout.NewService(store, shoppers, carts, orders, nower, publisher, sessionMgr)
	service.RegisterEndpoints(c, router)

	return cleanup
}

func startWebServerBlocking(router *mux.Router) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting webserver on port %s (try http://localhost:%s)", port, port)
	err := http.ListenAndServe(fmt.Sprintf(":%s", port), router)
	if err != nil {
		log.Fatalf("Error starting webserver on port %s: %s", port, err)
	}
}

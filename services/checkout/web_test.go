package checkout

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/lok57/storefront/lib/myerrors"
	"github.com/lok57/storefront/lib/mypublisher"
	"github.com/lok57/storefront/lib/mysession"
	"github.com/lok57/storefront/lib/mystore"
	"github.com/lok57/storefront/lib/mytime"
	"github.com/lok57/storefront/services/cart"
	"github.com/lok57/storefront/services/checkout/checkoutevents"
	"github.com/lok57/storefront/services/order"
	"github.com/lok57/storefront/services/shopper"
)

var (
	testShopper = shopper.Shopper{
		UID:          "shopper-123",
		FirstName:    "Sara",
		LastName:     "Jones",
		EmailAddress: "sara@example.com",
		Locale:       "en",
		Addresses: []shopper.Address{
			{UID: "addr-home", Label: "Home", Street: "Maple Street", HouseNumber: "12", PostalCode: "90210", City: "Beverly Hills", Country: "US"},
			{UID: "addr-office", Label: "Office", Street: "5th Avenue", HouseNumber: "725", PostalCode: "10022", City: "New York", Country: "US"},
		},
		PaymentMethods: []shopper.PaymentMethod{
			{UID: "pm-card", Kind: "card", DisplayName: "VISA ending in 4242"},
			{UID: "pm-paypal", Kind: "paypal", DisplayName: "PayPal"},
		},
	}

	testCart = cart.Cart{
		ShopperUID: "shopper-123",
		Currency:   "USD",
		Items: []cart.LineItem{
			{UID: "item-1", ProductUID: "product_classic_tee", Name: "Classic tee", PriceInCents: 2000, Quantity: 2, Size: "M"},
		},
	}
)

func TestCheckoutService(t *testing.T) {

	t.Run("Checkout requires login", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)

		// when
		request := httptest.NewRequest(http.MethodGet, "/checkout", nil)
		response := httptest.NewRecorder()
		f.router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 303, response.Code)
		assert.Equal(t, "/login", response.Header().Get("Location"))
	})

	t.Run("Checkout with empty cart redirects to cart", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)

		// given
		f.shoppers.EXPECT().Get(gomock.Any(), "shopper-123").Return(testShopper, true, nil).AnyTimes()
		f.carts.EXPECT().Get(gomock.Any(), "shopper-123").Return(cart.Cart{ShopperUID: "shopper-123", Currency: "USD"}, nil).AnyTimes()

		// when
		request := f.loggedInRequest(t, http.MethodGet, "/checkout", nil)
		response := httptest.NewRecorder()
		f.router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 303, response.Code)
		assert.Equal(t, "/cart", response.Header().Get("Location"))
	})

	t.Run("Checkout starts at the address step", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)

		// given
		f.shoppers.EXPECT().Get(gomock.Any(), "shopper-123").Return(testShopper, true, nil).AnyTimes()
		f.carts.EXPECT().Get(gomock.Any(), "shopper-123").Return(testCart, nil).AnyTimes()
		f.nower.EXPECT().Now().Return(mytime.ExampleTime)
		f.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, checkoutevents.CheckoutStarted{ShopperUID: "shopper-123"}).Return(nil)

		// when
		request := f.loggedInRequest(t, http.MethodGet, "/checkout", nil)
		response := httptest.NewRecorder()
		f.router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		got := response.Body.String()
		assert.Contains(t, got, "Where should we deliver?")
		assert.Contains(t, got, "addr-home")
		assert.Contains(t, got, "Maple Street 12")

		session, exists, _ := f.storer.Get(f.ctx, "shopper-123")
		assert.True(t, exists)
		assert.Equal(t, StepAddress, session.Step)
	})

	t.Run("Address step requires a selection", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)

		// given
		f.shoppers.EXPECT().Get(gomock.Any(), "shopper-123").Return(testShopper, true, nil).AnyTimes()
		f.carts.EXPECT().Get(gomock.Any(), "shopper-123").Return(testCart, nil).AnyTimes()
		f.storer.Put(f.ctx, "shopper-123", CheckoutSession{ShopperUID: "shopper-123", Step: StepAddress, CreatedAt: mytime.ExampleTime})

		// when
		request := f.loggedInRequest(t, http.MethodPost, "/checkout/address", strings.NewReader(""))
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		response := httptest.NewRecorder()
		f.router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 303, response.Code)
		assert.Equal(t, "/checkout", response.Header().Get("Location"))
		assert.Equal(t, []string{"Select a delivery address to continue"}, f.flashesFrom(t, response))

		session, _, _ := f.storer.Get(f.ctx, "shopper-123")
		assert.Equal(t, StepAddress, session.Step)
	})

	t.Run("Selecting an address moves to the payment step", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)

		// given
		f.shoppers.EXPECT().Get(gomock.Any(), "shopper-123").Return(testShopper, true, nil).AnyTimes()
		f.carts.EXPECT().Get(gomock.Any(), "shopper-123").Return(testCart, nil).AnyTimes()
		f.nower.EXPECT().Now().Return(mytime.ExampleTime)
		f.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, checkoutevents.CheckoutStepCompleted{ShopperUID: "shopper-123", Step: "address"}).Return(nil)
		f.storer.Put(f.ctx, "shopper-123", CheckoutSession{ShopperUID: "shopper-123", Step: StepAddress, CreatedAt: mytime.ExampleTime})

		// when
		form := url.Values{"addressUid": {"addr-home"}}
		request := f.loggedInRequest(t, http.MethodPost, "/checkout/address", strings.NewReader(form.Encode()))
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		response := httptest.NewRecorder()
		f.router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 303, response.Code)
		assert.Equal(t, "/checkout", response.Header().Get("Location"))

		session, exists, _ := f.storer.Get(f.ctx, "shopper-123")
		assert.True(t, exists)
		assert.Equal(t, StepPayment, session.Step)
		assert.Equal(t, "addr-home", session.SelectedAddressUID)
	})

	t.Run("Payment step requires a selection", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)

		// given
		f.shoppers.EXPECT().Get(gomock.Any(), "shopper-123").Return(testShopper, true, nil).AnyTimes()
		f.carts.EXPECT().Get(gomock.Any(), "shopper-123").Return(testCart, nil).AnyTimes()
		f.storer.Put(f.ctx, "shopper-123", CheckoutSession{ShopperUID: "shopper-123", Step: StepPayment, SelectedAddressUID: "addr-home", CreatedAt: mytime.ExampleTime})

		// when
		request := f.loggedInRequest(t, http.MethodPost, "/checkout/payment", strings.NewReader(""))
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		response := httptest.NewRecorder()
		f.router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 303, response.Code)
		assert.Equal(t, "/checkout", response.Header().Get("Location"))
		assert.Equal(t, []string{"Select a payment method to continue"}, f.flashesFrom(t, response))

		session, _, _ := f.storer.Get(f.ctx, "shopper-123")
		assert.Equal(t, StepPayment, session.Step)
	})

	t.Run("Selecting a payment method moves to the review step", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)

		// given
		f.shoppers.EXPECT().Get(gomock.Any(), "shopper-123").Return(testShopper, true, nil).AnyTimes()
		f.carts.EXPECT().Get(gomock.Any(), "shopper-123").Return(testCart, nil).AnyTimes()
		f.nower.EXPECT().Now().Return(mytime.ExampleTime)
		f.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, checkoutevents.CheckoutStepCompleted{ShopperUID: "shopper-123", Step: "payment"}).Return(nil)
		f.storer.Put(f.ctx, "shopper-123", CheckoutSession{ShopperUID: "shopper-123", Step: StepPayment, SelectedAddressUID: "addr-home", CreatedAt: mytime.ExampleTime})

		// when
		form := url.Values{"paymentMethodUid": {"pm-card"}}
		request := f.loggedInRequest(t, http.MethodPost, "/checkout/payment", strings.NewReader(form.Encode()))
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		response := httptest.NewRecorder()
		f.router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 303, response.Code)

		session, _, _ := f.storer.Get(f.ctx, "shopper-123")
		assert.Equal(t, StepReview, session.Step)
		assert.Equal(t, "pm-card", session.SelectedPaymentMethodUID)
	})

	t.Run("Review shows the order with formatted totals", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)

		// given
		f.shoppers.EXPECT().Get(gomock.Any(), "shopper-123").Return(testShopper, true, nil).AnyTimes()
		f.carts.EXPECT().Get(gomock.Any(), "shopper-123").Return(testCart, nil).AnyTimes()
		f.storer.Put(f.ctx, "shopper-123", CheckoutSession{
			ShopperUID:               "shopper-123",
			Step:                     StepReview,
			SelectedAddressUID:       "addr-home",
			SelectedPaymentMethodUID: "pm-card",
			CreatedAt:                mytime.ExampleTime,
		})

		// when
		request := f.loggedInRequest(t, http.MethodGet, "/checkout", nil)
		response := httptest.NewRecorder()
		f.router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		got := response.Body.String()
		assert.Contains(t, got, "Review your order")
		assert.Contains(t, got, "Classic tee")
		assert.Contains(t, got, "$40.00")
		assert.Contains(t, got, "Maple Street 12")
		assert.Contains(t, got, "VISA ending in 4242")
	})

	t.Run("Placing the order clears the cart and tears down the checkout", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)

		// given
		f.shoppers.EXPECT().Get(gomock.Any(), "shopper-123").Return(testShopper, true, nil).AnyTimes()
		f.carts.EXPECT().Get(gomock.Any(), "shopper-123").Return(testCart, nil).AnyTimes()
		f.carts.EXPECT().Clear(gomock.Any(), "shopper-123").Return(nil)
		f.orders.EXPECT().Place(gomock.Any(), order.Order{
			ShopperUID:      "shopper-123",
			DeliveryAddress: testShopper.Addresses[0],
			PaymentMethod:   testShopper.PaymentMethods[0],
			Items:           testCart.Items,
			TotalInCents:    4000,
			Currency:        "USD",
		}).Return(order.Order{UID: "order-123", ShopperUID: "shopper-123", Status: order.OrderStatusPlaced}, nil)
		f.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, checkoutevents.CheckoutCompleted{ShopperUID: "shopper-123", OrderUID: "order-123", Success: true}).Return(nil)
		f.storer.Put(f.ctx, "shopper-123", CheckoutSession{
			ShopperUID:               "shopper-123",
			Step:                     StepReview,
			SelectedAddressUID:       "addr-home",
			SelectedPaymentMethodUID: "pm-card",
			CreatedAt:                mytime.ExampleTime,
		})

		// when
		request := f.loggedInRequest(t, http.MethodPost, "/checkout/review", nil)
		response := httptest.NewRecorder()
		f.router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 303, response.Code)
		assert.Equal(t, "/checkout/success?order=order-123", response.Header().Get("Location"))

		_, exists, _ := f.storer.Get(f.ctx, "shopper-123")
		assert.False(t, exists)
	})

	t.Run("Order placement failure keeps shopper on the review step", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)

		// given
		f.shoppers.EXPECT().Get(gomock.Any(), "shopper-123").Return(testShopper, true, nil).AnyTimes()
		f.carts.EXPECT().Get(gomock.Any(), "shopper-123").Return(testCart, nil).AnyTimes()
		f.orders.EXPECT().Place(gomock.Any(), gomock.Any()).Return(order.Order{}, myerrors.NewUnavailableError(fmt.Errorf("order backend timed out")))
		f.storer.Put(f.ctx, "shopper-123", CheckoutSession{
			ShopperUID:               "shopper-123",
			Step:                     StepReview,
			SelectedAddressUID:       "addr-home",
			SelectedPaymentMethodUID: "pm-card",
			CreatedAt:                mytime.ExampleTime,
		})

		// when
		request := f.loggedInRequest(t, http.MethodPost, "/checkout/review", nil)
		response := httptest.NewRecorder()
		f.router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 303, response.Code)
		assert.Equal(t, "/checkout", response.Header().Get("Location"))
		assert.Equal(t, []string{"Could not place your order, please try again"}, f.flashesFrom(t, response))

		session, exists, _ := f.storer.Get(f.ctx, "shopper-123")
		assert.True(t, exists)
		assert.Equal(t, StepReview, session.Step)
	})

	t.Run("Completing a step twice is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)

		// given
		f.shoppers.EXPECT().Get(gomock.Any(), "shopper-123").Return(testShopper, true, nil).AnyTimes()
		f.carts.EXPECT().Get(gomock.Any(), "shopper-123").Return(testCart, nil).AnyTimes()
		f.nower.EXPECT().Now().Return(mytime.ExampleTime)
		f.storer.Put(f.ctx, "shopper-123", CheckoutSession{ShopperUID: "shopper-123", Step: StepReview, SelectedAddressUID: "addr-home", SelectedPaymentMethodUID: "pm-card", CreatedAt: mytime.ExampleTime})

		// when
		form := url.Values{"addressUid": {"addr-office"}}
		request := f.loggedInRequest(t, http.MethodPost, "/checkout/address", strings.NewReader(form.Encode()))
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		response := httptest.NewRecorder()
		f.router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 303, response.Code)
		assert.Equal(t, "/checkout", response.Header().Get("Location"))

		// the review-step selection is untouched
		session, _, _ := f.storer.Get(f.ctx, "shopper-123")
		assert.Equal(t, StepReview, session.Step)
		assert.Equal(t, "addr-home", session.SelectedAddressUID)
	})

	t.Run("Success page shows the order number", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)

		// given: the cart is already empty, the success-page must still render
		f.shoppers.EXPECT().Get(gomock.Any(), "shopper-123").Return(testShopper, true, nil).AnyTimes()

		// when
		request := f.loggedInRequest(t, http.MethodGet, "/checkout/success?order=order-123", nil)
		response := httptest.NewRecorder()
		f.router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		got := response.Body.String()
		assert.Contains(t, got, "Thank you, Sara!")
		assert.Contains(t, got, "order-123")
		assert.Contains(t, got, "sara@example.com")
	})
}

type fixture struct {
	ctx        context.Context
	router     *mux.Router
	storer     mystore.Store[CheckoutSession]
	shoppers   *shopper.MockShopperService
	carts      *cart.MockCartService
	orders     *order.MockOrderService
	nower      *mytime.MockNower
	publisher  *mypublisher.MockPublisher
	sessionMgr *mysession.Manager
}

func setup(t *testing.T, ctrl *gomock.Controller) *fixture {
	c := context.TODO()
	storer, _, _ := mystore.New[CheckoutSession](c)
	shoppers := shopper.NewMockShopperService(ctrl)
	carts := cart.NewMockCartService(ctrl)
	orders := order.NewMockOrderService(ctrl)
	nower := mytime.NewMockNower(ctrl)
	publisher := mypublisher.NewMockPublisher(ctrl)
	sessionMgr := mysession.New()

	sut := NewService(storer, shoppers, carts, orders, nower, publisher, sessionMgr)
	router := mux.NewRouter()
	sut.RegisterEndpoints(c, router)

	return &fixture{
		ctx:        c,
		router:     router,
		storer:     storer,
		shoppers:   shoppers,
		carts:      carts,
		orders:     orders,
		nower:      nower,
		publisher:  publisher,
		sessionMgr: sessionMgr,
	}
}

// loggedInRequest builds a request carrying the session-cookie of the test-shopper
func (f *fixture) loggedInRequest(t *testing.T, method string, target string, body io.Reader) *http.Request {
	login := httptest.NewRequest(http.MethodPost, "/login", nil)
	loginResponse := httptest.NewRecorder()
	err := f.sessionMgr.Login(loginResponse, login, "shopper-123")
	assert.NoError(t, err)

	request := httptest.NewRequest(method, target, body)
	for _, cookie := range loginResponse.Result().Cookies() {
		request.AddCookie(cookie)
	}

	return request
}

// flashesFrom reads back the flash-messages that a redirect-response left in the session-cookie
func (f *fixture) flashesFrom(t *testing.T, response *httptest.ResponseRecorder) []string {
	next := httptest.NewRequest(http.MethodGet, "/checkout", nil)
	for _, cookie := range response.Result().Cookies() {
		next.AddCookie(cookie)
	}

	return f.sessionMgr.ConsumeFlashes(httptest.NewRecorder(), next)
}

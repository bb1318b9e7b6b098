package cart

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/lok57/storefront/lib/mypublisher"
	"github.com/lok57/storefront/lib/mysession"
	"github.com/lok57/storefront/lib/mystore"
	"github.com/lok57/storefront/lib/mytime"
	"github.com/lok57/storefront/lib/myuuid"
	"github.com/lok57/storefront/services/cart/cartevents"
	"github.com/lok57/storefront/services/shopper"
)

var testShopper = shopper.Shopper{
	UID:       "shopper-123",
	FirstName: "Sara",
	LastName:  "Jones",
	Locale:    "en",
}

// filledCart builds a fresh cart per test: the in-memory store keeps values
// as-is, so sharing one instance would leak mutations between tests.
func filledCart() Cart {
	return Cart{
		ShopperUID: "shopper-123",
		CreatedAt:  mytime.ExampleTime,
		Currency:   "USD",
		Items: []LineItem{
			{UID: "item-1", ProductUID: "product_classic_tee", Name: "Classic tee", PriceInCents: 2000, Quantity: 2, Size: "M"},
		},
	}
}

func TestCartService(t *testing.T) {

	t.Run("Cart requires login", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)

		// when
		request := httptest.NewRequest(http.MethodGet, "/cart", nil)
		response := httptest.NewRecorder()
		f.router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 303, response.Code)
		assert.Equal(t, "/login", response.Header().Get("Location"))
	})

	t.Run("Empty cart shows the catalog", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)

		// given
		f.shoppers.EXPECT().Get(gomock.Any(), "shopper-123").Return(testShopper, true, nil).AnyTimes()

		// when
		request := f.loggedInRequest(t, http.MethodGet, "/cart", nil)
		response := httptest.NewRecorder()
		f.router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		got := response.Body.String()
		assert.Contains(t, got, "Your cart is empty.")
		assert.Contains(t, got, "Classic tee")
		assert.Contains(t, got, "$20.00")
		assert.Contains(t, got, "Sneakers")
	})

	t.Run("Add product to cart", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)

		// given
		f.shoppers.EXPECT().Get(gomock.Any(), "shopper-123").Return(testShopper, true, nil).AnyTimes()
		f.nower.EXPECT().Now().Return(mytime.ExampleTime)
		f.uuider.EXPECT().Create().Return("item-1")

		// when
		form := url.Values{"productUid": {"product_classic_tee"}, "size": {"M"}}
		request := f.loggedInRequest(t, http.MethodPost, "/cart/item", strings.NewReader(form.Encode()))
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		response := httptest.NewRecorder()
		f.router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 303, response.Code)
		assert.Equal(t, "/cart", response.Header().Get("Location"))

		cart, exists, _ := f.storer.Get(f.ctx, "shopper-123")
		assert.True(t, exists)
		assert.Equal(t, "USD", cart.Currency)
		assert.Len(t, cart.Items, 1)
		assert.Equal(t, "product_classic_tee", cart.Items[0].ProductUID)
		assert.Equal(t, 1, cart.Items[0].Quantity)
		assert.Equal(t, int64(2000), cart.Items[0].PriceInCents)
	})

	t.Run("Adding the same product and size again bumps the quantity", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)

		// given
		f.shoppers.EXPECT().Get(gomock.Any(), "shopper-123").Return(testShopper, true, nil).AnyTimes()
		f.nower.EXPECT().Now().Return(mytime.ExampleTime)
		f.storer.Put(f.ctx, "shopper-123", filledCart())

		// when
		form := url.Values{"productUid": {"product_classic_tee"}, "size": {"M"}}
		request := f.loggedInRequest(t, http.MethodPost, "/cart/item", strings.NewReader(form.Encode()))
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		response := httptest.NewRecorder()
		f.router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 303, response.Code)

		cart, _, _ := f.storer.Get(f.ctx, "shopper-123")
		assert.Len(t, cart.Items, 1)
		assert.Equal(t, 3, cart.Items[0].Quantity)
	})

	t.Run("Add unknown product", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)

		// given
		f.shoppers.EXPECT().Get(gomock.Any(), "shopper-123").Return(testShopper, true, nil).AnyTimes()

		// when
		form := url.Values{"productUid": {"product_unknown"}}
		request := f.loggedInRequest(t, http.MethodPost, "/cart/item", strings.NewReader(form.Encode()))
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		response := httptest.NewRecorder()
		f.router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 404, response.Code)
	})

	t.Run("Update quantity of an item", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)

		// given
		f.shoppers.EXPECT().Get(gomock.Any(), "shopper-123").Return(testShopper, true, nil).AnyTimes()
		f.nower.EXPECT().Now().Return(mytime.ExampleTime)
		f.storer.Put(f.ctx, "shopper-123", filledCart())

		// when
		form := url.Values{"quantity": {"5"}}
		request := f.loggedInRequest(t, http.MethodPost, "/cart/item/item-1", strings.NewReader(form.Encode()))
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		response := httptest.NewRecorder()
		f.router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 303, response.Code)

		cart, _, _ := f.storer.Get(f.ctx, "shopper-123")
		assert.Equal(t, 5, cart.Items[0].Quantity)
	})

	t.Run("Setting quantity to zero removes the item", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)

		// given
		f.shoppers.EXPECT().Get(gomock.Any(), "shopper-123").Return(testShopper, true, nil).AnyTimes()
		f.nower.EXPECT().Now().Return(mytime.ExampleTime)
		f.storer.Put(f.ctx, "shopper-123", filledCart())

		// when
		form := url.Values{"quantity": {"0"}}
		request := f.loggedInRequest(t, http.MethodPost, "/cart/item/item-1", strings.NewReader(form.Encode()))
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		response := httptest.NewRecorder()
		f.router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 303, response.Code)

		cart, _, _ := f.storer.Get(f.ctx, "shopper-123")
		assert.Empty(t, cart.Items)
	})

	t.Run("Remove an item", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)

		// given
		f.shoppers.EXPECT().Get(gomock.Any(), "shopper-123").Return(testShopper, true, nil).AnyTimes()
		f.nower.EXPECT().Now().Return(mytime.ExampleTime)
		f.storer.Put(f.ctx, "shopper-123", filledCart())

		// when
		request := f.loggedInRequest(t, http.MethodPost, "/cart/item/item-1/remove", nil)
		response := httptest.NewRecorder()
		f.router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 303, response.Code)

		cart, _, _ := f.storer.Get(f.ctx, "shopper-123")
		assert.Empty(t, cart.Items)
	})

	t.Run("Clearing the cart removes it and announces the fact", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)

		// given
		f.shoppers.EXPECT().Get(gomock.Any(), "shopper-123").Return(testShopper, true, nil).AnyTimes()
		f.publisher.EXPECT().Publish(gomock.Any(), cartevents.TopicName, cartevents.CartCleared{ShopperUID: "shopper-123", ItemCount: 2}).Return(nil)
		f.storer.Put(f.ctx, "shopper-123", filledCart())

		// when
		request := f.loggedInRequest(t, http.MethodPost, "/cart/clear", nil)
		response := httptest.NewRecorder()
		f.router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 303, response.Code)

		_, exists, _ := f.storer.Get(f.ctx, "shopper-123")
		assert.False(t, exists)
	})

	t.Run("Cart shows formatted line totals", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)

		// given
		f.shoppers.EXPECT().Get(gomock.Any(), "shopper-123").Return(testShopper, true, nil).AnyTimes()
		f.storer.Put(f.ctx, "shopper-123", filledCart())

		// when
		request := f.loggedInRequest(t, http.MethodGet, "/cart", nil)
		response := httptest.NewRecorder()
		f.router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		got := response.Body.String()
		assert.Contains(t, got, "$20.00")
		assert.Contains(t, got, "$40.00")
	})
}

type fixture struct {
	ctx        context.Context
	router     *mux.Router
	storer     mystore.Store[Cart]
	shoppers   *shopper.MockShopperService
	nower      *mytime.MockNower
	uuider     *myuuid.MockUUIDer
	publisher  *mypublisher.MockPublisher
	sessionMgr *mysession.Manager
}

func setup(t *testing.T, ctrl *gomock.Controller) *fixture {
	c := context.TODO()
	storer, _, _ := mystore.New[Cart](c)
	shoppers := shopper.NewMockShopperService(ctrl)
	nower := mytime.NewMockNower(ctrl)
	uuider := myuuid.NewMockUUIDer(ctrl)
	publisher := mypublisher.NewMockPublisher(ctrl)
	sessionMgr := mysession.New()

	sut := NewService(storer, nower, uuider, publisher, shoppers, sessionMgr)
	router := mux.NewRouter()
	sut.RegisterEndpoints(c, router)

	return &fixture{
		ctx:        c,
		router:     router,
		storer:     storer,
		shoppers:   shoppers,
		nower:      nower,
		uuider:     uuider,
		publisher:  publisher,
		sessionMgr: sessionMgr,
	}
}

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

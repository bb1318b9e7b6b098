package cart

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	formcodec "github.com/go-playground/form/v4"
	"github.com/gorilla/mux"

	"github.com/lok57/storefront/lib/mycontext"
	"github.com/lok57/storefront/lib/myerrors"
	"github.com/lok57/storefront/lib/myhttp"
	"github.com/lok57/storefront/lib/mylog"
	"github.com/lok57/storefront/lib/mymoney"
	"github.com/lok57/storefront/lib/mypublisher"
	"github.com/lok57/storefront/lib/mysession"
	"github.com/lok57/storefront/lib/mystore"
	"github.com/lok57/storefront/lib/mytime"
	"github.com/lok57/storefront/lib/myuuid"
	"github.com/lok57/storefront/services/shopper"
)

//go:embed templates
var templateFolder embed.FS

var cartPageTemplate *template.Template

func init() {
	cartPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/cart.html"))
}

type webService struct {
	service  *service
	shoppers shopper.ShopperService
	session  *mysession.Manager
	logger   mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(store mystore.Store[Cart], nower mytime.Nower, uuider myuuid.UUIDer, publisher mypublisher.Publisher, shoppers shopper.ShopperService, sessionMgr *mysession.Manager) *webService {
	logger := mylog.New("cart")

	return &webService{
		service:  newService(store, nower, uuider, logger, publisher),
		shoppers: shoppers,
		session:  sessionMgr,
		logger:   logger,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {

	// Endpoints that compose the userinterface
	router.HandleFunc("/", s.cartPage()).Methods("GET")
	router.HandleFunc("/cart", s.cartPage()).Methods("GET")
	router.HandleFunc("/cart/item", s.addItemPage()).Methods("POST")
	router.HandleFunc("/cart/item/{itemUID}", s.updateQuantityPage()).Methods("POST")
	router.HandleFunc("/cart/item/{itemUID}/remove", s.removeItemPage()).Methods("POST")
	router.HandleFunc("/cart/clear", s.clearCartPage()).Methods("POST")
}

// Get makes the webService usable as CartService by the checkout-flow
func (s *webService) Get(c context.Context, shopperUID string) (Cart, error) {
	return s.service.getCart(c, shopperUID)
}

// Clear makes the webService usable as CartService by the checkout-flow
func (s *webService) Clear(c context.Context, shopperUID string) error {
	return s.service.clearCart(c, shopperUID)
}

// currentShopper resolves the logged-in shopper or redirects to the login-page
func (s *webService) currentShopper(c context.Context, w http.ResponseWriter, r *http.Request) (shopper.Shopper, bool) {
	shopperUID := s.session.ShopperUID(r)
	if shopperUID == "" {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return shopper.Shopper{}, false
	}

	shpr, found, err := s.shoppers.Get(c, shopperUID)
	if err != nil || !found {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return shopper.Shopper{}, false
	}

	return shpr, true
}

type cartPageInfo struct {
	Shopper shopper.Shopper
	Lines   []cartLineInfo
	Total   string
	Empty   bool
	Catalog []catalogItemInfo
}

type cartLineInfo struct {
	Item      LineItem
	UnitPrice string
	LineTotal string
}

type catalogItemInfo struct {
	Product product
	Price   string
}

func composeCartPageInfo(shpr shopper.Shopper, cart Cart) cartPageInfo {
	formatter := mymoney.NewFormatter(shpr.Locale)

	info := cartPageInfo{
		Shopper: shpr,
		Total:   formatter.Format(cart.TotalInCents(), cart.Currency),
		Empty:   cart.IsEmpty(),
	}
	for _, item := range cart.Items {
		info.Lines = append(info.Lines, cartLineInfo{
			Item:      item,
			UnitPrice: formatter.Format(item.PriceInCents, cart.Currency),
			LineTotal: formatter.Format(item.TotalInCents(), cart.Currency),
		})
	}
	for _, p := range catalog {
		info.Catalog = append(info.Catalog, catalogItemInfo{
			Product: p,
			Price:   formatter.Format(p.PriceInCents, defaultCurrency),
		})
	}

	return info
}

func (s *webService) cartPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		shpr, ok := s.currentShopper(c, w, r)
		if !ok {
			return
		}

		cart, err := s.service.getCart(c, shpr.UID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = cartPageTemplate.Execute(w, composeCartPageInfo(shpr, cart))
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInternalError(err))
			return
		}
	}
}

type addItemForm struct {
	ProductUID string `form:"productUid"`
	Size       string `form:"size"`
}

func (s *webService) addItemPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		shpr, ok := s.currentShopper(c, w, r)
		if !ok {
			return
		}

		err := r.ParseForm()
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}

		form := addItemForm{}
		err = formcodec.NewDecoder().Decode(&form, r.PostForm)
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInvalidInputError(fmt.Errorf("error decoding form: %s", err)))
			return
		}

		_, err = s.service.addProduct(c, shpr.UID, form.ProductUID, form.Size)
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}

		http.Redirect(w, r, "/cart", http.StatusSeeOther)
	}
}

func (s *webService) updateQuantityPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		shpr, ok := s.currentShopper(c, w, r)
		if !ok {
			return
		}

		itemUID := mux.Vars(r)["itemUID"]

		err := r.ParseForm()
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}
		quantity, err := strconv.Atoi(r.PostForm.Get("quantity"))
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInvalidInputErrorf("invalid quantity %q", r.PostForm.Get("quantity")))
			return
		}

		_, err = s.service.updateQuantity(c, shpr.UID, itemUID, quantity)
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}

		http.Redirect(w, r, "/cart", http.StatusSeeOther)
	}
}

func (s *webService) removeItemPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		shpr, ok := s.currentShopper(c, w, r)
		if !ok {
			return
		}

		itemUID := mux.Vars(r)["itemUID"]

		_, err := s.service.removeItem(c, shpr.UID, itemUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		http.Redirect(w, r, "/cart", http.StatusSeeOther)
	}
}

func (s *webService) clearCartPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		shpr, ok := s.currentShopper(c, w, r)
		if !ok {
			return
		}

		err := s.service.clearCart(c, shpr.UID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		http.Redirect(w, r, "/cart", http.StatusSeeOther)
	}
}

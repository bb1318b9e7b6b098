package checkout

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"

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
	"github.com/lok57/storefront/services/cart"
	"github.com/lok57/storefront/services/order"
	"github.com/lok57/storefront/services/shopper"
)

//go:embed templates
var templateFolder embed.FS

var (
	addressPageTemplate *template.Template
	paymentPageTemplate *template.Template
	reviewPageTemplate  *template.Template
	successPageTemplate *template.Template
)

func init() {
	addressPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/checkout_address.html", "templates/progress.html"))
	paymentPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/checkout_payment.html", "templates/progress.html"))
	reviewPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/checkout_review.html", "templates/progress.html"))
	successPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/checkout_success.html"))
}

type webService struct {
	service *service
	carts   cart.CartService
	session *mysession.Manager
	logger  mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(store mystore.Store[CheckoutSession], shoppers shopper.ShopperService, carts cart.CartService, orders order.OrderService, nower mytime.Nower, publisher mypublisher.Publisher, sessionMgr *mysession.Manager) *webService {
	logger := mylog.New("checkout")

	return &webService{
		service: newService(store, shoppers, carts, orders, nower, logger, publisher),
		carts:   carts,
		session: sessionMgr,
		logger:  logger,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {

	// Endpoints that compose the userinterface
	router.HandleFunc("/checkout", s.checkoutPage()).Methods("GET")
	router.HandleFunc("/checkout/address", s.submitAddressPage()).Methods("POST")
	router.HandleFunc("/checkout/payment", s.submitPaymentPage()).Methods("POST")
	router.HandleFunc("/checkout/review", s.submitReviewPage()).Methods("POST")
	router.HandleFunc("/checkout/success", s.successPage()).Methods("GET")
}

// checkoutShopper resolves the logged-in shopper and insists on a non-empty
// cart: anonymous visitors are sent to the login-page, shoppers without
// items back to the cart.
func (s *webService) checkoutShopper(c context.Context, w http.ResponseWriter, r *http.Request) (shopper.Shopper, cart.Cart, bool) {
	shopperUID := s.session.ShopperUID(r)
	if shopperUID == "" {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return shopper.Shopper{}, cart.Cart{}, false
	}

	shpr, found, err := s.service.shoppers.Get(c, shopperUID)
	if err != nil || !found {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return shopper.Shopper{}, cart.Cart{}, false
	}

	crt, err := s.carts.Get(c, shopperUID)
	if err != nil || crt.IsEmpty() {
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return shopper.Shopper{}, cart.Cart{}, false
	}

	return shpr, crt, true
}

type stepInfo struct {
	Name    string
	Label   string
	Current bool
	Done    bool
}

type checkoutPageInfo struct {
	Shopper shopper.Shopper
	Session CheckoutSession
	Steps   []stepInfo
	Flashes []string
	Lines   []reviewLineInfo
	Total   string
	Address shopper.Address
	Payment shopper.PaymentMethod
}

type reviewLineInfo struct {
	Item      cart.LineItem
	LineTotal string
}

func composeSteps(current Step) []stepInfo {
	steps := []stepInfo{
		{Name: StepAddress.String(), Label: "Address"},
		{Name: StepPayment.String(), Label: "Payment"},
		{Name: StepReview.String(), Label: "Review"},
	}
	for i := range steps {
		steps[i].Current = Step(i) == current
		steps[i].Done = Step(i) < current
	}

	return steps
}

func (s *webService) composePageInfo(shpr shopper.Shopper, crt cart.Cart, session CheckoutSession, flashes []string) checkoutPageInfo {
	formatter := mymoney.NewFormatter(shpr.Locale)

	info := checkoutPageInfo{
		Shopper: shpr,
		Session: session,
		Steps:   composeSteps(session.Step),
		Flashes: flashes,
		Total:   formatter.Format(crt.TotalInCents(), crt.Currency),
	}
	for _, item := range crt.Items {
		info.Lines = append(info.Lines, reviewLineInfo{
			Item:      item,
			LineTotal: formatter.Format(item.TotalInCents(), crt.Currency),
		})
	}
	if session.Step == StepReview {
		info.Address, _ = shpr.AddressByUID(session.SelectedAddressUID)
		info.Payment, _ = shpr.PaymentMethodByUID(session.SelectedPaymentMethodUID)
	}

	return info
}

func (s *webService) checkoutPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		shpr, crt, ok := s.checkoutShopper(c, w, r)
		if !ok {
			return
		}

		session, err := s.service.currentSession(c, shpr.UID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		flashes := s.session.ConsumeFlashes(w, r)

		var pageTemplate *template.Template
		switch session.Step {
		case StepPayment:
			pageTemplate = paymentPageTemplate
		case StepReview:
			pageTemplate = reviewPageTemplate
		default:
			pageTemplate = addressPageTemplate
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = pageTemplate.Execute(w, s.composePageInfo(shpr, crt, session, flashes))
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInternalError(err))
			return
		}
	}
}

type addressSelectionForm struct {
	AddressUID string `form:"addressUid"`
}

func (s *webService) submitAddressPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		shpr, _, ok := s.checkoutShopper(c, w, r)
		if !ok {
			return
		}

		err := r.ParseForm()
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}
		form := addressSelectionForm{}
		err = formcodec.NewDecoder().Decode(&form, r.PostForm)
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInvalidInputError(fmt.Errorf("error decoding form: %s", err)))
			return
		}

		_, err = s.service.completeAddressStep(c, shpr.UID, form.AddressUID)
		if err != nil {
			s.redirectWithError(c, w, r, err, errorWriter)
			return
		}

		http.Redirect(w, r, "/checkout", http.StatusSeeOther)
	}
}

type paymentSelectionForm struct {
	PaymentMethodUID string `form:"paymentMethodUid"`
}

func (s *webService) submitPaymentPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		shpr, _, ok := s.checkoutShopper(c, w, r)
		if !ok {
			return
		}

		err := r.ParseForm()
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}
		form := paymentSelectionForm{}
		err = formcodec.NewDecoder().Decode(&form, r.PostForm)
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInvalidInputError(fmt.Errorf("error decoding form: %s", err)))
			return
		}

		_, err = s.service.completePaymentStep(c, shpr.UID, form.PaymentMethodUID)
		if err != nil {
			s.redirectWithError(c, w, r, err, errorWriter)
			return
		}

		http.Redirect(w, r, "/checkout", http.StatusSeeOther)
	}
}

func (s *webService) submitReviewPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		shpr, _, ok := s.checkoutShopper(c, w, r)
		if !ok {
			return
		}

		placed, err := s.service.placeOrder(c, shpr.UID)
		if err != nil {
			if myerrors.IsInvalidInputError(err) || myerrors.IsNotFoundError(err) {
				s.redirectWithError(c, w, r, err, errorWriter)
				return
			}
			s.logger.Log(c, shpr.UID, mylog.SeverityWarn, "Placing order for shopper %s failed: %s", shpr.UID, err)
			_ = s.session.AddFlash(w, r, "Could not place your order, please try again")
			http.Redirect(w, r, "/checkout", http.StatusSeeOther)
			return
		}

		http.Redirect(w, r, "/checkout/success?order="+placed.UID, http.StatusSeeOther)
	}
}

// redirectWithError turns a user-correctable error into a flash-message and
// returns the shopper to the step they came from.
func (s *webService) redirectWithError(c context.Context, w http.ResponseWriter, r *http.Request, err error, errorWriter myhttp.ResponseWriter) {
	if !myerrors.IsInvalidInputError(err) && !myerrors.IsNotFoundError(err) {
		errorWriter.WriteError(c, w, 3, err)
		return
	}

	message := err.Error()
	if cause := errors.Unwrap(err); cause != nil {
		message = cause.Error()
	}
	_ = s.session.AddFlash(w, r, message)
	http.Redirect(w, r, "/checkout", http.StatusSeeOther)
}

type successPageInfo struct {
	Shopper  shopper.Shopper
	OrderUID string
}

func (s *webService) successPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		// no cart-guard here: the cart was just cleared by the order
		shopperUID := s.session.ShopperUID(r)
		if shopperUID == "" {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		shpr, found, err := s.service.shoppers.Get(c, shopperUID)
		if err != nil || !found {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = successPageTemplate.Execute(w, successPageInfo{
			Shopper:  shpr,
			OrderUID: r.URL.Query().Get("order"),
		})
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInternalError(err))
			return
		}
	}
}

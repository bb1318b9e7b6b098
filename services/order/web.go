package order

import (
	"context"
	"embed"
	"html/template"
	"net/http"

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

var (
	orderListPageTemplate   *template.Template
	orderDetailPageTemplate *template.Template
)

func init() {
	orderListPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/order_list.html"))
	orderDetailPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/order_detail.html"))
}

type webService struct {
	service  *service
	shoppers shopper.ShopperService
	session  *mysession.Manager
	logger   mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(store mystore.Store[Order], submitter Submitter, nower mytime.Nower, uuider myuuid.UUIDer, publisher mypublisher.Publisher, shoppers shopper.ShopperService, sessionMgr *mysession.Manager) *webService {
	logger := mylog.New("order")

	return &webService{
		service:  newService(store, submitter, nower, uuider, logger, publisher),
		shoppers: shoppers,
		session:  sessionMgr,
		logger:   logger,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {

	// Endpoints that compose the userinterface
	router.HandleFunc("/orders", s.orderListPage()).Methods("GET")
	router.HandleFunc("/orders/{orderUID}", s.orderDetailPage()).Methods("GET")
}

// Place makes the webService usable as OrderService by the checkout-flow
func (s *webService) Place(c context.Context, order Order) (Order, error) {
	return s.service.placeOrder(c, order)
}

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

type orderListPageInfo struct {
	Shopper shopper.Shopper
	Orders  []orderInfo
}

type orderInfo struct {
	Order Order
	Total string
}

type orderDetailPageInfo struct {
	Shopper shopper.Shopper
	Order   Order
	Lines   []orderLineInfo
	Total   string
}

type orderLineInfo struct {
	Name      string
	Size      string
	Quantity  int
	LineTotal string
}

func (s *webService) orderListPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		shpr, ok := s.currentShopper(c, w, r)
		if !ok {
			return
		}

		orders, err := s.service.listOrders(c, shpr.UID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		formatter := mymoney.NewFormatter(shpr.Locale)
		info := orderListPageInfo{Shopper: shpr}
		for _, o := range orders {
			info.Orders = append(info.Orders, orderInfo{
				Order: o,
				Total: formatter.Format(o.TotalInCents, o.Currency),
			})
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = orderListPageTemplate.Execute(w, info)
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInternalError(err))
			return
		}
	}
}

func (s *webService) orderDetailPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		shpr, ok := s.currentShopper(c, w, r)
		if !ok {
			return
		}

		orderUID := mux.Vars(r)["orderUID"]

		order, err := s.service.getOrder(c, shpr.UID, orderUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		formatter := mymoney.NewFormatter(shpr.Locale)
		info := orderDetailPageInfo{
			Shopper: shpr,
			Order:   order,
			Total:   formatter.Format(order.TotalInCents, order.Currency),
		}
		for _, item := range order.Items {
			info.Lines = append(info.Lines, orderLineInfo{
				Name:      item.Name,
				Size:      item.Size,
				Quantity:  item.Quantity,
				LineTotal: formatter.Format(item.TotalInCents(), order.Currency),
			})
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = orderDetailPageTemplate.Execute(w, info)
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInternalError(err))
			return
		}
	}
}

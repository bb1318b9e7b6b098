package shopper

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	formcodec "github.com/go-playground/form/v4"
	"github.com/gorilla/mux"

	"github.com/lok57/storefront/lib/mycontext"
	"github.com/lok57/storefront/lib/myerrors"
	"github.com/lok57/storefront/lib/myhttp"
	"github.com/lok57/storefront/lib/mylog"
	"github.com/lok57/storefront/lib/mypubsub"
	"github.com/lok57/storefront/lib/mysession"
	"github.com/lok57/storefront/lib/mystore"
	"github.com/lok57/storefront/lib/mytime"
	"github.com/lok57/storefront/lib/myuuid"
	"github.com/lok57/storefront/services/order/orderevents"
)

//go:embed templates
var templateFolder embed.FS

var loginPageTemplate *template.Template

func init() {
	loginPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/login.html"))
}

type webService struct {
	service *service
	session *mysession.Manager
	logger  mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(store mystore.Store[Shopper], nower mytime.Nower, uuider myuuid.UUIDer, subscriber mypubsub.PubSub, sessionMgr *mysession.Manager) *webService {
	logger := mylog.New("shopper")

	return &webService{
		service: newService(store, nower, uuider, subscriber, logger),
		session: sessionMgr,
		logger:  logger,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {

	// Endpoints that compose the userinterface
	router.HandleFunc("/login", s.loginPage()).Methods("GET")
	router.HandleFunc("/login", s.doLoginPage()).Methods("POST")
	router.HandleFunc("/logout", s.logoutPage()).Methods("POST")

	// Pubsub will push order-events to this endpoint
	router.HandleFunc("/api/shopper/event", s.handleEventEnvelope()).Methods("POST")

	return s.service.Subscribe(c)
}

// Get makes the webService usable as ShopperService by the other services
func (s *webService) Get(c context.Context, shopperUID string) (Shopper, bool, error) {
	return s.service.getShopper(c, shopperUID)
}

type loginForm struct {
	FirstName string `form:"firstName"`
	LastName  string `form:"lastName"`
	Email     string `form:"email"`
	Locale    string `form:"locale"`
}

func (s *webService) loginPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err := loginPageTemplate.Execute(w, nil)
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInternalError(err))
			return
		}
	}
}

func (s *webService) doLoginPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := r.ParseForm()
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}

		form := loginForm{}
		err = formcodec.NewDecoder().Decode(&form, r.PostForm)
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInvalidInputError(fmt.Errorf("error decoding form: %s", err)))
			return
		}

		shopper, err := s.service.createShopper(c, form.FirstName, form.LastName, form.Email, form.Locale)
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}

		err = s.session.Login(w, r, shopper.UID)
		if err != nil {
			errorWriter.WriteError(c, w, 4, myerrors.NewInternalError(err))
			return
		}

		http.Redirect(w, r, "/cart", http.StatusSeeOther)
	}
}

func (s *webService) logoutPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := s.session.Logout(w, r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInternalError(err))
			return
		}

		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

func (s *webService) handleEventEnvelope() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := orderevents.DispatchEvent(c, r.Body, s.service)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.EmptyResponse{})
	}
}

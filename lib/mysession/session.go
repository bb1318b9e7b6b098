package mysession

import (
	"net/http"
	"os"

	"github.com/gorilla/sessions"
)

const (
	cookieName    = "storefront"
	shopperUIDKey = "shopperUID"
	defaultDevKey = "insecure-dev-session-key"
	sessionMaxAge = 24 * 60 * 60
)

// Manager keeps the shopper-identity and transient flash-messages in a cookie.
type Manager struct {
	store sessions.Store
}

func New() *Manager {
	secret := os.Getenv("SESSION_KEY")
	if secret == "" {
		secret = defaultDevKey
	}

	cookieStore := sessions.NewCookieStore([]byte(secret))
	cookieStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
	}

	return &Manager{
		store: cookieStore,
	}
}

// ShopperUID returns the uid of the logged-in shopper or empty when anonymous.
func (m *Manager) ShopperUID(r *http.Request) string {
	session, err := m.store.Get(r, cookieName)
	if err != nil {
		return ""
	}

	uid, _ := session.Values[shopperUIDKey].(string)

	return uid
}

func (m *Manager) Login(w http.ResponseWriter, r *http.Request, shopperUID string) error {
	session, _ := m.store.Get(r, cookieName)
	session.Values[shopperUIDKey] = shopperUID

	return session.Save(r, w)
}

func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	session, _ := m.store.Get(r, cookieName)
	delete(session.Values, shopperUIDKey)
	session.Options.MaxAge = -1

	return session.Save(r, w)
}

// AddFlash stores a transient message that survives exactly one redirect.
func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, message string) error {
	session, _ := m.store.Get(r, cookieName)
	session.AddFlash(message)

	return session.Save(r, w)
}

// ConsumeFlashes returns pending messages and removes them from the session.
func (m *Manager) ConsumeFlashes(w http.ResponseWriter, r *http.Request) []string {
	session, _ := m.store.Get(r, cookieName)

	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}

	messages := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			messages = append(messages, msg)
		}
	}

	// removal of the flashes must be persisted
	_ = session.Save(r, w)

	return messages
}

package mysession

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSession(t *testing.T) {
	mgr := New()

	t.Run("Anonymous request has no shopper", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Empty(t, mgr.ShopperUID(request))
	})

	t.Run("Login is visible on next request", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/login", nil)
		response := httptest.NewRecorder()

		err := mgr.Login(response, request, "shopper-123")
		assert.NoError(t, err)

		next := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, cookie := range response.Result().Cookies() {
			next.AddCookie(cookie)
		}
		assert.Equal(t, "shopper-123", mgr.ShopperUID(next))
	})

	t.Run("Flash is consumed exactly once", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/checkout/address", nil)
		response := httptest.NewRecorder()

		err := mgr.AddFlash(response, request, "Select a delivery address first")
		assert.NoError(t, err)

		next := httptest.NewRequest(http.MethodGet, "/checkout", nil)
		for _, cookie := range response.Result().Cookies() {
			next.AddCookie(cookie)
		}
		nextResponse := httptest.NewRecorder()

		flashes := mgr.ConsumeFlashes(nextResponse, next)
		assert.Equal(t, []string{"Select a delivery address first"}, flashes)

		// and gone afterwards
		last := httptest.NewRequest(http.MethodGet, "/checkout", nil)
		for _, cookie := range nextResponse.Result().Cookies() {
			last.AddCookie(cookie)
		}
		assert.Empty(t, mgr.ConsumeFlashes(httptest.NewRecorder(), last))
	})
}

package sessions

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/securecookie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookieSessionStoreRoundTrip(t *testing.T) {
	store := NewCookieSessionStore(false, securecookie.GenerateRandomKey(32))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	require.NoError(t, store.SetUserID(rec, req, "user-1"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	next := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	next.AddCookie(cookies[0])
	assert.Equal(t, "user-1", store.GetUserID(next))

	out := httptest.NewRecorder()
	require.NoError(t, store.ClearSession(out, next))
	assert.Less(t, out.Result().Cookies()[0].MaxAge, 0)
}

func TestCookieSessionStoreRejectsForeignCookie(t *testing.T) {
	signer := NewCookieSessionStore(false, securecookie.GenerateRandomKey(32))
	other := NewCookieSessionStore(false, securecookie.GenerateRandomKey(32))

	rec := httptest.NewRecorder()
	require.NoError(t, signer.SetUserID(rec, httptest.NewRequest(http.MethodGet, "/", nil), "user-1"))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.AddCookie(rec.Result().Cookies()[0])
	assert.Empty(t, other.GetUserID(req))
}

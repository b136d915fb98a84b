package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postLogin(t *testing.T, h *AuthHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Login(e.NewContext(req, rec)))
	return rec
}

func TestLoginHandler(t *testing.T) {
	f := setupService(t)
	f.admin(t, "p@school.edu", "password1")
	h := NewAuthHandler(f.svc)

	rec := postLogin(t, h, `{"email":"p@school.edu","password":"password1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["token"])

	rec = postLogin(t, h, `{"email":"p@school.edu","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid Email or Password.")

	rec = postLogin(t, h, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProfileHandler(t *testing.T) {
	f := setupService(t)
	f.admin(t, "p@school.edu", "password1")
	h := NewAuthHandler(f.svc)
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/profile", nil), rec)
	require.NoError(t, h.Profile(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/api/profile", nil), rec)
	c.Set("user", &JWTClaims{Email: "p@school.edu"})
	require.NoError(t, h.Profile(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"p@school.edu"`)
	assert.Contains(t, rec.Body.String(), `"name":"Principal"`)
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"SchoolCMS/internal/auth"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubVerifier map[string]*auth.JWTClaims

func (v stubVerifier) Verify(_ context.Context, token string) (*auth.JWTClaims, error) {
	if c, ok := v[token]; ok {
		return c, nil
	}
	return nil, errors.New("no session")
}

func TestJWTMiddleware(t *testing.T) {
	e := echo.New()
	verifier := stubVerifier{"good": {Email: "p@school.edu"}}
	e.GET("/p", func(c echo.Context) error {
		claims := c.Get("user").(*auth.JWTClaims)
		return c.String(http.StatusOK, claims.Email+" "+c.Get("token").(string))
	}, JWTMiddleware(verifier, zap.NewNop()))

	cases := []struct {
		name   string
		header string
		code   int
		body   string
	}{
		{name: "missing", header: "", code: http.StatusUnauthorized, body: "Missing Token"},
		{name: "invalid", header: "Bearer bad", code: http.StatusUnauthorized, body: "Invalid Token"},
		{name: "valid", header: "Bearer good", code: http.StatusOK, body: "p@school.edu good"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/p", nil)
			if tc.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tc.code, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.body)
		})
	}
}

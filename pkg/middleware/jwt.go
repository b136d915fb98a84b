package middleware

import (
	"context"
	"net/http"
	"strings"

	"SchoolCMS/internal/auth"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TokenVerifier checks a bearer token and its server-side session.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.JWTClaims, error)
}

// JWTMiddleware rejects requests without a valid bearer token. On success the
// claims are stored under "user" and the raw token under "token".
func JWTMiddleware(verifier TokenVerifier, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing Token"})
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			tokenString = strings.TrimSpace(tokenString)

			claims, err := verifier.Verify(c.Request().Context(), tokenString)
			if err != nil {
				log.Debug("rejected token", zap.String("path", c.Path()), zap.Error(err))
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid Token"})
			}
			c.Set("user", claims)
			c.Set("token", tokenString)
			return next(c)
		}
	}
}

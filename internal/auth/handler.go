package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	service *Service
}

func NewAuthHandler(service *Service) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Login(c echo.Context) error {
	var cred Credential
	if err := c.Bind(&cred); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	_, token, err := h.service.SignIn(c.Request().Context(), cred)
	if errors.Is(err, ErrInvalidCredentials) {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid Email or Password."})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Login Failed"})
	}

	return c.JSON(http.StatusOK, map[string]string{"token": token})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	token, _ := c.Get("token").(string)
	if err := h.service.SignOut(c.Request().Context(), token); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Logout failed"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out successfully."})
}

func (h *AuthHandler) Profile(c echo.Context) error {
	claims, ok := c.Get("user").(*JWTClaims)
	if !ok || claims == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	admin, err := h.service.Profile(c.Request().Context(), claims.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load profile"})
	}
	if admin == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not found"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":    "Authenticated User",
		"email":      admin.Email,
		"name":       admin.Name,
		"created_at": admin.CreatedAt,
	})
}

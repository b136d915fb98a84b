package cms

import (
	"net/http"

	"SchoolCMS/internal/docstore"
	"SchoolCMS/internal/records"

	"github.com/labstack/echo/v4"
)

// PublicHandler serves the published content to the school website. It is
// read-only and needs no session.
type PublicHandler struct {
	repo *records.Repository
}

// NewPublicHandler creates a new PublicHandler.
func NewPublicHandler(repo *records.Repository) *PublicHandler {
	return &PublicHandler{repo: repo}
}

// ListNotices returns every notice, newest date first.
func (h *PublicHandler) ListNotices(c echo.Context) error {
	docs, err := h.repo.ListOrdered(c.Request().Context(), NoticesCollection, "date", docstore.Descending)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load notices"})
	}

	notices := make([]Notice, 0, len(docs))
	for _, d := range docs {
		notices = append(notices, noticeFromDocument(d))
	}
	return c.JSON(http.StatusOK, notices)
}

// ListAchievements returns every achievement, newest first.
func (h *PublicHandler) ListAchievements(c echo.Context) error {
	docs, err := h.repo.ListOrdered(c.Request().Context(), AchievementsCollection, records.CreatedAtField, docstore.Descending)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load achievements"})
	}

	achievements := make([]Achievement, 0, len(docs))
	for _, d := range docs {
		achievements = append(achievements, achievementFromDocument(d))
	}
	return c.JSON(http.StatusOK, achievements)
}

// GetPrincipalMessage returns the principal's message, empty if none was saved.
func (h *PublicHandler) GetPrincipalMessage(c echo.Context) error {
	doc, err := h.repo.FetchSingleton(c.Request().Context(), PrincipalCollection, PrincipalMessageID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load principal's message"})
	}
	return c.JSON(http.StatusOK, principalFromDocument(doc))
}

package handler

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/studyassist/backend/internal/domain"
)

// CreateSession mints and returns a new session id. Pure generation, no store
// interaction; the session record appears lazily on the first chat turn.
// GET /session
func (h *Handler) CreateSession(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.SessionResponse{
		SessionID: uuid.New().String(),
	})
}

// ListSessions returns every known session with its stats.
// GET /sessions
func (h *Handler) ListSessions(c echo.Context) error {
	ctx := c.Request().Context()

	sessions, err := h.service.ListSessions(ctx)
	if err != nil {
		log.Printf("ERROR: failed to list sessions: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list sessions"})
	}

	return c.JSON(http.StatusOK, domain.ListSessionsResponse{Sessions: sessions})
}

// ClearSession removes a session and its history, idempotently.
// DELETE /sessions/:session_id
func (h *Handler) ClearSession(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	if err := h.service.ClearSession(ctx, sessionID); err != nil {
		log.Printf("ERROR: failed to clear session: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to clear session"})
	}

	return c.NoContent(http.StatusNoContent)
}

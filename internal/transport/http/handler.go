// Package handler provides HTTP handlers for the assistant backend.
package handler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/studyassist/backend/internal/service"
)

// HeaderSessionID is the out-of-band channel for the session token, both
// inbound (caller-supplied) and outbound (echoing a generated id).
const HeaderSessionID = "X-Session-Id"

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Health)
	e.GET("/session", h.CreateSession)
	e.POST("/chat", h.Chat)
	e.GET("/history", h.GetHistory)

	// Session admin
	e.GET("/sessions", h.ListSessions)
	e.DELETE("/sessions/:session_id", h.ClearSession)
}

// Health returns service availability.
// GET /
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Healthy",
	})
}

// resolveSessionID returns the effective session id for the request and
// whether it was generated because the header was missing or blank. A
// generated id is echoed back through the same header.
func resolveSessionID(c echo.Context) (string, bool) {
	if id := strings.TrimSpace(c.Request().Header.Get(HeaderSessionID)); id != "" {
		return id, false
	}
	id := uuid.New().String()
	c.Response().Header().Set(HeaderSessionID, id)
	return id, true
}

package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studyassist/backend/internal/domain"
)

// Chat submits a question and returns the generated answer. Responds 201
// instead of 200 when a new session id was minted for this request; the
// distinction applies only on the success path.
// POST /chat
func (h *Handler) Chat(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID, created := resolveSessionID(c)

	var req domain.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
			"errors": []domain.FieldError{{
				Location: "body",
				Message:  "invalid request body",
				Kind:     "parse_error",
			}},
		})
	}

	// The header-resolved id overrides any session_id in the body.
	req.SessionID = sessionID

	resp, err := h.service.Chat(ctx, &req)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
				"errors": verr.Fields,
			})
		}
		var uerr *domain.UpstreamError
		if errors.As(err, &uerr) {
			log.Printf("ERROR: model invocation failed: %s", uerr.Cause)
			return c.JSON(http.StatusBadGateway, map[string]string{"error": uerr.Cause})
		}
		log.Printf("ERROR: chat turn failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to process chat turn"})
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, resp)
}

// GetHistory returns the session's messages in chronological order. A missing
// session header mints a new id (201, header echo) and returns an empty list
// without creating a store record.
// GET /history
func (h *Handler) GetHistory(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID, created := resolveSessionID(c)

	resp, err := h.service.History(ctx, sessionID)
	if err != nil {
		log.Printf("ERROR: failed to get history: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get history"})
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, resp)
}

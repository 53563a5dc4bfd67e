package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"feedpulse/backend/internal/logger"
	"feedpulse/backend/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalid):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "resource not found"})
	case errors.Is(err, service.ErrConflict):
		return c.JSON(http.StatusConflict, errorResponse{Error: "conflict"})
	case errors.Is(err, service.ErrAlreadyRunning):
		return c.JSON(http.StatusConflict, errorResponse{Error: "ingestion already running"})
	default:
		logger.Error("request failed",
			"module", "handler",
			"action", "request",
			"resource", "http",
			"result", "failed",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"error", err,
		)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// writeError returns a JSON error response with the given status and message.
func writeError(c echo.Context, status int, message string) error {
	return c.JSON(status, errorResponse{Error: message})
}

package http

import (
	"errors"
	stdhttp "net/http"

	"county-revenue/internal/application"
	"county-revenue/internal/domain"
	"county-revenue/internal/ports"
	"github.com/labstack/echo/v4"
)

type errorBody struct {
	Error string `json:"error"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return stdhttp.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUnauthenticated):
		return stdhttp.StatusUnauthorized
	case errors.Is(err, domain.ErrPermissionDeny), errors.Is(err, domain.ErrUnknownRole):
		return stdhttp.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return stdhttp.StatusNotFound
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDeclined):
		return stdhttp.StatusConflict
	default:
		return stdhttp.StatusInternalServerError
	}
}

func handleError(c echo.Context, logger ports.Logger, err error) error {
	status := statusFor(err)
	if status == stdhttp.StatusInternalServerError {
		logger.Error(c.Request().Context(), "request failed", "path", c.Path(), "error", err)
		return c.JSON(status, errorBody{Error: "internal error"})
	}
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return c.JSON(status, errorBody{Error: domain.ErrInvalidCredentials.Error()})
	}
	return c.JSON(status, errorBody{Error: err.Error()})
}

// ErrorHandler renders errors that escape handlers, including echo's own
// HTTP errors, in the same JSON envelope.
func ErrorHandler(logger ports.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg, ok := he.Message.(string)
			if !ok {
				msg = stdhttp.StatusText(he.Code)
			}
			_ = c.JSON(he.Code, errorBody{Error: msg})
			return
		}
		if errors.Is(err, application.ErrRegistryConfig) {
			logger.Error(c.Request().Context(), "registry misconfigured", "error", err)
		}
		_ = handleError(c, logger, err)
	}
}

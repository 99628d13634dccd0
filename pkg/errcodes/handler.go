package errcodes

import (
	"fmt"
	"net/http"

	"github.com/iancoleman/strcase"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/errutils"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// Handle is an Echo error handler. *Error values are rendered with their own
// status and code, Echo errors with theirs, and anything else becomes a 500.
func (h *Handler) Handle(err error, c echo.Context) {
	if errutils.IsIgnorableErr(err) {
		logger.FromEchoContext(c).Err(err).Warn("broken pipe")
		return
	}

	httpCode, body := payload(err)

	// The cause of a server error (e.g. the store failure behind an aborted
	// transaction) is logged but never rendered.
	if httpCode >= http.StatusInternalServerError {
		logger.FromEchoContext(c).Err(err).Error("server error")
	}

	if err := c.JSON(httpCode, map[string]interface{}{"error": body}); err != nil {
		logger.FromEchoContext(c).Err(errors.WithStack(err)).Error("error handler json error")
	}
}

func payload(err error) (int, map[string]interface{}) {
	body := map[string]interface{}{
		"code":        "internal_server_error",
		"message":     "Internal Server Error",
		"status_code": http.StatusInternalServerError,
	}

	var e *Error
	var he *echo.HTTPError
	switch {
	case errors.As(err, &e):
		body["code"] = e.Code
		body["message"] = e.Message
		body["status_code"] = e.HTTPCode
		if e.Field != "" {
			body["field"] = e.Field
		}
		return e.HTTPCode, body
	case errors.As(err, &he):
		msg := fmt.Sprint(he.Message)
		body["code"] = strcase.ToSnake(msg)
		body["message"] = msg
		body["status_code"] = he.Code
		return he.Code, body
	}

	return http.StatusInternalServerError, body
}

package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// SuccessResponse writes a 200 response.
func SuccessResponse(c echo.Context, body interface{}) error {
	return c.JSON(http.StatusOK, body)
}

// ErrorResponse writes {"error": message} with the status carried by err.
// Non-AppError values become 500.
func ErrorResponse(c echo.Context, err error) error {
	appErr := AsAppError(err)
	return c.JSON(appErr.Status, ErrorBody{Error: appErr.Message})
}

// ErrorHandler replaces echo's default so that routing errors (404, 405) and
// anything a handler returns share the {"error": ...} body.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if he, ok := err.(*echo.HTTPError); ok {
		msg, isStr := he.Message.(string)
		if !isStr {
			msg = http.StatusText(he.Code)
		}
		_ = c.JSON(he.Code, ErrorBody{Error: msg})
		return
	}
	_ = ErrorResponse(c, err)
}

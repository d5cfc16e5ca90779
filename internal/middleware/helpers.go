package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Fields are extra top-level keys merged into a response envelope.
type Fields map[string]any

// OK writes a success envelope: {"success": true, ...fields}. A non-empty
// message is included under "message".
func OK(c echo.Context, message string, fields Fields) error {
	body := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		body[k] = v
	}
	body["success"] = true
	if message != "" {
		body["message"] = message
	}
	return c.JSON(http.StatusOK, body)
}

// Declined writes a success:false envelope with status 200 for an expected
// non-change, such as adding an item that is already present.
func Declined(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, map[string]any{
		"success": false,
		"message": message,
	})
}

// Failure writes the error envelope the central error handler uses:
// {"success": false, "message": ..., "error": kind}.
func Failure(c echo.Context, status int, kind, message string) error {
	return c.JSON(status, map[string]any{
		"success": false,
		"error":   kind,
		"message": message,
	})
}

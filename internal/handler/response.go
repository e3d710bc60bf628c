package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the envelope returned for every failed request.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Error sends an error response using the shared envelope format. Success
// bodies are endpoint-specific and returned directly by each handler.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, ErrorResponse{
		Status:  "error",
		Message: message,
	})
}

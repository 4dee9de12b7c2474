package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope is the body of every API response, successful or not.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
	Success    bool   `json:"success"`
}

// Failure builds the envelope for an error response.
func Failure(code int, msg string) Envelope {
	return Envelope{StatusCode: code, Message: msg, Success: false}
}

func respond(c echo.Context, code int, data any, msg string) error {
	return c.JSON(code, Envelope{
		StatusCode: code,
		Message:    msg,
		Data:       data,
		Success:    code < http.StatusBadRequest,
	})
}

func ok(c echo.Context, data any, msg string) error {
	return respond(c, http.StatusOK, data, msg)
}

func created(c echo.Context, data any, msg string) error {
	return respond(c, http.StatusCreated, data, msg)
}

package handler

import "github.com/labstack/echo/v4"

// envelope is the uniform response shape for every endpoint. Error
// responses carry success=false and error; the central HTTP error handler
// renders those, handlers only ever render the success form.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// pagedResponse is the shape of every list endpoint's data field.
type pagedResponse struct {
	Items      any   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

func respond(c echo.Context, code int, data any) error {
	return c.JSON(code, envelope{Success: true, Data: data})
}

func respondMessage(c echo.Context, code int, msg string) error {
	return c.JSON(code, envelope{Success: true, Message: msg})
}

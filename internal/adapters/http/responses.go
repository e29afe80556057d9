package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// MessageResponse is the body of every error that is not a validation failure
type MessageResponse struct {
	Message string `json:"message"`
}

type postIDParam struct {
	ID int `param:"id" validate:"gt=0"`
}

// parsePostID binds and validates the :id path parameter
func parsePostID(c echo.Context) (int, error) {
	var p postIDParam
	if err := (&echo.DefaultBinder{}).BindPathParams(c, &p); err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}
	if err := c.Validate(&p); err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}
	return p.ID, nil
}

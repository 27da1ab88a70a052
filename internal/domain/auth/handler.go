package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/login", h.Login)
}

// loginError is the stable error body: a machine-readable code plus a
// human-readable message. NotFound and Unauthorized share the generic
// message so the API does not reveal which usernames exist; the status
// codes still differ.
type loginError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, loginError{Code: "validation", Message: "malformed request body"})
	}

	res, err := h.svc.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		kind := KindOf(err)
		switch kind {
		case KindValidation:
			return c.JSON(kind.HTTPStatus(), loginError{Code: kind.String(), Message: "username and password are required"})
		case KindNotFound, KindUnauthorized:
			return c.JSON(kind.HTTPStatus(), loginError{Code: kind.String(), Message: "invalid credentials"})
		case KindDependency:
			return c.JSON(kind.HTTPStatus(), loginError{Code: kind.String(), Message: "service temporarily unavailable"})
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	return c.JSON(http.StatusOK, res)
}

package dashboard

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/kidscare/portal/internal/domain/patient"
)

const searchLimit = 25

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/admin/patients/search", h.SearchPatients)
	api.GET("/admin/patients/:patientId/dashboard", h.AdminDashboard)
	api.POST("/admin/patients", h.AdmitPatient)
	api.DELETE("/admin/patients/:patientId", h.DischargePatient)
	api.GET("/parents/:parentUserId/dashboard", h.ParentDashboard)
}

func (h *Handler) SearchPatients(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
	}
	patients, err := h.svc.SearchPatients(c.Request().Context(), q, searchLimit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "database error")
	}
	if patients == nil {
		patients = []*patient.Patient{}
	}
	return c.JSON(http.StatusOK, patients)
}

func (h *Handler) AdminDashboard(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	d, err := h.svc.PatientDashboard(c.Request().Context(), patientID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "database error")
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) AdmitPatient(c echo.Context) error {
	var p patient.Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	adm, err := h.svc.AdmitPatient(c.Request().Context(), &p)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, adm)
}

func (h *Handler) DischargePatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	if err := h.svc.DischargePatient(c.Request().Context(), patientID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "database error")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ParentDashboard(c echo.Context) error {
	parentUserID, err := uuid.Parse(c.Param("parentUserId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid parent user id")
	}
	d, err := h.svc.ParentDashboard(c.Request().Context(), parentUserID)
	if err != nil {
		if errors.Is(err, ErrNoChildren) || errors.Is(err, pgx.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "no linked children")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "database error")
	}
	return c.JSON(http.StatusOK, d)
}

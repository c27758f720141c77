package appointment

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinichq/clinic-server/internal/platform/auth"
	"github.com/clinichq/clinic-server/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole("admin", "physician", "nurse", "registrar"))
	readGroup.GET("/appointments", h.List)
	readGroup.GET("/appointments/:id", h.GetByID)
	readGroup.GET("/patients/:id/appointments", h.ListByPatient)
	readGroup.GET("/doctors/:id/appointments", h.ListByDoctor)

	writeGroup := api.Group("", auth.RequireRole("admin", "registrar"))
	writeGroup.POST("/appointments", h.Create)
	writeGroup.PUT("/appointments/:id", h.Update)
	writeGroup.POST("/appointments/:id/cancel", h.Cancel)
	writeGroup.DELETE("/appointments/:id", h.Delete)
}

func (h *Handler) List(c echo.Context) error {
	page := pagination.FromContext(c)
	items, err := h.svc.List(c.Request().Context(), page.Limit, page.Offset)
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return h.mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Create(c echo.Context) error {
	var a Appointment
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &a); err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) GetByID(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var a Appointment
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a.ID = id
	if err := h.svc.Update(c.Request().Context(), &a); err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, a)
}

type cancelRequest struct {
	Reason *string `json:"reason"`
}

func (h *Handler) Cancel(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req cancelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.Cancel(c.Request().Context(), id, req.Reason)
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) ListByPatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	page := pagination.FromContext(c)
	items, err := h.svc.ListByPatient(c.Request().Context(), id, page.Limit, page.Offset)
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListByDoctor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	page := pagination.FromContext(c)
	items, err := h.svc.ListByDoctor(c.Request().Context(), id, page.Limit, page.Offset)
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrAlreadyCancelled):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrPatientRequired),
		errors.Is(err, ErrDoctorRequired),
		errors.Is(err, ErrInvalidTimeRange),
		errors.Is(err, ErrInvalidStatus):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

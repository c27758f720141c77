package directory

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
	readGroup.GET("/clinics", h.ListClinics)
	readGroup.GET("/clinics/:id", h.GetClinic)
	readGroup.GET("/clinics/:id/doctors", h.ListDoctorsByClinic)
	readGroup.GET("/doctors", h.ListDoctors)
	readGroup.GET("/doctors/:id", h.GetDoctor)

	adminGroup := api.Group("", auth.RequireRole("admin"))
	adminGroup.POST("/clinics", h.CreateClinic)
	adminGroup.PUT("/clinics/:id", h.UpdateClinic)
	adminGroup.POST("/doctors", h.CreateDoctor)
	adminGroup.PUT("/doctors/:id", h.UpdateDoctor)
	adminGroup.POST("/doctors/:id/deactivate", h.DeactivateDoctor)
	// DELETE deactivates rather than removing rows; bookings keep
	// their references.
	adminGroup.DELETE("/clinics/:id", h.DeactivateClinic)
	adminGroup.DELETE("/doctors/:id", h.DeactivateDoctor)
}

func (h *Handler) DeactivateClinic(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeactivateClinic(c.Request().Context(), id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) CreateClinic(c echo.Context) error {
	var clinic Clinic
	if err := c.Bind(&clinic); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateClinic(c.Request().Context(), &clinic); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, clinic)
}

func (h *Handler) GetClinic(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	clinic, err := h.svc.GetClinic(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, clinic)
}

func (h *Handler) UpdateClinic(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var clinic Clinic
	if err := c.Bind(&clinic); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	clinic.ID = id
	if err := h.svc.UpdateClinic(c.Request().Context(), &clinic); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, clinic)
}

func (h *Handler) ListClinics(c echo.Context) error {
	page := pagination.FromContext(c)
	items, err := h.svc.ListClinics(c.Request().Context(), page.Limit, page.Offset)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateDoctor(c echo.Context) error {
	var d Doctor
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateDoctor(c.Request().Context(), &d); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) GetDoctor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	d, err := h.svc.GetDoctor(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) UpdateDoctor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var d Doctor
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d.ID = id
	if err := h.svc.UpdateDoctor(c.Request().Context(), &d); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) ListDoctors(c echo.Context) error {
	page := pagination.FromContext(c)
	items, err := h.svc.ListDoctors(c.Request().Context(), page.Limit, page.Offset)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListDoctorsByClinic(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	page := pagination.FromContext(c)
	items, err := h.svc.ListDoctorsByClinic(c.Request().Context(), id, page.Limit, page.Offset)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) DeactivateDoctor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeactivateDoctor(c.Request().Context(), id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrClinicNotFound), errors.Is(err, ErrDoctorNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNameRequired):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

package availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinichq/clinic-server/internal/platform/auth"
)

// retryAfterSeconds is sent with 503 responses when the appointment
// lookup is down, hinting clients when to retry slot queries.
const retryAfterSeconds = 5

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// Read endpoints – any clinic staff
	readGroup := api.Group("", auth.RequireRole("admin", "physician", "nurse", "registrar"))
	readGroup.GET("/doctors/:id/availability", h.ListAvailability)
	readGroup.GET("/doctors/:id/slots", h.DaySlots)
	readGroup.GET("/doctors/:id/availability/total", h.TotalAvailableTime)
	readGroup.GET("/doctors/:id/availability/check", h.CheckAvailability)
	readGroup.GET("/doctors/available", h.AvailableDoctors)

	// Write endpoints – admin and registrar manage rosters
	writeGroup := api.Group("", auth.RequireRole("admin", "registrar"))
	writeGroup.POST("/doctors/:id/availability", h.AddAvailability)
	writeGroup.PUT("/availability/:id", h.UpdateAvailability)
	writeGroup.DELETE("/availability/:id", h.DeleteAvailability)
}

// availabilityRequest is the write payload. Times are wall-clock strings
// so callers never deal in raw minute offsets.
type availabilityRequest struct {
	Weekday int    `json:"weekday"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

func (r *availabilityRequest) toModel(doctorID uuid.UUID) (*Availability, error) {
	start, err := ParseClock(r.Start)
	if err != nil {
		return nil, err
	}
	end, err := ParseClock(r.End)
	if err != nil {
		return nil, err
	}
	return &Availability{
		DoctorID:    doctorID,
		Weekday:     time.Weekday(r.Weekday),
		StartMinute: start,
		EndMinute:   end,
	}, nil
}

// availabilityView decorates the stored row with formatted times.
type availabilityView struct {
	*Availability
	Start string `json:"start"`
	End   string `json:"end"`
}

func newView(a *Availability) availabilityView {
	return availabilityView{
		Availability: a,
		Start:        FormatClock(a.StartMinute),
		End:          FormatClock(a.EndMinute),
	}
}

func viewList(items []*Availability) []availabilityView {
	views := make([]availabilityView, len(items))
	for i, a := range items {
		views[i] = newView(a)
	}
	return views
}

func (h *Handler) AddAvailability(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	var req availabilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := req.toModel(doctorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.AddAvailability(c.Request().Context(), a); err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusCreated, newView(a))
}

func (h *Handler) ListAvailability(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	items, err := h.svc.ListAvailability(c.Request().Context(), doctorID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, viewList(items))
}

func (h *Handler) UpdateAvailability(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req availabilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := req.toModel(uuid.Nil)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a.ID = id
	if err := h.svc.UpdateAvailability(c.Request().Context(), a); err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, newView(a))
}

func (h *Handler) DeleteAvailability(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteAvailability(c.Request().Context(), id); err != nil {
		return h.mapError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) DaySlots(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	day, err := time.ParseInLocation("2006-01-02", c.QueryParam("date"), time.Local)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date query parameter required (YYYY-MM-DD)")
	}
	granularity := h.svc.Granularity()
	if raw := c.QueryParam("granularity"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "granularity must be a positive number of minutes")
		}
		granularity = time.Duration(minutes) * time.Minute
	}
	slots, err := h.svc.DaySlotsWith(c.Request().Context(), doctorID, day, granularity)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"doctor_id": doctorID,
		"date":      day.Format("2006-01-02"),
		"slots":     slots,
	})
}

func (h *Handler) TotalAvailableTime(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	from, err := time.Parse(time.RFC3339, c.QueryParam("from"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "from query parameter required (RFC3339)")
	}
	to, err := time.Parse(time.RFC3339, c.QueryParam("to"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "to query parameter required (RFC3339)")
	}
	total, err := h.svc.TotalAvailableTime(c.Request().Context(), doctorID, from, to)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"doctor_id":     doctorID,
		"from":          from,
		"to":            to,
		"total_minutes": int(total.Minutes()),
	})
}

func (h *Handler) CheckAvailability(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	at, err := time.Parse(time.RFC3339, c.QueryParam("at"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "at query parameter required (RFC3339)")
	}
	available, err := h.svc.IsAvailable(c.Request().Context(), doctorID, at)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"doctor_id": doctorID,
		"at":        at,
		"available": available,
	})
}

func (h *Handler) AvailableDoctors(c echo.Context) error {
	at, err := time.Parse(time.RFC3339, c.QueryParam("at"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "at query parameter required (RFC3339)")
	}
	var until *time.Time
	if raw := c.QueryParam("until"); raw != "" {
		u, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid until parameter (RFC3339)")
		}
		until = &u
	}
	ids, err := h.svc.AvailableDoctors(c.Request().Context(), at, until)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"at":      at,
		"doctors": ids,
	})
}

func (h *Handler) mapError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrOverlap):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrUpstreamUnavailable):
		c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
		return echo.NewHTTPError(http.StatusServiceUnavailable, ErrUpstreamUnavailable.Error())
	case errors.Is(err, ErrDoctorRequired),
		errors.Is(err, ErrInvalidWeekday),
		errors.Is(err, ErrInvalidTimeRange),
		errors.Is(err, ErrInvalidGranularity):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

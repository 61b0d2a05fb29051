package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tajtravel/guidehire/internal/service"
)

// AvailabilityHandler serves the read-only calendar views offered to
// requesters before they submit a hire.  Responses are cacheable (the
// Redis cache middleware sits in front of these routes): a slightly
// stale free-day list is harmless because every reservation re-checks
// against the live calendar inside its own transaction.
type AvailabilityHandler struct {
	Service *service.HireService
}

// NewAvailabilityHandler constructs an AvailabilityHandler.
func NewAvailabilityHandler(s *service.HireService) *AvailabilityHandler {
	if s == nil {
		panic("nil service passed to NewAvailabilityHandler")
	}
	return &AvailabilityHandler{Service: s}
}

// GetAvailability handles GET /v1/guides/:id/availability.  It returns
// the guide's free days plus the day rate.  The optional ?currency=XXX
// query parameter converts the displayed rate; unknown codes yield 400.
func (h *AvailabilityHandler) GetAvailability(c echo.Context) error {
	guideID, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid guide id"})
	}
	currency := strings.ToUpper(strings.TrimSpace(c.QueryParam("currency")))
	av, err := h.Service.GuideAvailability(c.Request().Context(), guideID, currency)
	if err != nil {
		return hireError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": av})
}

package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tajtravel/guidehire/internal/pricing"
	"github.com/tajtravel/guidehire/internal/repository"
	"github.com/tajtravel/guidehire/internal/service"
)

// paramID parses a positive uint64 path parameter.
func paramID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id != 0
}

// hireError translates errors from the hire service into HTTP
// responses.  Recoverable conflicts (someone else got there first) map
// to 409 so clients know to refresh and retry; precondition and
// transition failures map to 422; anything unrecognized becomes a
// generic 500 without leaking internals.
func hireError(c echo.Context, err error) error {
	var unavailable *repository.DatesUnavailableError
	if errors.As(err, &unavailable) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":            "dates unavailable",
			"unavailable_days": unavailable.Days,
		})
	}
	var unknownCurrency *pricing.UnknownCurrencyError
	if errors.As(err, &unknownCurrency) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": unknownCurrency.Error()})
	}
	switch {
	case errors.Is(err, repository.ErrGuideNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "guide not found"})
	case errors.Is(err, repository.ErrHireNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "hire not found"})
	case errors.Is(err, repository.ErrGuideNotHireable):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "guide is not hireable"})
	case errors.Is(err, repository.ErrAlreadyProcessed):
		return c.JSON(http.StatusConflict, echo.Map{"error": "already processed by another actor"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflicting update, refresh and retry"})
	case errors.Is(err, repository.ErrInvalidTransition):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid status transition"})
	case errors.Is(err, service.ErrInvalidDays):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": service.ErrInvalidDays.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

package handler

// This file defines the public hire endpoints.  Direct booking commits
// immediately; a hire request only records intent and waits for an
// administrator.  Requesters are identified by the name and contact
// they supply — account management lives in a separate system.

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tajtravel/guidehire/internal/service"
)

// HireHandler exposes the requester-facing reservation operations.
type HireHandler struct {
	Service *service.HireService
}

// NewHireHandler constructs a HireHandler.
func NewHireHandler(s *service.HireService) *HireHandler {
	if s == nil {
		panic("nil service passed to NewHireHandler")
	}
	return &HireHandler{Service: s}
}

// hireRequestBody is the JSON body shared by both hire endpoints.
type hireRequestBody struct {
	RequesterName    string   `json:"requester_name"`
	RequesterContact string   `json:"requester_contact"`
	Days             []string `json:"days"`
	Currency         string   `json:"currency"`
}

func (b *hireRequestBody) validate() string {
	if strings.TrimSpace(b.RequesterName) == "" {
		return "requester_name is required"
	}
	if strings.TrimSpace(b.RequesterContact) == "" {
		return "requester_contact is required"
	}
	if len(b.Days) == 0 {
		return "days is required"
	}
	return ""
}

func (b *hireRequestBody) toInput(guideID uint64) service.HireRequestInput {
	return service.HireRequestInput{
		GuideID:          guideID,
		RequesterName:    strings.TrimSpace(b.RequesterName),
		RequesterContact: strings.TrimSpace(b.RequesterContact),
		Days:             b.Days,
		DisplayCurrency:  strings.ToUpper(strings.TrimSpace(b.Currency)),
	}
}

// RequestDirectHire handles POST /v1/guides/:id/hire.  On success the
// requested days are booked immediately: the response carries a
// confirmed hire record with its frozen quote and the payable order
// reference.  When any requested day was taken first, the response is
// 409 with the exact conflicting days so the client can refresh and
// retry.
func (h *HireHandler) RequestDirectHire(c echo.Context) error {
	guideID, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid guide id"})
	}
	var body hireRequestBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	hire, order, err := h.Service.RequestDirectHire(c.Request().Context(), body.toInput(guideID))
	if err != nil {
		return hireError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"hire":      hire,
		"order_ref": order.OrderRef,
	})
}

// SubmitHireRequest handles POST /v1/guides/:id/hire-requests.  The
// request is recorded as pending without holding any days — two pending
// requests may legitimately name the same day, and only approval
// enforces exclusivity.
func (h *HireHandler) SubmitHireRequest(c echo.Context) error {
	guideID, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid guide id"})
	}
	var body hireRequestBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	hire, err := h.Service.SubmitHireRequest(c.Request().Context(), body.toInput(guideID))
	if err != nil {
		return hireError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"hire": hire})
}

// ListMyHires handles GET /v1/hires?contact=…  It returns the hire
// history recorded under a requester contact, newest first.  An empty
// array is returned when nothing matches.
func (h *HireHandler) ListMyHires(c echo.Context) error {
	contact := strings.TrimSpace(c.QueryParam("contact"))
	if contact == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "contact is required"})
	}
	items, err := h.Service.HistoryByRequester(c.Request().Context(), contact)
	if err != nil {
		return hireError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": items,
		"count": len(items),
	})
}

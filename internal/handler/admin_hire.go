package handler

// This file defines the administrative hire-workflow endpoints.  All
// routes here sit behind JWTAuth and RequireRole("ADMIN") middleware.
// Each action is a guarded transition: when two administrators act on
// the same record concurrently, exactly one wins and the other receives
// a 409 telling them to reload.

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tajtravel/guidehire/internal/model"
	"github.com/tajtravel/guidehire/internal/service"
)

// AdminHireHandler exposes approval, rejection, cancellation,
// completion and payment updates on hire records.
type AdminHireHandler struct {
	Service *service.HireService
}

// NewAdminHireHandler constructs an AdminHireHandler.
func NewAdminHireHandler(s *service.HireService) *AdminHireHandler {
	if s == nil {
		panic("nil service passed to NewAdminHireHandler")
	}
	return &AdminHireHandler{Service: s}
}

// ApproveHire handles POST /v1/hires/:id/approve.  Approval performs
// the same atomic check-and-commit as a direct booking over the
// record's frozen day-set; if any of those days has been taken since
// the request was submitted, the record stays pending and the response
// is 409 with the conflicting days.
func (h *AdminHireHandler) ApproveHire(c echo.Context) error {
	hireID, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hire id"})
	}
	hire, order, err := h.Service.ApproveHire(c.Request().Context(), hireID)
	if err != nil {
		return hireError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"hire":      hire,
		"order_ref": order.OrderRef,
	})
}

// RejectHire handles POST /v1/hires/:id/reject.
func (h *AdminHireHandler) RejectHire(c echo.Context) error {
	return h.release(c, model.StatusRejected)
}

// CancelHire handles POST /v1/hires/:id/cancel.
func (h *AdminHireHandler) CancelHire(c echo.Context) error {
	return h.release(c, model.StatusCancelled)
}

// release applies a rejecting or cancelling transition.  When the
// record held days, the still-future part of its frozen day-set goes
// back into the guide's calendar in the same transaction.
func (h *AdminHireHandler) release(c echo.Context, target model.HireStatus) error {
	hireID, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hire id"})
	}
	hire, err := h.Service.RejectOrCancelHire(c.Request().Context(), hireID, target)
	if err != nil {
		return hireError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"hire": hire})
}

// CompleteHire handles POST /v1/hires/:id/complete.  Completion is the
// normal end of a hire; the consumed days stay out of the calendar.
func (h *AdminHireHandler) CompleteHire(c echo.Context) error {
	hireID, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hire id"})
	}
	hire, err := h.Service.CompleteHire(c.Request().Context(), hireID)
	if err != nil {
		return hireError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"hire": hire})
}

// SetPaymentStatus handles POST /v1/hires/:id/payment with a body of
// {"payment_status": "paid"}.  Only unpaid -> paid -> refunded moves
// are accepted.
func (h *AdminHireHandler) SetPaymentStatus(c echo.Context) error {
	hireID, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hire id"})
	}
	var body struct {
		PaymentStatus string `json:"payment_status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	target := model.PaymentStatus(body.PaymentStatus)
	if !target.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment_status"})
	}
	hire, err := h.Service.SetPaymentStatus(c.Request().Context(), hireID, target)
	if err != nil {
		return hireError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"hire": hire})
}

// ListGuideHires handles GET /v1/guides/:id/hires.  It returns the full
// hire history for a guide, newest first, including terminal records —
// the table is the audit trail.
func (h *AdminHireHandler) ListGuideHires(c echo.Context) error {
	guideID, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid guide id"})
	}
	items, err := h.Service.HistoryByGuide(c.Request().Context(), guideID)
	if err != nil {
		return hireError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": items,
		"count": len(items),
	})
}

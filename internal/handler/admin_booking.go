package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/appointment-booking/internal/model"
	"github.com/iliyamo/appointment-booking/internal/service"
)

// AdminBookingHandler serves the back-office booking views and the
// cancel action.
type AdminBookingHandler struct {
	Queries  *service.QueryService
	Bookings *service.BookingService
}

func NewAdminBookingHandler(q *service.QueryService, b *service.BookingService) *AdminBookingHandler {
	return &AdminBookingHandler{Queries: q, Bookings: b}
}

// List returns bookings joined with their slot, oldest first.
// GET /v1/admin/bookings?slot_date=&q=
func (h *AdminBookingHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()

	items, err := h.Queries.AdminBookings(ctx, c.QueryParam("slot_date"), c.QueryParam("q"))
	if err != nil {
		return respondError(c, err)
	}
	if items == nil {
		items = []model.BookingDetail{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Cancel frees the booking's slot and keeps the row as history.
// POST /v1/admin/bookings/:id/cancel
func (h *AdminBookingHandler) Cancel(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()

	if err := h.Bookings.CancelBooking(ctx, c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": model.BookingStatusCanceled})
}

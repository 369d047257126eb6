package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/appointment-booking/internal/service"
)

// BookingHandler serves the public reservation endpoint.
type BookingHandler struct {
	Bookings *service.BookingService
}

func NewBookingHandler(b *service.BookingService) *BookingHandler {
	return &BookingHandler{Bookings: b}
}

type createBookingReq struct {
	TimeslotID string  `json:"timeslot_id"`
	FullName   string  `json:"full_name"`
	Email      string  `json:"email"`
	Phone      *string `json:"phone"`
	Notes      *string `json:"appointment_notes"`
}

// Create books a slot.
// POST /v1/bookings
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()

	detail, err := h.Bookings.CreateBooking(ctx, service.CreateBookingInput{
		TimeslotID: req.TimeslotID,
		FullName:   req.FullName,
		Email:      req.Email,
		Phone:      req.Phone,
		Notes:      req.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"booking_id":      detail.ID,
		"booking_details": detail,
	})
}

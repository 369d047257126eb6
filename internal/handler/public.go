package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/appointment-booking/internal/model"
	"github.com/iliyamo/appointment-booking/internal/service"
)

// PublicHandler serves the unauthenticated read endpoints backing the
// booking calendar UI.
type PublicHandler struct {
	Queries *service.QueryService
}

func NewPublicHandler(q *service.QueryService) *PublicHandler {
	return &PublicHandler{Queries: q}
}

// Calendar returns the month's per-day availability rollup.
// GET /v1/calendar?year=2023&month=10
func (h *PublicHandler) Calendar(c echo.Context) error {
	year, _ := strconv.Atoi(c.QueryParam("year"))
	month, _ := strconv.Atoi(c.QueryParam("month"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()

	days, err := h.Queries.Calendar(ctx, year, month)
	if err != nil {
		return respondError(c, err)
	}
	if days == nil {
		days = []model.DaySummary{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": days})
}

// DaySlots lists one date's slots, booked ones included.
// GET /v1/slots?date=2023-10-15
func (h *PublicHandler) DaySlots(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()

	slots, err := h.Queries.DaySlots(ctx, c.QueryParam("date"))
	if err != nil {
		return respondError(c, err)
	}
	if slots == nil {
		slots = []model.TimeSlot{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": slots})
}

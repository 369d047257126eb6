package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/appointment-booking/internal/model"
)

// reqTimeout bounds how long a handler waits on the database.
const reqTimeout = 5 * time.Second

// respondError maps service errors onto HTTP statuses. Anything outside
// the known taxonomy is a storage failure and stays opaque to clients.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrSlotNotFound),
		errors.Is(err, model.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrSlotBooked),
		errors.Is(err, model.ErrBookingCanceled),
		errors.Is(err, model.ErrOverlap),
		errors.Is(err, model.ErrSlotHasBooking):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	default:
		c.Logger().Errorf("storage failure: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage failure"})
	}
}

package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/appointment-booking/internal/service"
)

// AdminSlotHandler serves the slot lifecycle endpoints. All routes sit
// behind JWTAuth + RequireRole("ADMIN").
type AdminSlotHandler struct {
	Slots *service.SlotService
}

func NewAdminSlotHandler(s *service.SlotService) *AdminSlotHandler {
	return &AdminSlotHandler{Slots: s}
}

type createSlotReq struct {
	SlotDate  string `json:"slot_date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type updateSlotReq struct {
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
}

// Create adds a free slot.
// POST /v1/admin/slots
func (h *AdminSlotHandler) Create(c echo.Context) error {
	var req createSlotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()

	slot, err := h.Slots.Create(ctx, req.SlotDate, req.StartTime, req.EndTime)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, slot)
}

// UpdateTimes edits a slot's interval; absent fields keep their value.
// PATCH /v1/admin/slots/:id
func (h *AdminSlotHandler) UpdateTimes(c echo.Context) error {
	var req updateSlotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()

	slot, err := h.Slots.UpdateTimes(ctx, c.Param("id"), req.StartTime, req.EndTime)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, slot)
}

// Delete removes a slot with no active booking.
// DELETE /v1/admin/slots/:id
func (h *AdminSlotHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()

	if err := h.Slots.Delete(ctx, c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

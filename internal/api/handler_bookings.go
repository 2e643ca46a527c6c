package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"campus-services-backend/internal/model"
	"campus-services-backend/internal/mw"
	"campus-services-backend/internal/store"
)

type createBookingRequest struct {
	Room      string `json:"room" binding:"required"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
}

// CreateBooking handles POST /api/bookings. The booking is created pending;
// the conflict check and the insert run in one store transaction.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}
	start, err := model.ParseClock(req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start time, expected HH:MM"})
		return
	}
	end, err := model.ParseClock(req.EndTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end time, expected HH:MM"})
		return
	}
	if !start.Before(end) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Start time must be before end time."})
		return
	}

	if _, err := h.store.GetRoomByName(c.Request.Context(), req.Room); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up room"})
		return
	}

	// The stored strings must be canonical ("2006-01-02", zero-padded "15:04"):
	// the conflict predicate and the delete guard compare them lexically.
	booking := model.Booking{
		RoomName:  req.Room,
		UserID:    mw.UserID(c),
		Date:      date.Format("2006-01-02"),
		StartTime: start.Format("15:04"),
		EndTime:   end.Format("15:04"),
		Status:    model.BookingStatusPending,
	}

	if err := h.store.CreateBooking(c.Request.Context(), &booking); err != nil {
		if errors.Is(err, store.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Time conflict with an existing booking"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// ListBookings handles GET /api/bookings with optional room, date and status
// filters. Non-admin callers only see their own bookings.
func (h *Handler) ListBookings(c *gin.Context) {
	filter := store.BookingFilter{
		RoomName: c.Query("room"),
		Date:     c.Query("date"),
	}
	if status := c.Query("status"); status != "" {
		if !model.ValidBookingStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		filter.Statuses = []string{status}
	}
	if mw.Role(c) != model.RoleAdmin {
		filter.UserID = mw.UserID(c)
	}

	bookings, err := h.store.ListBookings(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve bookings"})
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// ListRoomBookings handles GET /api/rooms/:name/bookings.
func (h *Handler) ListRoomBookings(c *gin.Context) {
	if _, err := h.store.GetRoomByName(c.Request.Context(), c.Param("name")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up room"})
		return
	}

	bookings, err := h.store.ListBookings(c.Request.Context(), store.BookingFilter{
		RoomName: c.Param("name"),
		Date:     c.Query("date"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve bookings"})
		return
	}
	c.JSON(http.StatusOK, bookings)
}

type updateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateBookingStatus handles PATCH /api/bookings/:id/status. Confirming
// re-checks conflicts against confirmed bookings only; cancelling never
// deletes the row. A status change dispatches a fire-and-forget notification.
func (h *Handler) UpdateBookingStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	var req updateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !model.ValidBookingStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	booking, err := h.store.UpdateBookingStatus(c.Request.Context(), id, req.Status)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Time conflict with a confirmed booking"})
		return
	case errors.Is(err, store.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status transition"})
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update booking"})
		return
	}

	if h.notifier != nil {
		h.notifier.Dispatch(booking.ID)
	}
	c.JSON(http.StatusOK, booking)
}

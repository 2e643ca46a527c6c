package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campus-services-backend/internal/model"
	"campus-services-backend/internal/store"
)

type maintenanceWindowRequest struct {
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
}

type createRoomRequest struct {
	Name               string                     `json:"name" binding:"required"`
	Capacity           int                        `json:"capacity" binding:"required"`
	MaintenanceWindows []maintenanceWindowRequest `json:"maintenanceWindows"`
}

// CreateRoom handles POST /api/rooms.
func (h *Handler) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Capacity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Capacity must be a positive integer"})
		return
	}

	room := model.Room{Name: req.Name, Capacity: req.Capacity}
	for _, w := range req.MaintenanceWindows {
		start, err := time.Parse("2006-01-02", w.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid maintenance start date: " + w.StartDate})
			return
		}
		end, err := time.Parse("2006-01-02", w.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid maintenance end date: " + w.EndDate})
			return
		}
		if start.After(end) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Maintenance start date must not be after end date"})
			return
		}
		room.MaintenanceWindows = append(room.MaintenanceWindows, model.MaintenanceWindow{StartDate: start, EndDate: end})
	}

	if err := h.store.CreateRoom(c.Request.Context(), &room); err != nil {
		if errors.Is(err, store.ErrDuplicateRoom) {
			c.JSON(http.StatusConflict, gin.H{"error": "Room already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create room"})
		return
	}

	c.JSON(http.StatusCreated, room)
}

// ListRooms handles GET /api/rooms.
func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.store.ListRooms(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rooms"})
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// DeleteRoom handles DELETE /api/rooms/:name. Rooms with bookings that still
// end in the future cannot be deleted.
func (h *Handler) DeleteRoom(c *gin.Context) {
	err := h.store.DeleteRoom(c.Request.Context(), c.Param("name"), time.Now())
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
	case errors.Is(err, store.ErrRoomInUse):
		c.JSON(http.StatusConflict, gin.H{"error": "Room has upcoming bookings and cannot be deleted"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete room"})
	}
}

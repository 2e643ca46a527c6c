package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"campus-services-backend/internal/model"
	"campus-services-backend/internal/store"
)

// ListTimetable handles GET /api/timetable with optional room and day filters.
func (h *Handler) ListTimetable(c *gin.Context) {
	var filter store.TimetableFilter

	if roomName := c.Query("room"); roomName != "" {
		room, err := h.store.GetRoomByName(c.Request.Context(), roomName)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up room"})
			return
		}
		filter.RoomID = room.ID
	}
	if day := c.Query("day"); day != "" {
		if !model.ValidWeekday(day) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid day: " + day})
			return
		}
		filter.Day = day
	}

	entries, err := h.store.ListTimetableEntries(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve timetable"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

type createTimetableEntryRequest struct {
	CourseName string   `json:"courseName" binding:"required"`
	Day        string   `json:"day" binding:"required"`
	Room       string   `json:"room" binding:"required"`
	UserEmails []string `json:"userEmails" binding:"required"`
	StartTime  string   `json:"startTime" binding:"required"`
	EndTime    string   `json:"endTime" binding:"required"`
}

// CreateTimetableEntry handles POST /api/timetable. The same validation rules
// govern single inserts and bulk import rows.
func (h *Handler) CreateTimetableEntry(c *gin.Context) {
	var req createTimetableEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(strings.TrimSpace(req.CourseName)) < 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Course name must be at least 3 characters"})
		return
	}
	if !model.ValidWeekday(req.Day) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid day: " + req.Day})
		return
	}

	room, err := h.store.GetRoomByName(c.Request.Context(), req.Room)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found: " + req.Room})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up room"})
		return
	}

	seen := make(map[string]bool, len(req.UserEmails))
	var emails []string
	for _, e := range req.UserEmails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" && !seen[e] {
			seen[e] = true
			emails = append(emails, e)
		}
	}
	if len(emails) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one user email is required"})
		return
	}
	users, err := h.store.GetUsersByEmails(c.Request.Context(), emails)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up users"})
		return
	}
	found := make(map[string]bool, len(users))
	for _, u := range users {
		found[strings.ToLower(u.Email)] = true
	}
	var missing []string
	for _, e := range emails {
		if !found[e] {
			missing = append(missing, e)
		}
	}
	if len(missing) > 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Users not found: " + strings.Join(missing, ", ")})
		return
	}

	start, err := model.ParseClock(req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start time: " + req.StartTime})
		return
	}
	end, err := model.ParseClock(req.EndTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end time: " + req.EndTime})
		return
	}
	if !start.Before(end) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Start time must be before end time."})
		return
	}

	entry := model.TimetableEntry{
		CourseName: strings.TrimSpace(req.CourseName),
		RoomID:     room.ID,
		Day:        req.Day,
		StartTime:  start,
		EndTime:    end,
		Users:      users,
	}
	if err := h.store.CreateTimetableEntry(c.Request.Context(), &entry); err != nil {
		if errors.Is(err, store.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Time conflict with an existing timetable entry"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create timetable entry"})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

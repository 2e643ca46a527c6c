package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-services-backend/internal/importer"
	"campus-services-backend/internal/mw"
)

// importBody returns the CSV payload: the "file" part of a multipart form
// when one is present, otherwise the raw request body.
func importBody(c *gin.Context) (io.ReadCloser, error) {
	if file, err := c.FormFile("file"); err == nil {
		return file.Open()
	}
	return c.Request.Body, nil
}

// ImportRooms handles POST /api/import/rooms?skip_duplicates=true|false.
// The response is always the structured import result; a batch where nothing
// was created maps to 400, partial success to 200.
func (h *Handler) ImportRooms(c *gin.Context) {
	body, err := importBody(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read upload"})
		return
	}
	defer body.Close()

	skipDuplicates := c.Query("skip_duplicates") == "true"
	result, err := h.importer.ImportRooms(c.Request.Context(), body, skipDuplicates)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Room import failed"})
		return
	}

	status := http.StatusOK
	if !result.Succeeded {
		status = http.StatusBadRequest
	}
	c.JSON(status, result)
}

// ImportTimetable handles POST /api/import/timetable. The importer itself
// refuses non-admin callers before reading any row.
func (h *Handler) ImportTimetable(c *gin.Context) {
	body, err := importBody(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read upload"})
		return
	}
	defer body.Close()

	result, err := h.importer.ImportTimetables(c.Request.Context(), body, mw.Role(c))
	if err != nil {
		if errors.Is(err, importer.ErrNotAdmin) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Administrator role required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Timetable import failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"campus-services-backend/internal/model"
	"campus-services-backend/internal/store"
)

// RowError captures a single failed row of a room import.
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// RoomImportResult is the outcome of a room CSV import. Partial success is
// still a success: Succeeded is false only when no room at all was created
// (and the file was not a pure re-import under skip-duplicates mode).
type RoomImportResult struct {
	Succeeded bool         `json:"success"`
	Message   string       `json:"message"`
	Created   []model.Room `json:"created"`
	Errors    []RowError   `json:"errors"`
}

const roomDuplicateMsg = "Room already exists"

// ImportRooms reads a CSV with columns name,capacity,maintenanceStart,
// maintenanceEnd. The header row is always skipped. Duplicate names are
// skipped silently when skipDuplicates is set, otherwise recorded as row
// errors. Only a store failure aborts the batch.
func (i *Importer) ImportRooms(ctx context.Context, r io.Reader, skipDuplicates bool) (*RoomImportResult, error) {
	cr := newCSVReader(r)

	// Header row.
	if _, err := cr.Read(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	result := &RoomImportResult{
		Created: []model.Room{},
		Errors:  []RowError{},
	}
	duplicateErrors := 0

	for row := 1; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: row, Error: "Malformed CSV row"})
			continue
		}
		if i.maxRows > 0 && row > i.maxRows {
			result.Errors = append(result.Errors, RowError{Row: row, Error: fmt.Sprintf("Import limited to %d rows", i.maxRows)})
			break
		}

		room, rowErr := parseRoomRow(record)
		if rowErr != "" {
			result.Errors = append(result.Errors, RowError{Row: row, Error: rowErr})
			continue
		}

		err = i.store.CreateRoom(ctx, room)
		switch {
		case err == nil:
			result.Created = append(result.Created, *room)
		case errors.Is(err, store.ErrDuplicateRoom):
			if !skipDuplicates {
				result.Errors = append(result.Errors, RowError{Row: row, Error: roomDuplicateMsg})
				duplicateErrors++
			}
		default:
			return nil, err
		}
	}

	summarizeRoomImport(result, duplicateErrors)
	return result, nil
}

func summarizeRoomImport(result *RoomImportResult, duplicateErrors int) {
	if len(result.Created) > 0 {
		result.Succeeded = true
		result.Message = fmt.Sprintf("Imported %d rooms", len(result.Created))
		return
	}
	switch {
	case len(result.Errors) == 0:
		// Nothing created and nothing wrong: an empty file, or every row was
		// silently skipped as a duplicate.
		result.Succeeded = true
		result.Message = "No new rooms to import"
	case duplicateErrors == len(result.Errors):
		result.Message = "All rooms in the file already exist"
	default:
		result.Message = "No rooms were imported"
	}
}

// parseRoomRow validates one data row. It returns the room to insert, or a
// non-empty error message describing the first failed check.
func parseRoomRow(record []string) (*model.Room, string) {
	if len(record) < 2 {
		return nil, "Expected columns: name, capacity, maintenanceStart, maintenanceEnd"
	}

	name := strings.TrimSpace(record[0])
	if name == "" {
		return nil, "Room name is required"
	}

	capacity, err := strconv.Atoi(strings.TrimSpace(record[1]))
	if err != nil || capacity < 1 {
		return nil, "Capacity must be a positive integer"
	}

	room := &model.Room{Name: name, Capacity: capacity}

	maintStart, maintEnd := "", ""
	if len(record) > 2 {
		maintStart = strings.TrimSpace(record[2])
	}
	if len(record) > 3 {
		maintEnd = strings.TrimSpace(record[3])
	}
	if maintStart == "" && maintEnd == "" {
		return room, ""
	}
	if maintStart == "" || maintEnd == "" {
		return nil, "Maintenance start and end dates must both be provided"
	}

	start, err := time.Parse("2006-01-02", maintStart)
	if err != nil {
		return nil, fmt.Sprintf("Invalid maintenance start date: %s", maintStart)
	}
	end, err := time.Parse("2006-01-02", maintEnd)
	if err != nil {
		return nil, fmt.Sprintf("Invalid maintenance end date: %s", maintEnd)
	}
	if start.After(end) {
		return nil, "Maintenance start date must not be after end date"
	}

	room.MaintenanceWindows = []model.MaintenanceWindow{{StartDate: start, EndDate: end}}
	return room, ""
}

package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"campus-services-backend/internal/model"
	"campus-services-backend/internal/store"
)

// TimetableImportResult is the outcome of a timetable CSV import.
type TimetableImportResult struct {
	CreatedCount int      `json:"createdCount"`
	Errors       []string `json:"errors"`
}

// ImportTimetables reads a CSV with columns courseName,day,roomName,
// userEmails,startTime,endTime, where userEmails is ';'-separated. Only
// administrators may import; the role is checked before any row is read.
// Row numbers in error messages are 1-based over data rows.
func (i *Importer) ImportTimetables(ctx context.Context, r io.Reader, actorRole string) (*TimetableImportResult, error) {
	if actorRole != model.RoleAdmin {
		return nil, ErrNotAdmin
	}

	cr := newCSVReader(r)
	if _, err := cr.Read(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	result := &TimetableImportResult{Errors: []string{}}

	for row := 1; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: Malformed CSV row", row))
			continue
		}
		if i.maxRows > 0 && row > i.maxRows {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: Import limited to %d rows", row, i.maxRows))
			break
		}

		entry, rowErr, err := i.buildTimetableEntry(ctx, record)
		if err != nil {
			return nil, err
		}
		if rowErr != "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %s", row, rowErr))
			continue
		}

		err = i.store.CreateTimetableEntry(ctx, entry)
		switch {
		case err == nil:
			result.CreatedCount++
		case errors.Is(err, store.ErrConflict):
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: Time conflict with an existing timetable entry", row))
		default:
			return nil, err
		}
	}

	return result, nil
}

// buildTimetableEntry validates one data row, in the documented order. The
// middle return value is a row-level message; the last is a store failure
// that must abort the batch.
func (i *Importer) buildTimetableEntry(ctx context.Context, record []string) (*model.TimetableEntry, string, error) {
	if len(record) < 6 {
		return nil, "Expected columns: courseName, day, roomName, userEmails, startTime, endTime", nil
	}

	courseName := strings.TrimSpace(record[0])
	if len(courseName) < 3 {
		return nil, "Course name must be at least 3 characters", nil
	}

	day, ok := canonicalWeekday(record[1])
	if !ok {
		return nil, fmt.Sprintf("Invalid day: %s", strings.TrimSpace(record[1])), nil
	}

	roomName := strings.TrimSpace(record[2])
	room, err := i.store.GetRoomByName(ctx, roomName)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Sprintf("Room not found: %s", roomName), nil
	}
	if err != nil {
		return nil, "", err
	}

	users, missing, err := i.resolveUsers(ctx, record[3])
	if err != nil {
		return nil, "", err
	}
	if len(users) == 0 && len(missing) == 0 {
		return nil, "At least one user email is required", nil
	}
	if len(missing) > 0 {
		return nil, fmt.Sprintf("Users not found: %s", strings.Join(missing, ", ")), nil
	}

	start, err := model.ParseClock(record[4])
	if err != nil {
		return nil, fmt.Sprintf("Invalid start time: %s", strings.TrimSpace(record[4])), nil
	}
	end, err := model.ParseClock(record[5])
	if err != nil {
		return nil, fmt.Sprintf("Invalid end time: %s", strings.TrimSpace(record[5])), nil
	}
	if !start.Before(end) {
		return nil, "Start time must be before end time.", nil
	}

	return &model.TimetableEntry{
		CourseName: courseName,
		RoomID:     room.ID,
		Day:        day,
		StartTime:  start,
		EndTime:    end,
		Users:      users,
	}, "", nil
}

// resolveUsers splits a ';'-separated email list and looks every address up,
// reporting exactly which ones are unknown.
func (i *Importer) resolveUsers(ctx context.Context, field string) ([]model.User, []string, error) {
	var emails []string
	for _, e := range strings.Split(field, ";") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			emails = append(emails, e)
		}
	}
	if len(emails) == 0 {
		return nil, nil, nil
	}

	users, err := i.store.GetUsersByEmails(ctx, emails)
	if err != nil {
		return nil, nil, err
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
	return users, missing, nil
}

func canonicalWeekday(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, d := range model.Weekdays {
		if strings.EqualFold(s, d) {
			return d, true
		}
	}
	return "", false
}

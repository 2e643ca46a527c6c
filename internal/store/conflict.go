package store

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"campus-services-backend/internal/model"
)

// bookingConflicts reports whether any booking with one of the given statuses
// occupies an interval overlapping [start, end] for the room and date.
//
// The boundary rule is inclusive on both ends: a booking ending exactly when
// another starts counts as a conflict. Timetable entries use the exclusive
// rule instead (see timetableConflicts).
//
// The predicates run against the db handle passed in, so callers inside a
// transaction see rows written earlier in the same transaction. A query
// failure is always returned as an error, never as "no conflict".
func bookingConflicts(db *gorm.DB, room, date, start, end string, excludeID int64, statuses []string) (bool, error) {
	q := db.Model(&model.Booking{}).
		Where("room_name = ? AND date = ?", room, date).
		Where("status IN ?", statuses).
		Where("start_time <= ? AND end_time >= ?", end, start)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check booking conflicts for room %s on %s: %w", room, date, err)
	}
	return count > 0, nil
}

// timetableConflicts reports whether any timetable entry for the room and day
// overlaps [start, end). Back-to-back entries touching at a boundary do not
// conflict.
func timetableConflicts(db *gorm.DB, roomID int64, day string, start, end time.Time) (bool, error) {
	var count int64
	err := db.Model(&model.TimetableEntry{}).
		Where("room_id = ? AND day = ?", roomID, day).
		Where("start_time < ? AND end_time > ?", end, start).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check timetable conflicts for room %d on %s: %w", roomID, day, err)
	}
	return count > 0, nil
}

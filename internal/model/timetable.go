package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Weekdays enumerates the accepted day names, in timetable order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// ValidWeekday reports whether day is one of the seven weekday names.
func ValidWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// TimetableEntry is a recurring weekly slot for a course in a room. StartTime
// and EndTime carry only the time of day; they are anchored to a fixed
// reference date so interval comparisons stay meaningful.
type TimetableEntry struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	CourseName string    `gorm:"size:256;not null" json:"courseName"`
	RoomID     int64     `gorm:"index:idx_timetable_room_day;not null" json:"roomId"`
	Day        string    `gorm:"index:idx_timetable_room_day;size:16;not null" json:"day"`
	StartTime  time.Time `gorm:"not null" json:"startTime"`
	EndTime    time.Time `gorm:"not null" json:"endTime"`
	CreatedAt  time.Time `gorm:"not null" json:"-"`
	UpdatedAt  time.Time `gorm:"not null" json:"-"`

	// Associations
	Users []User `gorm:"many2many:timetable_entry_users;" json:"users,omitempty"`
}

// clock times are anchored to this date so that two "HH:MM" values from
// different rows compare on the time component alone.
var clockAnchor = time.Date(2000, time.January, 3, 0, 0, 0, 0, time.UTC)

// ClockTime returns the anchored timestamp for an hour and minute of day.
func ClockTime(hour, minute int) time.Time {
	return clockAnchor.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// ParseClock parses a "HH:MM" time-of-day string into an anchored timestamp.
func ParseClock(s string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return time.Time{}, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return time.Time{}, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	return ClockTime(hour, minute), nil
}

package model

import "time"

// Booking statuses. A booking is created pending and is later confirmed or
// cancelled by an administrator; it is never hard-deleted.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// NonCancelledStatuses are the statuses that count as obstacles when a new
// booking is checked for conflicts.
var NonCancelledStatuses = []string{BookingStatusPending, BookingStatusConfirmed}

// Booking reserves a room for a [StartTime, EndTime] slot on a calendar date.
// Date is stored as "2006-01-02" and the times as "15:04" so that interval
// predicates can compare them lexically in SQL.
type Booking struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Reference string    `gorm:"uniqueIndex;size:36;not null" json:"reference"`
	RoomName  string    `gorm:"index:idx_bookings_room_date;size:128;not null" json:"room"`
	UserID    int64     `gorm:"index;not null" json:"userId"`
	Date      string    `gorm:"index:idx_bookings_room_date;size:10;not null" json:"date"`
	StartTime string    `gorm:"size:5;not null" json:"startTime"`
	EndTime   string    `gorm:"size:5;not null" json:"endTime"`
	Status    string    `gorm:"size:16;not null;default:pending" json:"status"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"-"`
}

// ValidBookingStatus reports whether s is a recognized booking status.
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

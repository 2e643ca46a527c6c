package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"campus-services-backend/internal/model"
)

// BookingFilter narrows booking listings.
type BookingFilter struct {
	RoomName string
	Date     string
	Statuses []string
	UserID   int64
}

// TimetableFilter narrows timetable listings.
type TimetableFilter struct {
	RoomID int64
	Day    string
}

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	CreateRoom(ctx context.Context, room *model.Room) error
	GetRoomByName(ctx context.Context, name string) (*model.Room, error)
	ListRooms(ctx context.Context) ([]model.Room, error)
	DeleteRoom(ctx context.Context, name string, now time.Time) error

	CreateBooking(ctx context.Context, booking *model.Booking) error
	GetBooking(ctx context.Context, id int64) (*model.Booking, error)
	ListBookings(ctx context.Context, f BookingFilter) ([]model.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, status string) (*model.Booking, error)
	HasBookingConflict(ctx context.Context, room, date, start, end string, excludeID int64, statuses []string) (bool, error)

	CreateTimetableEntry(ctx context.Context, entry *model.TimetableEntry) error
	ListTimetableEntries(ctx context.Context, f TimetableFilter) ([]model.TimetableEntry, error)
	HasTimetableConflict(ctx context.Context, roomID int64, day string, start, end time.Time) (bool, error)

	GetUsersByEmails(ctx context.Context, emails []string) ([]model.User, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// --- Rooms ---

// CreateRoom inserts a room and its maintenance windows. Room names are
// unique; a clash is reported as ErrDuplicateRoom.
func (s *gormStore) CreateRoom(ctx context.Context, room *model.Room) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Room{}).Where("name = ?", room.Name).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check room name %s: %w", room.Name, err)
		}
		if count > 0 {
			return ErrDuplicateRoom
		}
		if err := tx.Create(room).Error; err != nil {
			return fmt.Errorf("failed to create room %s: %w", room.Name, err)
		}
		return nil
	})
}

func (s *gormStore) GetRoomByName(ctx context.Context, name string) (*model.Room, error) {
	var room model.Room
	err := s.db.WithContext(ctx).Preload("MaintenanceWindows", func(db *gorm.DB) *gorm.DB {
		return db.Order("start_date ASC")
	}).Where("name = ?", name).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch room %s: %w", name, err)
	}
	return &room, nil
}

func (s *gormStore) ListRooms(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	err := s.db.WithContext(ctx).Preload("MaintenanceWindows", func(db *gorm.DB) *gorm.DB {
		return db.Order("start_date ASC")
	}).Order("name ASC").Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

// DeleteRoom removes a room together with its maintenance windows and
// timetable entries. Deletion is blocked with ErrRoomInUse while any
// non-cancelled booking for the room still ends in the future.
func (s *gormStore) DeleteRoom(ctx context.Context, name string, now time.Time) error {
	today := now.Format("2006-01-02")
	clock := now.Format("15:04")

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room model.Room
		if err := tx.Where("name = ?", name).First(&room).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to fetch room %s: %w", name, err)
		}

		var upcoming int64
		err := tx.Model(&model.Booking{}).
			Where("room_name = ? AND status <> ?", name, model.BookingStatusCancelled).
			Where("date > ? OR (date = ? AND end_time > ?)", today, today, clock).
			Count(&upcoming).Error
		if err != nil {
			return fmt.Errorf("failed to check upcoming bookings for room %s: %w", name, err)
		}
		if upcoming > 0 {
			return ErrRoomInUse
		}

		if err := tx.Where("room_id = ?", room.ID).Delete(&model.MaintenanceWindow{}).Error; err != nil {
			return fmt.Errorf("failed to delete maintenance windows for room %s: %w", name, err)
		}
		if err := tx.Where("room_id = ?", room.ID).Delete(&model.TimetableEntry{}).Error; err != nil {
			return fmt.Errorf("failed to delete timetable entries for room %s: %w", name, err)
		}
		if err := tx.Delete(&room).Error; err != nil {
			return fmt.Errorf("failed to delete room %s: %w", name, err)
		}
		return nil
	})
}

// --- Bookings ---

// CreateBooking inserts a booking after checking for overlaps with
// non-cancelled bookings. The check and the insert run in one transaction so
// concurrent requests cannot both pass the check and commit.
func (s *gormStore) CreateBooking(ctx context.Context, booking *model.Booking) error {
	if booking.Status == "" {
		booking.Status = model.BookingStatusPending
	}
	if booking.Reference == "" {
		booking.Reference = uuid.NewString()
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conflict, err := bookingConflicts(tx, booking.RoomName, booking.Date, booking.StartTime, booking.EndTime, 0, model.NonCancelledStatuses)
		if err != nil {
			return err
		}
		if conflict {
			return ErrConflict
		}
		if err := tx.Create(booking).Error; err != nil {
			return fmt.Errorf("failed to create booking for room %s: %w", booking.RoomName, err)
		}
		return nil
	})
}

func (s *gormStore) GetBooking(ctx context.Context, id int64) (*model.Booking, error) {
	var booking model.Booking
	err := s.db.WithContext(ctx).First(&booking, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking %d: %w", id, err)
	}
	return &booking, nil
}

func (s *gormStore) ListBookings(ctx context.Context, f BookingFilter) ([]model.Booking, error) {
	q := s.db.WithContext(ctx).Model(&model.Booking{})
	if f.RoomName != "" {
		q = q.Where("room_name = ?", f.RoomName)
	}
	if f.Date != "" {
		q = q.Where("date = ?", f.Date)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if f.UserID > 0 {
		q = q.Where("user_id = ?", f.UserID)
	}

	var bookings []model.Booking
	if err := q.Order("date ASC, start_time ASC").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// UpdateBookingStatus transitions a booking. Confirmation re-checks overlaps
// against confirmed bookings only, excluding the booking itself; cancellation
// is always allowed from a non-cancelled state. Bookings are never deleted.
func (s *gormStore) UpdateBookingStatus(ctx context.Context, id int64, status string) (*model.Booking, error) {
	var booking model.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to fetch booking %d: %w", id, err)
		}

		switch status {
		case model.BookingStatusConfirmed:
			if booking.Status != model.BookingStatusPending {
				return ErrInvalidTransition
			}
			conflict, err := bookingConflicts(tx, booking.RoomName, booking.Date, booking.StartTime, booking.EndTime, booking.ID, []string{model.BookingStatusConfirmed})
			if err != nil {
				return err
			}
			if conflict {
				return ErrConflict
			}
		case model.BookingStatusCancelled:
			if booking.Status == model.BookingStatusCancelled {
				return ErrInvalidTransition
			}
		default:
			return ErrInvalidTransition
		}

		booking.Status = status
		if err := tx.Save(&booking).Error; err != nil {
			return fmt.Errorf("failed to update booking %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (s *gormStore) HasBookingConflict(ctx context.Context, room, date, start, end string, excludeID int64, statuses []string) (bool, error) {
	return bookingConflicts(s.db.WithContext(ctx), room, date, start, end, excludeID, statuses)
}

// --- Timetable ---

// CreateTimetableEntry inserts an entry after checking for overlaps with
// existing entries for the same room and day, in one transaction.
func (s *gormStore) CreateTimetableEntry(ctx context.Context, entry *model.TimetableEntry) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conflict, err := timetableConflicts(tx, entry.RoomID, entry.Day, entry.StartTime, entry.EndTime)
		if err != nil {
			return err
		}
		if conflict {
			return ErrConflict
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to create timetable entry for room %d: %w", entry.RoomID, err)
		}
		return nil
	})
}

func (s *gormStore) ListTimetableEntries(ctx context.Context, f TimetableFilter) ([]model.TimetableEntry, error) {
	q := s.db.WithContext(ctx).Model(&model.TimetableEntry{}).Preload("Users")
	if f.RoomID > 0 {
		q = q.Where("room_id = ?", f.RoomID)
	}
	if f.Day != "" {
		q = q.Where("day = ?", f.Day)
	}

	var entries []model.TimetableEntry
	if err := q.Order("day ASC, start_time ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list timetable entries: %w", err)
	}
	return entries, nil
}

func (s *gormStore) HasTimetableConflict(ctx context.Context, roomID int64, day string, start, end time.Time) (bool, error) {
	return timetableConflicts(s.db.WithContext(ctx), roomID, day, start, end)
}

// --- Users ---

// GetUsersByEmails matches case-insensitively; callers pass lowercased emails.
func (s *gormStore) GetUsersByEmails(ctx context.Context, emails []string) ([]model.User, error) {
	if len(emails) == 0 {
		return nil, nil
	}
	var users []model.User
	if err := s.db.WithContext(ctx).Where("lower(email) IN ?", emails).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch users by email: %w", err)
	}
	return users, nil
}

package model

import "time"

// Room represents a bookable campus room.
type Room struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:128;not null" json:"name"`
	Capacity  int       `gorm:"not null" json:"capacity"`
	CreatedAt time.Time `gorm:"not null" json:"-"`
	UpdatedAt time.Time `gorm:"not null" json:"-"`

	// Associations
	MaintenanceWindows []MaintenanceWindow `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"maintenanceWindows,omitempty"`
}

// MaintenanceWindow is a closed date interval during which a room is out of
// service. Windows are kept ordered by start date.
type MaintenanceWindow struct {
	ID        int64     `gorm:"primaryKey" json:"-"`
	RoomID    int64     `gorm:"index;not null" json:"-"`
	StartDate time.Time `gorm:"not null" json:"startDate"`
	EndDate   time.Time `gorm:"not null" json:"endDate"`
	CreatedAt time.Time `json:"-"`
}

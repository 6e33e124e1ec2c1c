package domain

import "time"

const (
	WorkspaceActive   = "active"
	WorkspaceInactive = "inactive"
)

// Workspace is a bookable listing owned by a user.
type Workspace struct {
	ID          string
	Name        string
	Location    string
	Capacity    string
	Amenities   []string
	Price       float64
	Description string
	CreatedBy   string
	Image       string
	Status      string
	Bookings    []Booking
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Booking struct {
	Date    time.Time
	GuestID string
}

// ToggledStatus returns the opposite listing status.
func ToggledStatus(s string) string {
	if s == WorkspaceActive {
		return WorkspaceInactive
	}
	return WorkspaceActive
}

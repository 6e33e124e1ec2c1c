package dto

import (
	"time"

	"github.com/deskhive/deskhive/internal/domain"
)

type CreateWorkspaceRequest struct {
	Name        string   `json:"name" validate:"required"`
	Location    string   `json:"location" validate:"required"`
	Capacity    string   `json:"capacity" validate:"required"`
	Amenities   []string `json:"amenities"`
	Price       float64  `json:"price" validate:"gte=0"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
}

func (r *CreateWorkspaceRequest) Validate() error { return checkStruct(r) }

type UpdateWorkspaceRequest struct {
	Name        *string   `json:"name,omitempty"`
	Location    *string   `json:"location,omitempty"`
	Capacity    *string   `json:"capacity,omitempty"`
	Amenities   *[]string `json:"amenities,omitempty"`
	Price       *float64  `json:"price,omitempty" validate:"omitempty,gte=0"`
	Description *string   `json:"description,omitempty"`
	Image       *string   `json:"image,omitempty"`
}

func (r *UpdateWorkspaceRequest) Validate() error { return checkStruct(r) }

type BookingView struct {
	Date    time.Time `json:"date"`
	GuestID string    `json:"guestId"`
}

type WorkspaceView struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Location    string        `json:"location"`
	Capacity    string        `json:"capacity"`
	Amenities   []string      `json:"amenities"`
	Price       float64       `json:"price"`
	Description string        `json:"description,omitempty"`
	CreatedBy   string        `json:"createdBy"`
	Image       string        `json:"image,omitempty"`
	Status      string        `json:"status"`
	Bookings    []BookingView `json:"bookings"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

func ToWorkspaceView(w domain.Workspace) WorkspaceView {
	amenities := w.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	bookings := make([]BookingView, 0, len(w.Bookings))
	for _, b := range w.Bookings {
		bookings = append(bookings, BookingView{Date: b.Date, GuestID: b.GuestID})
	}
	return WorkspaceView{
		ID:          w.ID,
		Name:        w.Name,
		Location:    w.Location,
		Capacity:    w.Capacity,
		Amenities:   amenities,
		Price:       w.Price,
		Description: w.Description,
		CreatedBy:   w.CreatedBy,
		Image:       w.Image,
		Status:      w.Status,
		Bookings:    bookings,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

func ToWorkspaceViews(ws []domain.Workspace) []WorkspaceView {
	out := make([]WorkspaceView, 0, len(ws))
	for _, w := range ws {
		out = append(out, ToWorkspaceView(w))
	}
	return out
}

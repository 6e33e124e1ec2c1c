package listing

import (
	"context"

	"github.com/deskhive/deskhive/internal/domain"
)

// WorkspaceStore is the persistence port for bookable listings.
type WorkspaceStore interface {
	Create(ctx context.Context, w domain.Workspace) (domain.Workspace, error)
	GetByID(ctx context.Context, id string) (domain.Workspace, error)
	ListByCreator(ctx context.Context, userID string) ([]domain.Workspace, error)
	ListActive(ctx context.Context) ([]domain.Workspace, error)
	Update(ctx context.Context, id string, upd WorkspaceUpdate) (domain.Workspace, error)
	SetStatus(ctx context.Context, id, status string) (domain.Workspace, error)
}

// WorkspaceUpdate lists mutable listing fields. Nil means unchanged.
type WorkspaceUpdate struct {
	Name        *string
	Location    *string
	Capacity    *string
	Amenities   *[]string
	Price       *float64
	Description *string
	Image       *string
}

package listing

import (
	"context"

	"github.com/google/uuid"

	"github.com/deskhive/deskhive/internal/domain"
)

type Service struct {
	workspaces WorkspaceStore
}

func NewService(workspaces WorkspaceStore) *Service {
	return &Service{workspaces: workspaces}
}

type CreateInput struct {
	Name        string
	Location    string
	Capacity    string
	Amenities   []string
	Price       float64
	Description string
	Image       string
}

func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (domain.Workspace, error) {
	if in.Name == "" {
		return domain.Workspace{}, domain.ErrMissingField("name")
	}
	if in.Location == "" {
		return domain.Workspace{}, domain.ErrMissingField("location")
	}
	if in.Capacity == "" {
		return domain.Workspace{}, domain.ErrMissingField("capacity")
	}
	if in.Price < 0 {
		return domain.Workspace{}, domain.ErrInvalidField("price", "must be >= 0")
	}

	w := domain.Workspace{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Location:    in.Location,
		Capacity:    in.Capacity,
		Amenities:   in.Amenities,
		Price:       in.Price,
		Description: in.Description,
		CreatedBy:   ownerID,
		Image:       in.Image,
		Status:      domain.WorkspaceActive,
	}
	return s.workspaces.Create(ctx, w)
}

// ListOwn returns the caller's listings, active or not.
func (s *Service) ListOwn(ctx context.Context, ownerID string) ([]domain.Workspace, error) {
	return s.workspaces.ListByCreator(ctx, ownerID)
}

// ListActive returns every active listing.
func (s *Service) ListActive(ctx context.Context) ([]domain.Workspace, error) {
	return s.workspaces.ListActive(ctx)
}

// Update applies an owner-or-admin listing mutation.
func (s *Service) Update(ctx context.Context, actorID, actorRole, id string, upd WorkspaceUpdate) (domain.Workspace, error) {
	if err := s.authorize(ctx, actorID, actorRole, id); err != nil {
		return domain.Workspace{}, err
	}
	if upd.Price != nil && *upd.Price < 0 {
		return domain.Workspace{}, domain.ErrInvalidField("price", "must be >= 0")
	}
	return s.workspaces.Update(ctx, id, upd)
}

// ToggleStatus flips a listing between active and inactive.
func (s *Service) ToggleStatus(ctx context.Context, actorID, actorRole, id string) (domain.Workspace, error) {
	if err := s.authorize(ctx, actorID, actorRole, id); err != nil {
		return domain.Workspace{}, err
	}
	w, err := s.workspaces.GetByID(ctx, id)
	if err != nil {
		return domain.Workspace{}, err
	}
	return s.workspaces.SetStatus(ctx, id, domain.ToggledStatus(w.Status))
}

func (s *Service) authorize(ctx context.Context, actorID, actorRole, id string) error {
	w, err := s.workspaces.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !domain.IsAdmin(actorRole) && w.CreatedBy != actorID {
		return domain.ErrForbidden()
	}
	return nil
}

package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/deskhive/deskhive/internal/application/listing"
	"github.com/deskhive/deskhive/internal/domain"
)

// WorkspaceRepo is an in-process WorkspaceStore for dev mode and tests.
type WorkspaceRepo struct {
	mu   sync.RWMutex
	byID map[string]domain.Workspace
}

func NewWorkspaceRepo() *WorkspaceRepo {
	return &WorkspaceRepo{byID: make(map[string]domain.Workspace)}
}

func (r *WorkspaceRepo) Create(ctx context.Context, w domain.Workspace) (domain.Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if w.ID == "" {
		return domain.Workspace{}, domain.ErrMissingField("id")
	}
	now := time.Now()
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	w.UpdatedAt = now
	r.byID[w.ID] = w
	return w, nil
}

func (r *WorkspaceRepo) GetByID(ctx context.Context, id string) (domain.Workspace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.byID[id]
	if !ok {
		return domain.Workspace{}, domain.ErrWorkspaceNotFound()
	}
	return w, nil
}

func (r *WorkspaceRepo) ListByCreator(ctx context.Context, userID string) ([]domain.Workspace, error) {
	return r.filter(func(w domain.Workspace) bool { return w.CreatedBy == userID }), nil
}

func (r *WorkspaceRepo) ListActive(ctx context.Context) ([]domain.Workspace, error) {
	return r.filter(func(w domain.Workspace) bool { return w.Status == domain.WorkspaceActive }), nil
}

func (r *WorkspaceRepo) filter(keep func(domain.Workspace) bool) []domain.Workspace {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Workspace
	for _, w := range r.byID {
		if keep(w) {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r *WorkspaceRepo) Update(ctx context.Context, id string, upd listing.WorkspaceUpdate) (domain.Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.byID[id]
	if !ok {
		return domain.Workspace{}, domain.ErrWorkspaceNotFound()
	}

	if upd.Name != nil {
		w.Name = *upd.Name
	}
	if upd.Location != nil {
		w.Location = *upd.Location
	}
	if upd.Capacity != nil {
		w.Capacity = *upd.Capacity
	}
	if upd.Amenities != nil {
		w.Amenities = *upd.Amenities
	}
	if upd.Price != nil {
		w.Price = *upd.Price
	}
	if upd.Description != nil {
		w.Description = *upd.Description
	}
	if upd.Image != nil {
		w.Image = *upd.Image
	}
	w.UpdatedAt = time.Now()

	r.byID[id] = w
	return w, nil
}

func (r *WorkspaceRepo) SetStatus(ctx context.Context, id, status string) (domain.Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.byID[id]
	if !ok {
		return domain.Workspace{}, domain.ErrWorkspaceNotFound()
	}
	w.Status = status
	w.UpdatedAt = time.Now()
	r.byID[id] = w
	return w, nil
}

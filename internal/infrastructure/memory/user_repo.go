package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/deskhive/deskhive/internal/application/auth"
	"github.com/deskhive/deskhive/internal/domain"
)

// UserRepo is an in-process UserStore for dev mode and handler tests.
type UserRepo struct {
	mu     sync.RWMutex
	byID   map[string]domain.User
	byMail map[string]string // email -> userID
	byName map[string]string // name -> userID
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		byID:   make(map[string]domain.User),
		byMail: make(map[string]string),
		byName: make(map[string]string),
	}
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byMail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return r.byID[id], nil
}

func (r *UserRepo) FindByEmailOrName(ctx context.Context, email, name string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id, ok := r.byMail[email]; ok {
		return r.byID[id], nil
	}
	if id, ok := r.byName[name]; ok {
		return r.byID[id], nil
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.ID == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}
	if _, exists := r.byMail[u.Email]; exists {
		return domain.User{}, domain.ErrUserExists()
	}
	if _, exists := r.byName[u.Name]; exists {
		return domain.User{}, domain.ErrUserExists()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}

	r.byID[u.ID] = u
	r.byMail[u.Email] = u.ID
	r.byName[u.Name] = u.ID
	return u, nil
}

func (r *UserRepo) Update(ctx context.Context, id string, upd auth.UserUpdate) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}

	if upd.Email != nil && *upd.Email != u.Email {
		if _, exists := r.byMail[*upd.Email]; exists {
			return domain.User{}, domain.ErrUserExists()
		}
		delete(r.byMail, u.Email)
		u.Email = *upd.Email
		r.byMail[u.Email] = id
	}
	if upd.Name != nil && *upd.Name != u.Name {
		if _, exists := r.byName[*upd.Name]; exists {
			return domain.User{}, domain.ErrUserExists()
		}
		delete(r.byName, u.Name)
		u.Name = *upd.Name
		r.byName[u.Name] = id
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	if upd.UserType != nil {
		u.UserType = *upd.UserType
	}
	if upd.Image != nil {
		u.Image = *upd.Image
	}
	if upd.Verified != nil {
		u.Verified = *upd.Verified
	}

	r.byID[id] = u
	return u, nil
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound()
	}
	delete(r.byID, id)
	delete(r.byMail, u.Email)
	delete(r.byName, u.Name)
	return nil
}

func (r *UserRepo) SetResetCode(ctx context.Context, userID, code string, expires time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.ResetCode = code
	u.ResetCodeExpires = expires
	r.byID[userID] = u
	return nil
}

func (r *UserRepo) CompleteReset(ctx context.Context, userID, newHash, code string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return false, nil
	}
	if u.ResetCode != code || !u.HasActiveResetCode(now) {
		return false, nil
	}
	u.PasswordHash = newHash
	u.ResetCode = ""
	u.ResetCodeExpires = time.Time{}
	r.byID[userID] = u
	return true, nil
}

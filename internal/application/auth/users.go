package auth

import (
	"context"

	"github.com/deskhive/deskhive/internal/domain"
)

func (s *Service) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// UpdateUserInput carries profile mutations. A non-nil Password is plaintext
// and gets hashed here; the store only ever sees the hash.
type UpdateUserInput struct {
	Email    *string
	Name     *string
	Password *string
	UserType *string
	Image    *string
	// Verified is honored on the admin route only.
	Verified *bool
}

// UpdateUser applies a self-or-admin profile update.
func (s *Service) UpdateUser(ctx context.Context, actorID, actorRole, targetID string, in UpdateUserInput) (domain.User, error) {
	if !domain.IsAdmin(actorRole) && actorID != targetID {
		return domain.User{}, domain.ErrForbidden()
	}
	return s.applyUpdate(ctx, targetID, in)
}

// AdminUpdateUser applies an update on behalf of an admin. The role gate in
// front of the route is the authorization check; this method only records
// the actor for auditing.
func (s *Service) AdminUpdateUser(ctx context.Context, actorID, targetID string, in UpdateUserInput) (domain.User, error) {
	u, err := s.applyUpdate(ctx, targetID, in)
	if err != nil {
		return domain.User{}, err
	}
	s.audit.AdminUpdate(ctx, targetID, actorID)
	return u, nil
}

func (s *Service) applyUpdate(ctx context.Context, targetID string, in UpdateUserInput) (domain.User, error) {
	upd := UserUpdate{
		Email:    in.Email,
		Name:     in.Name,
		UserType: in.UserType,
		Image:    in.Image,
		Verified: in.Verified,
	}

	if in.Password != nil && *in.Password != "" {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return domain.User{}, domain.ErrHashFailed(err)
		}
		upd.PasswordHash = &hash
	}

	u, err := s.users.Update(ctx, targetID, upd)
	if err != nil {
		return domain.User{}, err
	}

	if upd.PasswordHash != nil {
		s.audit.PasswordChanged(ctx, targetID)
	}
	return u, nil
}

// DeleteUser removes a record. Self-or-admin.
func (s *Service) DeleteUser(ctx context.Context, actorID, actorRole, targetID string) error {
	if !domain.IsAdmin(actorRole) && actorID != targetID {
		return domain.ErrForbidden()
	}
	if err := s.users.Delete(ctx, targetID); err != nil {
		return err
	}
	s.audit.UserDeleted(ctx, targetID, actorID)
	return nil
}

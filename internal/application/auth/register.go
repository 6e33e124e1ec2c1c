package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/deskhive/deskhive/internal/domain"
)

type RegisterInput struct {
	Email    string
	Name     string
	Password string
	UserType string
	Image    string
}

// Register creates a credential record. Email and name are both identity
// keys; a duplicate of either fails with the same conflict error.
func (s *Service) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	if in.Email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if in.Name == "" {
		return domain.User{}, domain.ErrMissingField("name")
	}
	if in.Password == "" {
		return domain.User{}, domain.ErrMissingField("password")
	}

	if _, err := s.users.FindByEmailOrName(ctx, in.Email, in.Name); err == nil {
		return domain.User{}, domain.ErrUserExists()
	} else if !domain.Is(err, "user_not_found") {
		return domain.User{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, domain.ErrHashFailed(err)
	}

	userType := in.UserType
	if userType == "" {
		userType = domain.DefaultUserType
	}

	u := domain.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
		Role:         string(domain.RoleUser),
		UserType:     userType,
		Image:        in.Image,
		Verified:     false,
	}

	created, err := s.users.Create(ctx, u)
	if err != nil {
		return domain.User{}, err
	}

	s.audit.Registered(ctx, created.ID, created.Email)
	return created, nil
}

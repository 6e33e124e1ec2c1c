package auth

import (
	"context"

	"github.com/deskhive/deskhive/internal/domain"
)

type LoginResult struct {
	User  domain.User
	Token SessionToken
}

// Login authenticates a user and issues a session token.
// IMPORTANT: unknown email and wrong password must be indistinguishable
// (avoid user enumeration).
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	if email == "" || password == "" {
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		// Hide not-found behind invalid credentials
		s.audit.LoginFailed(ctx, email, "unknown_email")
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		s.audit.LoginFailed(ctx, email, "bad_password")
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	tok, err := s.signer.SignSessionToken(u.ID, u.Role, s.sessionTTL)
	if err != nil {
		return LoginResult{}, domain.ErrTokenSignFailed(err)
	}

	s.audit.LoginSuccess(ctx, u.ID, u.Email)
	return LoginResult{
		User: u,
		Token: SessionToken{
			Value:     tok,
			ExpiresIn: int64(s.sessionTTL.Seconds()),
		},
	}, nil
}

package auth

import (
	"context"

	"github.com/deskhive/deskhive/internal/domain"
)

// InitiateReset starts the password-reset handshake: generate a short code,
// store it with an expiry window, deliver it out-of-band.
//
// Unknown emails fail with the same InvalidCredentials error as login; the
// 401 behavior is part of the external contract. Delivery failure fails the
// whole operation; the stored code is left in place (it expires on its own).
func (s *Service) InitiateReset(ctx context.Context, email string) error {
	if email == "" {
		return domain.ErrMissingField("email")
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return domain.ErrInvalidCredentials()
	}

	code, err := s.codes.Generate()
	if err != nil {
		return domain.ErrRandomFailed(err)
	}

	expires := s.now().Add(s.resetCodeTTL)
	if err := s.users.SetResetCode(ctx, u.ID, code, expires); err != nil {
		return err
	}

	if err := s.sender.SendResetCode(ctx, u.Email, code); err != nil {
		return domain.ErrSendFailed(err)
	}

	s.audit.ResetInitiated(ctx, u.ID, u.Email)
	return nil
}

// VerifyResetCode checks a submitted code against the stored challenge.
// Read-only: the code is not consumed, so the client may re-verify before
// completing.
func (s *Service) VerifyResetCode(ctx context.Context, email, code string) error {
	if email == "" {
		return domain.ErrMissingField("email")
	}
	if code == "" {
		return domain.ErrMissingField("code")
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return domain.ErrInvalidCredentials()
	}

	if u.ResetCode != code || !u.HasActiveResetCode(s.now()) {
		return domain.ErrInvalidOrExpiredCode()
	}
	return nil
}

// CompleteReset re-validates the code (it never trusts an earlier verify
// call), sets the new password, and clears both challenge fields. The final
// write is conditional on the code still matching, so two concurrent
// completions cannot both succeed with the same code.
func (s *Service) CompleteReset(ctx context.Context, email, code, newPassword string) error {
	if email == "" {
		return domain.ErrMissingField("email")
	}
	if code == "" {
		return domain.ErrMissingField("code")
	}
	if newPassword == "" {
		return domain.ErrMissingField("newPassword")
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return domain.ErrInvalidCredentials()
	}

	if u.ResetCode != code || !u.HasActiveResetCode(s.now()) {
		return domain.ErrInvalidOrExpiredCode()
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return domain.ErrHashFailed(err)
	}

	ok, err := s.users.CompleteReset(ctx, u.ID, hash, code, s.now())
	if err != nil {
		return err
	}
	if !ok {
		// Lost the race: another completion consumed the code first.
		return domain.ErrInvalidOrExpiredCode()
	}

	s.audit.ResetCompleted(ctx, u.ID)
	return nil
}
